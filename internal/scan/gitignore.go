package scan

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// gitignore holds the patterns of the root .gitignore only, matched with
// doublestar globs. Nested ignore files and negation rules are out of
// scope; a bad or unreadable .gitignore means no filtering.
type gitignore struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	glob     string
	dirOnly  bool
	anchored bool
}

func loadRootGitignore(root string) *gitignore {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer f.Close()

	gi := &gitignore{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		p := ignorePattern{}
		if strings.HasSuffix(line, "/") {
			p.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		if strings.HasPrefix(line, "/") {
			p.anchored = true
			line = strings.TrimPrefix(line, "/")
		}
		p.glob = line
		gi.patterns = append(gi.patterns, p)
	}
	return gi
}

// matches reports whether the candidate path is ignored. Matching runs
// against the root-relative path with forward slashes, the way git does.
func (gi *gitignore) matches(root, path string, isDir bool) bool {
	if gi == nil {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, p := range gi.patterns {
		if p.dirOnly && !isDir {
			// A dir-only pattern still hides files under a matching dir;
			// that case is covered by the parent being skipped first.
			continue
		}
		if p.anchored {
			if ok, _ := doublestar.Match(p.glob, rel); ok {
				return true
			}
			continue
		}
		// Unanchored patterns match at any depth.
		if ok, _ := doublestar.Match(p.glob, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match("**/"+p.glob, rel); ok {
			return true
		}
	}
	return false
}
