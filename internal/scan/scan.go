// Package scan walks a directory subtree into the tree model and reads
// selected files as text. The root's .gitignore is honored; dotfiles are
// skipped for readability.
package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joss/promptdeck/internal/fault"
	"github.com/joss/promptdeck/internal/tree"
)

// Directory scans root into a tree. Entries are ordered directories first,
// then files, case-insensitively by name; the renderer preserves this order
// so repeated scans of an unchanged directory diff cleanly.
func Directory(root string) (*tree.Node, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fault.NewSourceError(root, err)
	}
	if !info.IsDir() {
		return nil, fault.NewSourceError(root, os.ErrInvalid)
	}

	ignore := loadRootGitignore(root)
	node, err := walk(root, root, ignore)
	if err != nil {
		return nil, fault.NewSourceError(root, err)
	}
	return tree.Normalize(node), nil
}

func walk(root, dir string, ignore *gitignore) (*tree.Node, error) {
	node := &tree.Node{
		Name:     filepath.Base(dir),
		Path:     dir,
		IsDir:    true,
		Children: []*tree.Node{},
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if dir == root {
			return nil, err
		}
		// Unreadable subdirectory: keep the empty node.
		return node, nil
	}

	for _, ent := range entries {
		name := ent.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		p := filepath.Join(dir, name)
		isDir := ent.IsDir()
		if ignore.matches(root, p, isDir) {
			continue
		}
		if isDir {
			child, err := walk(root, p, ignore)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		} else {
			node.Children = append(node.Children, &tree.Node{Name: name, Path: p})
		}
	}

	sort.SliceStable(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})

	return node, nil
}
