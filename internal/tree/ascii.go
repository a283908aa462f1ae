package tree

import (
	"strings"
)

// RenderOptions bounds the size of the ASCII outline.
type RenderOptions struct {
	// DepthLimit is the deepest level rendered; branches below it collapse
	// to a single "…" marker. Values < 1 are treated as 1.
	DepthLimit int

	// EntryLimit caps the total emitted lines. A floor is enforced so the
	// output always has room for the root and a truncation marker.
	EntryLimit int

	// ShowRootPath annotates the root line with its absolute path.
	ShowRootPath bool
}

const (
	collapsedMarker  = "…"
	truncatedMarker  = "(+ more)"
	minEntryLimit    = 4
	defaultDepth     = 3
	defaultEntryCap  = 200
)

// RenderASCII renders a deterministic, bounded outline of the tree.
// Children are emitted in scan order, never re-sorted, so two runs over an
// unchanged directory produce byte-identical output.
func RenderASCII(root *Node, opts RenderOptions) string {
	if root == nil {
		return ""
	}
	if opts.DepthLimit < 1 {
		opts.DepthLimit = defaultDepth
	}
	if opts.EntryLimit <= 0 {
		opts.EntryLimit = defaultEntryCap
	}
	if opts.EntryLimit < minEntryLimit {
		opts.EntryLimit = minEntryLimit
	}

	sep := Separator(root.Path)

	label := root.Name + sep
	if opts.ShowRootPath {
		label += " (" + root.Path + ")"
	}

	r := &asciiRenderer{limit: opts.EntryLimit, depthLimit: opts.DepthLimit, sep: sep}
	r.lines = append(r.lines, label)
	r.walk(root, 1)
	if r.truncated {
		r.lines = append(r.lines, truncatedMarker)
	}
	return strings.Join(r.lines, "\n")
}

type asciiRenderer struct {
	lines      []string
	limit      int
	depthLimit int
	sep        string
	truncated  bool
}

// emit appends a line unless the budget is exhausted. One slot is always
// reserved for the trailing truncation marker.
func (r *asciiRenderer) emit(line string) bool {
	if len(r.lines) >= r.limit-1 {
		r.truncated = true
		return false
	}
	r.lines = append(r.lines, line)
	return true
}

func (r *asciiRenderer) walk(n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, c := range n.Children {
		if r.truncated {
			return
		}
		if c.IsDir {
			if !r.emit(indent + c.Name + r.sep) {
				return
			}
			if depth >= r.depthLimit {
				if len(c.Children) > 0 {
					if !r.emit(indent + "  " + collapsedMarker) {
						return
					}
				}
				continue
			}
			r.walk(c, depth+1)
		} else {
			if !r.emit(indent + c.Name) {
				return
			}
		}
	}
}
