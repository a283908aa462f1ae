// Package tree holds the immutable in-memory model of a scanned directory.
// Nodes are built wholesale by a scan and replaced wholesale on rescan;
// nothing here performs I/O.
package tree

// Node is one entry of a scanned directory tree. A directory node always
// carries a non-nil Children slice (possibly empty); a file node never does.
type Node struct {
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	IsDir    bool    `json:"isDir"`
	Children []*Node `json:"children,omitempty"`
}

// Normalize ensures every directory node has a non-nil child list.
// Scan responses from external sources may leave directory children absent;
// the rest of the model assumes they never are.
func Normalize(n *Node) *Node {
	if n == nil {
		return nil
	}
	if n.IsDir && n.Children == nil {
		n.Children = []*Node{}
	}
	for _, c := range n.Children {
		Normalize(c)
	}
	return n
}

// CollectFilePaths returns the path of every file leaf under root.
// Used to drop selections that no longer exist after a rescan.
func CollectFilePaths(root *Node) map[string]struct{} {
	paths := make(map[string]struct{})
	collect(root, paths)
	return paths
}

func collect(n *Node, paths map[string]struct{}) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		collect(c, paths)
	}
	if !n.IsDir {
		paths[n.Path] = struct{}{}
	}
}

// Separator reports the path separator style used by the node paths,
// detected from the root path itself. Defaults to "/" when ambiguous.
func Separator(path string) string {
	for _, r := range path {
		if r == '\\' {
			return "\\"
		}
		if r == '/' {
			return "/"
		}
	}
	return "/"
}
