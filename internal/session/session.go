// Package session converts the live working state to and from a portable,
// versioned file representation. On disk every file-system path is rewritten
// root-relative so a session moves between machines and roots; in memory all
// paths are absolute. The file itself is UTF-8 JSON; reading and writing it
// is the caller's concern, this package only defines the shape and the
// rewrite rules.
package session

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joss/promptdeck/internal/extract"
	"github.com/joss/promptdeck/internal/fault"
)

// FileVersion is the fixed discriminant of the portable format. Any other
// value rejects the whole file.
const FileVersion = 1

// Mode is the active working mode.
type Mode string

const (
	ModeFolder      Mode = "folder"
	ModeSpreadsheet Mode = "spreadsheet"
	ModeBlock       Mode = "block"
)

// State is the in-memory working session. Paths are absolute. The Tree
// Model, unit sequence and session file are derived views over this state,
// never the source of truth for it.
type State struct {
	Root          string
	Instructions  string
	SystemPrompt  string
	Mode          Mode
	SelectedFiles []string
	IncludeTree   bool
	UnitSource    string
	Extraction    *extract.Config
	CursorIndex   int
	CursorID      string
	TokenCount    int
}

// Cursor is the persisted unit position: the index plus the last-known id,
// so a reloaded session can re-target by id when the index drifted.
type Cursor struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
}

// File is the portable form of State. All paths are root-relative; paths
// that were not under the root stay absolute (defensive fallback, never
// dropped).
type File struct {
	Version       int             `json:"version"`
	Root          string          `json:"root"`
	Instructions  string          `json:"instructions"`
	SystemPrompt  string          `json:"systemPrompt"`
	Mode          string          `json:"mode"`
	SelectedFiles []string        `json:"selectedFiles"`
	IncludeTree   bool            `json:"includeTree"`
	UnitSource    string          `json:"unitSource,omitempty"`
	Extraction    *extract.Config `json:"extraction,omitempty"`
	Cursor        Cursor          `json:"cursor"`
	TokenCount    int             `json:"tokenCount"`
}

// ToPortable rewrites state into its on-disk form.
func ToPortable(s State) File {
	rel := make([]string, len(s.SelectedFiles))
	for i, p := range s.SelectedFiles {
		rel[i] = ToRelative(s.Root, p)
	}

	return File{
		Version:       FileVersion,
		Root:          ToRelative(s.Root, s.Root),
		Instructions:  s.Instructions,
		SystemPrompt:  s.SystemPrompt,
		Mode:          string(s.Mode),
		SelectedFiles: rel,
		IncludeTree:   s.IncludeTree,
		UnitSource:    ToRelative(s.Root, s.UnitSource),
		Extraction:    s.Extraction,
		Cursor:        Cursor{Index: s.CursorIndex, ID: s.CursorID},
		TokenCount:    s.TokenCount,
	}
}

// FromPortable resolves a portable file against root back into absolute
// state. The caller supplies the root because the file's own root is
// relative by construction.
func FromPortable(root string, f File) State {
	abs := make([]string, len(f.SelectedFiles))
	for i, p := range f.SelectedFiles {
		abs[i] = ToAbsolute(root, p)
	}

	return State{
		Root:          root,
		Instructions:  f.Instructions,
		SystemPrompt:  f.SystemPrompt,
		Mode:          Mode(f.Mode),
		SelectedFiles: abs,
		IncludeTree:   f.IncludeTree,
		UnitSource:    ToAbsolute(root, f.UnitSource),
		Extraction:    f.Extraction,
		CursorIndex:   f.Cursor.Index,
		CursorID:      f.Cursor.ID,
		TokenCount:    f.TokenCount,
	}
}

// Validate parses raw bytes into a File, rejecting the whole document on
// any shape mismatch: wrong version, unknown fields, missing required
// fields, unknown mode, malformed extraction variant. There is no partial
// recovery.
func Validate(raw []byte) (File, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return File{}, fmt.Errorf("%w: not a JSON object", fault.ErrValidationFailed)
	}

	for _, field := range []string{
		"version", "root", "instructions", "systemPrompt", "mode",
		"selectedFiles", "includeTree", "cursor", "tokenCount",
	} {
		if _, ok := probe[field]; !ok {
			return File{}, fmt.Errorf("%w: missing field %q", fault.ErrValidationFailed, field)
		}
	}

	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.DisallowUnknownFields()
	var f File
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("%w: %v", fault.ErrValidationFailed, err)
	}

	if f.Version != FileVersion {
		return File{}, fmt.Errorf("%w: unsupported version %d", fault.ErrValidationFailed, f.Version)
	}
	switch Mode(f.Mode) {
	case ModeFolder, ModeSpreadsheet, ModeBlock:
	default:
		return File{}, fmt.Errorf("%w: unknown mode %q", fault.ErrValidationFailed, f.Mode)
	}
	if f.Cursor.Index < 0 {
		return File{}, fmt.Errorf("%w: negative cursor index", fault.ErrValidationFailed)
	}
	if f.TokenCount < 0 {
		return File{}, fmt.Errorf("%w: negative token count", fault.ErrValidationFailed)
	}
	if f.Extraction != nil {
		if err := f.Extraction.Shape(); err != nil {
			return File{}, fmt.Errorf("%w: malformed extraction config", fault.ErrValidationFailed)
		}
	}
	return f, nil
}

// Encode marshals a File as indented UTF-8 JSON with a trailing newline.
// Deterministic, so export-import-export is byte stable.
func Encode(f File) ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// separator detects the path separator style from the root string itself,
// defaulting to "/".
func separator(root string) string {
	if strings.Contains(root, "\\") && !strings.Contains(root, "/") {
		return "\\"
	}
	return "/"
}

// ToRelative strips the root prefix from path. The root itself maps to "".
// Paths not under the root pass through unrewritten.
func ToRelative(root, path string) string {
	if path == "" || root == "" {
		return path
	}
	if path == root {
		return ""
	}
	sep := separator(root)
	prefix := strings.TrimRight(root, sep) + sep
	if strings.HasPrefix(path, prefix) {
		return path[len(prefix):]
	}
	return path
}

// ToAbsolute resolves a portable path against root. "" resolves to the root
// itself; already-absolute paths pass through; relative paths get their
// separators normalized to the root's style first.
func ToAbsolute(root, path string) string {
	if path == "" {
		return root
	}
	if isAbsolute(path) {
		return path
	}
	sep := separator(root)
	if sep == "/" {
		path = strings.ReplaceAll(path, "\\", "/")
	} else {
		path = strings.ReplaceAll(path, "/", "\\")
	}
	return strings.TrimRight(root, sep) + sep + path
}

func isAbsolute(path string) bool {
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, "\\\\") {
		return true
	}
	// Windows drive letter, e.g. C:\ or C:/
	if len(path) >= 3 && path[1] == ':' &&
		(path[2] == '\\' || path[2] == '/') {
		return true
	}
	return false
}
