// Package format assembles the final Markdown document. Render is a pure
// function: identical input always yields byte-identical output, because the
// document is pasted verbatim into an external tool and any formatting drift
// is a correctness bug.
package format

import (
	"path/filepath"
	"strings"

	"github.com/joss/promptdeck/internal/unit"
)

// Mode mirrors the working session's active mode.
type Mode string

const (
	ModeFolder      Mode = "folder"
	ModeSpreadsheet Mode = "spreadsheet"
	ModeBlock       Mode = "block"
)

// File is one selected file with its inlined content.
type File struct {
	Path    string
	Content string
}

// Input is everything Render needs. Optional parts are zero values.
type Input struct {
	SystemPrompt string
	Instructions string
	Mode         Mode
	Unit         *unit.Unit
	Files        []File
	IncludeTree  bool
	Tree         string
}

// langTags maps file extensions to fence language tags. Unknown extensions
// get no tag.
var langTags = map[string]string{
	".c":     "c",
	".cc":    "cpp",
	".cpp":   "cpp",
	".cs":    "csharp",
	".css":   "css",
	".go":    "go",
	".h":     "c",
	".hpp":   "cpp",
	".html":  "html",
	".java":  "java",
	".js":    "js",
	".json":  "json",
	".jsx":   "jsx",
	".kt":    "kotlin",
	".md":    "markdown",
	".php":   "php",
	".py":    "python",
	".rb":    "ruby",
	".rs":    "rust",
	".sh":    "bash",
	".sql":   "sql",
	".swift": "swift",
	".toml":  "toml",
	".ts":    "ts",
	".tsx":   "tsx",
	".txt":   "text",
	".xml":   "xml",
	".yaml":  "yaml",
	".yml":   "yaml",
}

// LangTag returns the fence language tag for a file path, or "" when the
// extension is not in the table.
func LangTag(path string) string {
	return langTags[strings.ToLower(filepath.Ext(path))]
}

// Fence returns a backtick fence one longer than the longest backtick run
// inside content, never shorter than three. The fence can therefore never
// collide with the content it wraps.
func Fence(content string) string {
	longest := 0
	run := 0
	for _, r := range content {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	n := longest + 1
	if n < 3 {
		n = 3
	}
	return strings.Repeat("`", n)
}

// Render builds the document. Section order is fixed; empty sections are
// omitted entirely, never left as stray headers.
func Render(in Input) string {
	var sections []string

	if sys := strings.TrimSpace(in.SystemPrompt); sys != "" {
		sections = append(sections, "# System Prompt\n"+sys)
	}

	sections = append(sections, "# Prompt\n"+strings.TrimSpace(in.Instructions))

	if in.Mode != ModeFolder && in.Unit != nil {
		if body := strings.TrimSpace(in.Unit.Body); body != "" {
			var b strings.Builder
			b.WriteString("## Unit")
			if id := strings.TrimSpace(in.Unit.ID); id != "" {
				b.WriteString("\n**" + id + "**")
			}
			fence := Fence(body)
			b.WriteString("\n" + fence + "\n" + body + "\n" + fence)
			sections = append(sections, b.String())
		}
	}

	if in.Mode == ModeFolder {
		if len(in.Files) > 0 {
			var b strings.Builder
			b.WriteString("## File paths")
			for _, f := range in.Files {
				b.WriteString("\n- " + f.Path)
			}
			sections = append(sections, b.String())
		}

		if len(in.Files) > 0 {
			var b strings.Builder
			b.WriteString("## Files")
			for _, f := range in.Files {
				content := normalizeNewlines(f.Content)
				fence := Fence(content)
				tag := LangTag(f.Path)
				b.WriteString("\n" + fence + tag + "\n" + content + "\n" + fence)
			}
			sections = append(sections, b.String())
		} else {
			sections = append(sections, "## Files\n(no files selected)")
		}
	}

	if in.IncludeTree && strings.TrimSpace(in.Tree) != "" {
		sections = append(sections, "## File Tree\n"+strings.TrimRight(in.Tree, " \t\n"))
	}

	out := strings.Join(sections, "\n")
	return strings.TrimRight(out, " \t\n") + "\n"
}

// normalizeNewlines converts CRLF and lone CR line endings to LF.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
