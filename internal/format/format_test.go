package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/promptdeck/internal/unit"
)

func TestFence(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no backticks", "plain text", "```"},
		{"inline code", "uses `code` here", "```"},
		{"four-run inside", "````\nnested\n````", "`````"},
		{"exactly three", "```", "````"},
		{"empty", "", "```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fence(tt.content)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, tt.content, got, "fence must never appear inside the content")
		})
	}
}

func TestLangTag(t *testing.T) {
	assert.Equal(t, "ts", LangTag("a.ts"))
	assert.Equal(t, "markdown", LangTag("notes.md"))
	assert.Equal(t, "go", LangTag("/abs/path/main.go"))
	assert.Equal(t, "yaml", LangTag("c.YML"))
	assert.Equal(t, "", LangTag("mystery.xyz"))
	assert.Equal(t, "", LangTag("Makefile"))
}

func TestRenderScenarioFolderMode(t *testing.T) {
	out := Render(Input{
		Instructions: "Summarize",
		Mode:         ModeFolder,
		Files: []File{
			{Path: "/p/a.ts", Content: "const x = 1;\n"},
			{Path: "/p/b.md", Content: "# heading\n"},
		},
	})

	assert.Contains(t, out, "# Prompt\nSummarize")
	assert.Contains(t, out, "## File paths\n- /p/a.ts\n- /p/b.md")
	assert.Contains(t, out, "```ts\nconst x = 1;")
	assert.Contains(t, out, "```markdown\n# heading")
	assert.NotContains(t, out, "## File Tree")
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.False(t, strings.HasSuffix(out, "\n\n"), "exactly one trailing newline")
}

func TestRenderIsPure(t *testing.T) {
	in := Input{
		SystemPrompt: "be terse",
		Instructions: "do the thing",
		Mode:         ModeSpreadsheet,
		Unit:         &unit.Unit{ID: "7", Body: "Widget"},
	}
	assert.Equal(t, Render(in), Render(in))
}

func TestRenderSystemPromptOmittedWhenBlank(t *testing.T) {
	out := Render(Input{Instructions: "x", Mode: ModeBlock, SystemPrompt: "   \n "})
	assert.NotContains(t, out, "# System Prompt")
	assert.True(t, strings.HasPrefix(out, "# Prompt"))
}

func TestRenderUnitSection(t *testing.T) {
	out := Render(Input{
		Instructions: "x",
		Mode:         ModeSpreadsheet,
		Unit:         &unit.Unit{ID: "7", Body: "Widget"},
	})

	assert.Contains(t, out, "## Unit\n**7**\n```\nWidget\n```")
}

func TestRenderUnitOmittedWhenBodyBlank(t *testing.T) {
	out := Render(Input{
		Instructions: "x",
		Mode:         ModeBlock,
		Unit:         &unit.Unit{ID: "7", Body: "  "},
	})
	assert.NotContains(t, out, "## Unit")
}

func TestRenderUnitIgnoredInFolderMode(t *testing.T) {
	out := Render(Input{
		Instructions: "x",
		Mode:         ModeFolder,
		Unit:         &unit.Unit{ID: "7", Body: "Widget"},
	})
	assert.NotContains(t, out, "## Unit")
}

func TestRenderNoFilesPlaceholder(t *testing.T) {
	out := Render(Input{Instructions: "x", Mode: ModeFolder})
	assert.Contains(t, out, "## Files\n(no files selected)")
	assert.NotContains(t, out, "## File paths")
}

func TestRenderFileContentWithBackticks(t *testing.T) {
	content := "```go\nfmt.Println(1)\n```"
	out := Render(Input{
		Instructions: "x",
		Mode:         ModeFolder,
		Files:        []File{{Path: "doc.md", Content: content}},
	})

	assert.Contains(t, out, "````markdown\n"+content+"\n````")
}

func TestRenderNormalizesLineEndings(t *testing.T) {
	out := Render(Input{
		Instructions: "x",
		Mode:         ModeFolder,
		Files:        []File{{Path: "w.txt", Content: "a\r\nb\rc"}},
	})

	assert.Contains(t, out, "a\nb\nc")
	assert.NotContains(t, out, "\r")
}

func TestRenderTreeOnlyWhenRequested(t *testing.T) {
	in := Input{Instructions: "x", Mode: ModeFolder, Tree: "proj/\n  a.ts"}

	assert.NotContains(t, Render(in), "## File Tree")

	in.IncludeTree = true
	out := Render(in)
	assert.Contains(t, out, "## File Tree\nproj/\n  a.ts")
}

func TestRenderNoStrayBlankSections(t *testing.T) {
	out := Render(Input{Instructions: "only instructions", Mode: ModeBlock})
	require.Equal(t, "# Prompt\nonly instructions\n", out)
}
