package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/promptdeck/internal/extract"
	"github.com/joss/promptdeck/internal/fault"
)

func sampleState() State {
	return State{
		Root:          "/home/u/proj",
		Instructions:  "Summarize",
		SystemPrompt:  "be terse",
		Mode:          ModeSpreadsheet,
		SelectedFiles: []string{"/home/u/proj/src/a.ts", "/home/u/proj/b.md"},
		IncludeTree:   true,
		UnitSource:    "/home/u/proj/data/items.xlsx",
		Extraction: &extract.Config{
			Kind: extract.KindSpreadsheet,
			Spreadsheet: &extract.SpreadsheetConfig{
				Sheet:              "S1",
				IDColumn:           "SKU",
				DescriptionColumns: []string{"Name", "Notes"},
			},
		},
		CursorIndex: 3,
		CursorID:    "7",
		TokenCount:  1234,
	}
}

func TestPathRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		root string
		path string
	}{
		{"unix nested", "/home/u/proj", "/home/u/proj/src/deep/x.go"},
		{"unix direct child", "/home/u/proj", "/home/u/proj/b.md"},
		{"root itself", "/home/u/proj", "/home/u/proj"},
		{"windows nested", `C:\Users\u\proj`, `C:\Users\u\proj\src\x.go`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel := ToRelative(tt.root, tt.path)
			abs := ToAbsolute(tt.root, rel)
			assert.Equal(t, tt.path, abs)
		})
	}
}

func TestToRelativeOutsideRootUnrewritten(t *testing.T) {
	rel := ToRelative("/home/u/proj", "/etc/hosts")
	assert.Equal(t, "/etc/hosts", rel)

	// And it survives the inverse unchanged.
	assert.Equal(t, "/etc/hosts", ToAbsolute("/home/u/proj", rel))
}

func TestToAbsoluteNormalizesSeparators(t *testing.T) {
	// A file saved on Windows can resolve against a unix root.
	assert.Equal(t, "/home/u/proj/src/x.go", ToAbsolute("/home/u/proj", `src\x.go`))
	assert.Equal(t, `C:\p\src\x.go`, ToAbsolute(`C:\p`, "src/x.go"))
}

func TestStateRoundTrip(t *testing.T) {
	st := sampleState()
	f := ToPortable(st)

	assert.Equal(t, FileVersion, f.Version)
	assert.Equal(t, []string{"src/a.ts", "b.md"}, f.SelectedFiles)
	assert.Equal(t, "data/items.xlsx", f.UnitSource)

	back := FromPortable(st.Root, f)
	assert.Equal(t, st, back)
}

func TestExportImportExportIdentical(t *testing.T) {
	st := sampleState()

	first, err := Encode(ToPortable(st))
	require.NoError(t, err)

	f, err := Validate(first)
	require.NoError(t, err)

	second, err := Encode(ToPortable(FromPortable(st.Root, f)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestValidateAcceptsEncodedFile(t *testing.T) {
	data, err := Encode(ToPortable(sampleState()))
	require.NoError(t, err)

	f, err := Validate(data)
	require.NoError(t, err)
	assert.Equal(t, "spreadsheet", f.Mode)
	assert.Equal(t, 3, f.Cursor.Index)
	assert.Equal(t, "7", f.Cursor.ID)
}

func TestValidateRejects(t *testing.T) {
	valid := ToPortable(sampleState())

	mutate := func(fn func(m map[string]any)) []byte {
		data, err := Encode(valid)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		fn(m)
		out, err := json.Marshal(m)
		require.NoError(t, err)
		return out
	}

	tests := []struct {
		name string
		raw  []byte
	}{
		{"not json", []byte("not json at all")},
		{"not an object", []byte(`[1,2,3]`)},
		{"wrong version", mutate(func(m map[string]any) { m["version"] = 99 })},
		{"missing mode", mutate(func(m map[string]any) { delete(m, "mode") })},
		{"unknown mode", mutate(func(m map[string]any) { m["mode"] = "carousel" })},
		{"unknown field", mutate(func(m map[string]any) { m["surprise"] = true })},
		{"negative cursor", mutate(func(m map[string]any) {
			m["cursor"] = map[string]any{"index": -2}
		})},
		{"extraction kind without branch", mutate(func(m map[string]any) {
			m["extraction"] = map[string]any{"kind": "regex"}
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.raw)
			assert.ErrorIs(t, err, fault.ErrValidationFailed)
		})
	}
}

func TestValidateWholeFileRejection(t *testing.T) {
	// A file with one bad field yields no partial result.
	data, err := Encode(ToPortable(sampleState()))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	m["tokenCount"] = -1
	raw, err := json.Marshal(m)
	require.NoError(t, err)

	f, err := Validate(raw)
	assert.ErrorIs(t, err, fault.ErrValidationFailed)
	assert.Equal(t, File{}, f)
}
