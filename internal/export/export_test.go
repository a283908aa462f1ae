package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain-name_1.md", "plain-name_1.md"},
		{"has spaces & stuff", "has_spaces_stuff"},
		{"__lead__and__trail__", "lead_and_trail"},
		{"a///b", "a_b"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.in), tt.in)
	}
}

func TestSaveChunk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := SaveChunk(dir, "unit 7", "md", "# body\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "unit_7.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# body\n", string(data))
}

func TestSaveChunkUniqueSuffix(t *testing.T) {
	dir := t.TempDir()

	first, err := SaveChunk(dir, "doc", "md", "one")
	require.NoError(t, err)
	second, err := SaveChunk(dir, "doc", "md", "two")
	require.NoError(t, err)
	third, err := SaveChunk(dir, "doc", "md", "three")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "doc.md"), first)
	assert.Equal(t, filepath.Join(dir, "doc--2.md"), second)
	assert.Equal(t, filepath.Join(dir, "doc--3.md"), third)
}

func TestSaveChunkDefaults(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveChunk(dir, "???", "", "x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chunk.md"), path)
}
