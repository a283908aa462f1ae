package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventShape(t *testing.T) {
	var buf bytes.Buffer
	l := New("extract").WithSource("/data/items.xlsx").WithOutput(&buf)

	l.Error("extract_failed", map[string]any{"kind": "spreadsheet"}, errors.New("boom"))

	var e Event
	require.NoError(t, json.Unmarshal(buf.Bytes(), &e))
	assert.Equal(t, "extract", e.Component)
	assert.Equal(t, "extract_failed", e.Event)
	assert.Equal(t, "/data/items.xlsx", e.Source)
	assert.Equal(t, LevelError, e.Level)
	assert.Equal(t, "boom", e.Error)
	assert.Equal(t, "spreadsheet", e.Extra["kind"])
}

func TestInfoOmitsError(t *testing.T) {
	var buf bytes.Buffer
	New("app").WithOutput(&buf).Info("started", nil)

	assert.NotContains(t, buf.String(), `"error"`)
	assert.Contains(t, buf.String(), `"level":"info"`)
}
