package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/promptdeck/internal/fault"
)

func TestFetchTableTwoPhase(t *testing.T) {
	src := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(src, []byte("<html>payload</html>"), 0644))

	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":"A","desc":"hello"},{"id":"","desc":"world"},{"id":"C","desc":""}]}`))
	}))
	defer srv.Close()

	f := NewFetcher()
	table, err := f.FetchTable(context.Background(), srv.URL, src)
	require.NoError(t, err)

	assert.Equal(t, "<html>payload</html>", gotBody["data"], "source content posted under the data key")
	assert.Equal(t, []string{"desc", "id"}, table.Columns)
	require.Len(t, table.Rows, 3)

	// Phase 2: reduce with chosen columns.
	units, err := table.Build("id", []string{"desc"})
	require.NoError(t, err)
	require.Len(t, units, 2, "row with blank body dropped")
	assert.Equal(t, "A", units[0].ID)
	assert.Equal(t, "2", units[1].ID, "blank id defaults to the 1-based row number")
	assert.Equal(t, "world", units[1].Body)
}

func TestFetchTableRebuildIsDeterministic(t *testing.T) {
	src := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"1","d":"a"},{"id":"2","d":"b"}]`))
	}))
	defer srv.Close()

	f := NewFetcher()
	first, err := f.FetchTable(context.Background(), srv.URL, src)
	require.NoError(t, err)
	second, err := f.FetchTable(context.Background(), srv.URL, src)
	require.NoError(t, err)

	u1, err := first.Build("id", []string{"d"})
	require.NoError(t, err)
	u2, err := second.Build("id", []string{"d"})
	require.NoError(t, err)
	assert.Equal(t, u1, u2, "re-extract plus saved column choices reproduces the sequence")
}

func TestFetchTableServerError(t *testing.T) {
	src := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewFetcher().FetchTable(context.Background(), srv.URL, src)
	assert.True(t, fault.IsSourceUnavailable(err))
}

func TestFetchTableMissingConfig(t *testing.T) {
	f := NewFetcher()

	_, err := f.FetchTable(context.Background(), "", "some.html")
	assert.True(t, fault.IsConfigIncomplete(err))

	_, err = f.FetchTable(context.Background(), "https://x.test", "")
	assert.True(t, fault.IsConfigIncomplete(err))
}

func TestFetchTableURLSource(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>server rendered content that is long enough to not look like an app shell. " +
			"It has real text in the body, which is what the shell heuristic checks for.</body></html>"))
	}))
	defer page.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"1"}]`))
	}))
	defer srv.Close()

	table, err := NewFetcher().FetchTable(context.Background(), srv.URL, page.URL)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

func TestLooksLikeAppShell(t *testing.T) {
	shell := `<html><head><script src="app.js"></script></head><body><div id="root"></div></body></html>`
	assert.True(t, looksLikeAppShell(shell))

	rendered := `<html><body><p>` +
		`This page carries enough visible text to be treated as server rendered. ` +
		`The heuristic only trips on short bodies that load scripts. ` +
		`Repeating a little more prose keeps us clearly over the threshold here, ` +
		`well past the couple hundred characters the check requires.</p></body></html>`
	assert.False(t, looksLikeAppShell(rendered))
}
