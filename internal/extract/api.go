package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joss/promptdeck/internal/fault"
)

const fetchTimeout = 30 * time.Second

// userAgent mimics a real browser; some extraction backends reject
// obviously scripted clients.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127 Safari/537.36"

// Fetcher runs the API adapter's first phase against a remote extraction
// endpoint.
type Fetcher struct {
	client  *http.Client
	browser RenderedFetcher
}

// RenderedFetcher downloads a URL through a real browser so JS-rendered
// markup can be extracted. Optional; when nil, app-shell pages are sent as
// downloaded.
type RenderedFetcher interface {
	FetchRendered(ctx context.Context, url string) (string, error)
}

// NewFetcher creates a Fetcher with a plain HTTP client.
func NewFetcher() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: fetchTimeout}}
}

// WithBrowser attaches a rendered-page fallback for JS app shells.
func (f *Fetcher) WithBrowser(b RenderedFetcher) *Fetcher {
	f.browser = b
	return f
}

// FetchTable posts the source content to the extraction endpoint and
// normalizes the JSON response into a Table. The source may be a local file
// path or an http(s) URL; URLs are downloaded first. No units are built
// here — that is the second phase, Table.Build.
func (f *Fetcher) FetchTable(ctx context.Context, endpoint, source string) (Table, error) {
	if strings.TrimSpace(endpoint) == "" {
		return Table{}, fault.NewConfigError("api", "endpoint")
	}
	if strings.TrimSpace(source) == "" {
		return Table{}, fault.NewConfigError("api", "source")
	}

	text, err := f.sourceText(ctx, source)
	if err != nil {
		return Table{}, err
	}

	payload, err := json.Marshal(map[string]string{"data": text})
	if err != nil {
		return Table{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Table{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Table{}, fault.NewSourceError(endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Table{}, fault.NewSourceError(endpoint, fmt.Errorf("API error %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Table{}, fault.NewSourceError(endpoint, err)
	}

	return TableFromJSON(body)
}

func (f *Fetcher) sourceText(ctx context.Context, source string) (string, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return f.download(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fault.NewSourceError(source, err)
	}
	return string(data), nil
}

// download GETs a URL. When the result looks like a JS app shell (near-empty
// body markup) and a browser is attached, the page is re-fetched rendered.
func (f *Fetcher) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fault.NewSourceError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fault.NewSourceError(url, fmt.Errorf("GET returned %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fault.NewSourceError(url, err)
	}
	text := string(data)

	if f.browser != nil && looksLikeAppShell(text) {
		rendered, rerr := f.browser.FetchRendered(ctx, url)
		if rerr == nil && len(rendered) > len(text) {
			return rendered, nil
		}
	}
	return text, nil
}

// looksLikeAppShell guesses whether markup is a client-side shell with no
// server-rendered content worth extracting.
func looksLikeAppShell(markup string) bool {
	lower := strings.ToLower(markup)
	body := lower
	if i := strings.Index(lower, "<body"); i >= 0 {
		body = lower[i:]
	}
	stripped := strings.TrimSpace(stripTags(body))
	return len(stripped) < 200 && strings.Contains(lower, "<script")
}

func stripTags(markup string) string {
	var b strings.Builder
	inTag := false
	for _, r := range markup {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TableFromJSON locates an array of objects in an arbitrary JSON response
// and flattens it into a Table: the column list is the sorted union of all
// row keys, values are stringified, missing cells become "".
func TableFromJSON(raw []byte) (Table, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Table{}, fault.ErrValidationFailed
	}

	objs := findArrayOfObjects(v)
	if objs == nil {
		return Table{}, fault.ErrValidationFailed
	}

	colSet := make(map[string]struct{})
	for _, o := range objs {
		for k := range o {
			colSet[k] = struct{}{}
		}
	}
	columns := make([]string, 0, len(colSet))
	for k := range colSet {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	rows := make([]map[string]string, 0, len(objs))
	for _, o := range objs {
		row := make(map[string]string, len(columns))
		for _, c := range columns {
			row[c] = jsonValueString(o[c])
		}
		rows = append(rows, row)
	}
	return Table{Columns: columns, Rows: rows}, nil
}

// findArrayOfObjects accepts common response shapes: a top-level array, an
// array under a well-known key, or the first array of objects found.
func findArrayOfObjects(v any) []map[string]any {
	if arr, ok := v.([]any); ok {
		if objs := onlyObjects(arr); len(objs) > 0 {
			return objs
		}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	for _, key := range []string{"items", "rows", "data", "result", "notes", "records"} {
		if arr, ok := obj[key].([]any); ok {
			if objs := onlyObjects(arr); len(objs) > 0 {
				return objs
			}
		}
	}
	// Deterministic scan over the remaining keys.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if arr, ok := obj[k].([]any); ok {
			if objs := onlyObjects(arr); len(objs) > 0 {
				return objs
			}
		}
	}
	return nil
}

func onlyObjects(arr []any) []map[string]any {
	var objs []map[string]any
	for _, x := range arr {
		if o, ok := x.(map[string]any); ok {
			objs = append(objs, o)
		}
	}
	return objs
}

func jsonValueString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
