package scan

import (
	"io"
	"os"

	"github.com/joss/promptdeck/internal/fault"
)

// DefaultMaxBytes caps how much of each file is read.
const DefaultMaxBytes = 512 * 1024

// FileText is one selected file's content after reading.
type FileText struct {
	Path string `json:"filePath"`
	Text string `json:"value"`
}

// ReadFilesAsText reads each path up to maxBytes and filters the bytes to
// printable ASCII plus tab/newline/carriage return. Oversize files truncate
// into the same text shape as normal files; non-files are skipped; an
// unreadable file fails the whole batch so partial reads are never silently
// substituted for failure.
func ReadFilesAsText(paths []string, maxBytes int) ([]FileText, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	out := make([]FileText, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			return nil, fault.NewSourceError(p, err)
		}
		data, err := io.ReadAll(io.LimitReader(f, int64(maxBytes)))
		f.Close()
		if err != nil {
			return nil, fault.NewSourceError(p, err)
		}
		out = append(out, FileText{Path: p, Text: asciiOnly(data)})
	}
	return out, nil
}

// asciiOnly keeps \t \n \r and printable ASCII, dropping everything else.
// Binary content therefore degrades to its readable fragments instead of
// garbling the document.
func asciiOnly(data []byte) string {
	buf := make([]byte, 0, len(data))
	for _, b := range data {
		switch {
		case b == '\t' || b == '\n' || b == '\r':
			buf = append(buf, b)
		case b >= 32 && b <= 126:
			buf = append(buf, b)
		}
	}
	return string(buf)
}
