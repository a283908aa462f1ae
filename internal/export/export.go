// Package export writes assembled documents to disk with collision-safe,
// sanitized filenames.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joss/promptdeck/internal/fault"
)

const maxNameAttempts = 9999

// SaveChunk writes contents under dir as base.ext, creating the directory
// if needed. Base and extension are sanitized to filename-safe characters;
// on collision the name gets a --N suffix: base.ext, base--2.ext, ...
// Returns the final path.
func SaveChunk(dir, base, ext, contents string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: mkdir: %v", fault.ErrIoDenied, err)
	}

	if ext == "" {
		ext = "md"
	}
	ext = Sanitize(strings.Trim(ext, "."))
	base = Sanitize(base)
	if base == "" {
		base = "chunk"
	}

	var final string
	for attempt := 1; ; attempt++ {
		if attempt > maxNameAttempts {
			return "", fmt.Errorf("%w: no unique filename for %s", fault.ErrIoDenied, base)
		}
		name := base + "." + ext
		if attempt > 1 {
			name = fmt.Sprintf("%s--%d.%s", base, attempt, ext)
		}
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			final = candidate
			break
		}
	}

	if err := os.WriteFile(final, []byte(contents), 0644); err != nil {
		return "", fmt.Errorf("%w: write: %v", fault.ErrIoDenied, err)
	}
	return final, nil
}

// Sanitize keeps alphanumerics, dot, dash and underscore; everything else
// becomes an underscore, runs of underscores collapse, and leading/trailing
// underscores are trimmed.
func Sanitize(input string) string {
	var b strings.Builder
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return strings.Trim(out, "_")
}
