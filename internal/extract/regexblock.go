package extract

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joss/promptdeck/internal/fault"
	"github.com/joss/promptdeck/internal/unit"
)

// RegexBlocks slices the file at path into units at delimiter match starts.
// When the delimiter never matches the whole trimmed text becomes a single
// unit. IDs come from the idCapture pattern's first capture group, falling
// back to the 1-based block position.
func RegexBlocks(path string, cfg RegexConfig) ([]unit.Unit, error) {
	if strings.TrimSpace(cfg.Delimiter) == "" {
		return nil, fault.NewConfigError("regex", "delimiter")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.NewSourceError(path, err)
	}
	text := string(data)

	delim, err := compileWithFlags(cfg.Delimiter, cfg.Flags)
	if err != nil {
		return nil, fmt.Errorf("delimiter: %w", err)
	}

	var idRe *regexp.Regexp
	if cfg.IDCapture != "" {
		idRe, err = compileWithFlags(cfg.IDCapture, cfg.Flags)
		if err != nil {
			return nil, fmt.Errorf("idCapture: %w", err)
		}
	}

	matches := delim.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		body := strings.TrimSpace(text)
		if body == "" {
			return []unit.Unit{}, nil
		}
		id := captureID(idRe, text)
		if id == "" {
			id = "1"
		}
		return []unit.Unit{{ID: id, Body: body}}, nil
	}

	starts := make([]int, 0, len(matches)+2)
	starts = append(starts, 0)
	for _, m := range matches {
		starts = append(starts, m[0])
	}
	starts = append(starts, len(text))

	var units []unit.Unit
	for i := 0; i+1 < len(starts); i++ {
		block := strings.TrimSpace(text[starts[i]:starts[i+1]])
		if block == "" {
			continue
		}
		id := captureID(idRe, block)
		if id == "" {
			id = strconv.Itoa(len(units) + 1)
		}
		units = append(units, unit.Unit{ID: id, Body: block})
	}
	return units, nil
}

// compileWithFlags maps the config flags string (any of "ims") onto Go's
// inline flag syntax before compiling.
func compileWithFlags(pattern, flags string) (*regexp.Regexp, error) {
	var inline string
	for _, f := range []string{"i", "m", "s"} {
		if strings.Contains(flags, f) {
			inline += f
		}
	}
	if inline != "" {
		pattern = "(?" + inline + ")" + pattern
	}
	return regexp.Compile(pattern)
}

func captureID(re *regexp.Regexp, block string) string {
	if re == nil {
		return ""
	}
	m := re.FindStringSubmatch(block)
	if len(m) > 1 {
		return m[1]
	}
	return ""
}
