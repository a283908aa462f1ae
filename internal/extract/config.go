// Package extract turns heterogeneous sources — spreadsheet rows, regex
// delimited blocks, HTML-selected elements, remote tabular endpoints — into
// one normalized unit sequence. The set of source kinds is small and fixed,
// so configurations are a closed tagged variant dispatched once at build
// time, not an open plugin registry.
package extract

import (
	"strings"

	"github.com/joss/promptdeck/internal/fault"
)

// Kind discriminates the configuration variant.
type Kind string

const (
	KindSpreadsheet Kind = "spreadsheet"
	KindRegex       Kind = "regex"
	KindHTML        Kind = "html"
	KindAPI         Kind = "api"
)

// SpreadsheetConfig maps sheet columns onto units.
type SpreadsheetConfig struct {
	Sheet              string   `json:"sheet"`
	IDColumn           string   `json:"idColumn"`
	DescriptionColumns []string `json:"descriptionColumns"`
}

// RegexConfig slices a text file at delimiter matches. IDCapture and Flags
// are optional refinements; they are omitted entirely when unset so
// persisted configs round-trip without spurious fields.
type RegexConfig struct {
	Delimiter string `json:"delimiter"`
	IDCapture string `json:"idCapture,omitempty"`
	Flags     string `json:"flags,omitempty"`
}

// HTMLConfig selects elements from an HTML document with CSS selectors.
type HTMLConfig struct {
	ItemSelector string `json:"itemSelector"`
	IDSelector   string `json:"idSelector,omitempty"`
	IDAttr       string `json:"idAttr,omitempty"`
	DescSelector string `json:"descSelector,omitempty"`
}

// APIConfig drives the two-phase remote-table adapter. IDColumn and
// DescriptionColumns are chosen after the first phase returned the column
// list, so both are optional at the config level; Build enforces them.
type APIConfig struct {
	Endpoint           string   `json:"endpoint"`
	IDColumn           string   `json:"idColumn,omitempty"`
	DescriptionColumns []string `json:"descriptionColumns,omitempty"`
}

// Config is the closed variant over the four extraction kinds. Exactly one
// branch matching Kind is populated.
type Config struct {
	Kind        Kind               `json:"kind"`
	Spreadsheet *SpreadsheetConfig `json:"spreadsheet,omitempty"`
	Regex       *RegexConfig       `json:"regex,omitempty"`
	HTML        *HTMLConfig        `json:"html,omitempty"`
	API         *APIConfig         `json:"api,omitempty"`
}

// Validate checks the config locally before any external call is made.
// Failures are ErrConfigIncomplete; nothing is silently defaulted.
func (c Config) Validate() error {
	switch c.Kind {
	case KindSpreadsheet:
		s := c.Spreadsheet
		if s == nil {
			return fault.NewConfigError("spreadsheet", "configuration")
		}
		if strings.TrimSpace(s.Sheet) == "" {
			return fault.NewConfigError("spreadsheet", "sheet")
		}
		if strings.TrimSpace(s.IDColumn) == "" {
			return fault.NewConfigError("spreadsheet", "idColumn")
		}
		if len(s.DescriptionColumns) == 0 {
			return fault.NewConfigError("spreadsheet", "descriptionColumns")
		}
	case KindRegex:
		r := c.Regex
		if r == nil {
			return fault.NewConfigError("regex", "configuration")
		}
		if strings.TrimSpace(r.Delimiter) == "" {
			return fault.NewConfigError("regex", "delimiter")
		}
	case KindHTML:
		h := c.HTML
		if h == nil {
			return fault.NewConfigError("html", "configuration")
		}
		if strings.TrimSpace(h.ItemSelector) == "" {
			return fault.NewConfigError("html", "itemSelector")
		}
	case KindAPI:
		a := c.API
		if a == nil {
			return fault.NewConfigError("api", "configuration")
		}
		if strings.TrimSpace(a.Endpoint) == "" {
			return fault.NewConfigError("api", "endpoint")
		}
	default:
		return fault.NewConfigError(string(c.Kind), "kind")
	}
	return nil
}

// Shape checks the variant structurally: Kind is known and the matching
// branch is present. Used by session validation, which must reject malformed
// files wholesale without applying adapter-level required-field rules.
func (c Config) Shape() error {
	switch c.Kind {
	case KindSpreadsheet:
		if c.Spreadsheet == nil {
			return fault.ErrValidationFailed
		}
	case KindRegex:
		if c.Regex == nil {
			return fault.ErrValidationFailed
		}
	case KindHTML:
		if c.HTML == nil {
			return fault.ErrValidationFailed
		}
	case KindAPI:
		if c.API == nil {
			return fault.ErrValidationFailed
		}
	default:
		return fault.ErrValidationFailed
	}
	return nil
}
