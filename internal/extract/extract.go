package extract

import (
	"context"

	"github.com/joss/promptdeck/internal/unit"
)

// Units runs the adapter selected by cfg against the source at path and
// returns the normalized unit sequence. The config is validated before any
// file or network access. For the API kind both phases run back to back,
// which is also how a loaded session rebuilds its units: re-extract from
// the same endpoint and source, reapply the saved column choices.
func Units(ctx context.Context, cfg Config, path string, fetcher *Fetcher) ([]unit.Unit, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case KindSpreadsheet:
		return SpreadsheetUnits(path, *cfg.Spreadsheet)
	case KindRegex:
		return RegexBlocks(path, *cfg.Regex)
	case KindHTML:
		return HTMLBlocks(path, *cfg.HTML)
	default: // KindAPI, Validate rejected everything else
		if fetcher == nil {
			fetcher = NewFetcher()
		}
		table, err := fetcher.FetchTable(ctx, cfg.API.Endpoint, path)
		if err != nil {
			return nil, err
		}
		return table.Build(cfg.API.IDColumn, cfg.API.DescriptionColumns)
	}
}
