package extract

import (
	"strconv"
	"strings"

	"github.com/joss/promptdeck/internal/fault"
	"github.com/joss/promptdeck/internal/unit"
)

// Table is the raw result of the API adapter's first phase: column names
// plus stringified rows. No units exist yet; the caller picks columns and
// runs Build. Raw tables are never persisted — sessions keep the endpoint
// and the column choices and re-extract on load.
type Table struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// Build reduces table rows to units with the chosen columns.
// id = trimmed id column value, or the 1-based row number when blank;
// body = non-blank description values in configured order joined by "\n".
// Rows whose body comes out entirely blank are dropped, never emitted as
// empty units.
func (t Table) Build(idColumn string, descColumns []string) ([]unit.Unit, error) {
	if strings.TrimSpace(idColumn) == "" {
		return nil, fault.NewConfigError("api", "idColumn")
	}
	if len(descColumns) == 0 {
		return nil, fault.NewConfigError("api", "descriptionColumns")
	}

	units := make([]unit.Unit, 0, len(t.Rows))
	for i, row := range t.Rows {
		id := strings.TrimSpace(row[idColumn])
		if id == "" {
			id = strconv.Itoa(i + 1)
		}

		var parts []string
		for _, col := range descColumns {
			v := strings.TrimSpace(row[col])
			if v != "" {
				parts = append(parts, v)
			}
		}
		if len(parts) == 0 {
			continue
		}

		units = append(units, unit.Unit{ID: id, Body: strings.Join(parts, "\n")})
	}
	return units, nil
}
