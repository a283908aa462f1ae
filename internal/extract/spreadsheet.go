package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/joss/promptdeck/internal/fault"
	"github.com/joss/promptdeck/internal/unit"
)

// SheetInfo describes one sheet of a tabular source: its name and the
// header columns detected on the first non-empty row. Blank header cells
// get positional "colN" names.
type SheetInfo struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// Inspect lists the sheets and columns of a tabular source so the user can
// pick an id column and description columns. CSV and TSV files report a
// single sheet named after the file.
func Inspect(path string) ([]SheetInfo, error) {
	rowsBySheet, err := readWorkbook(path)
	if err != nil {
		return nil, err
	}

	var sheets []SheetInfo
	for _, sh := range rowsBySheet {
		header, _ := headerRow(sh.rows)
		sheets = append(sheets, SheetInfo{Name: sh.name, Columns: header})
	}
	return sheets, nil
}

// SpreadsheetUnits extracts units from one sheet: one unit per data row,
// id from the configured id column (rows with a blank id are skipped),
// body from the non-blank description column values joined by "\n".
// Column names match case-insensitively against the detected header.
func SpreadsheetUnits(path string, cfg SpreadsheetConfig) ([]unit.Unit, error) {
	if err := (Config{Kind: KindSpreadsheet, Spreadsheet: &cfg}).Validate(); err != nil {
		return nil, err
	}

	rowsBySheet, err := readWorkbook(path)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	found := false
	for _, sh := range rowsBySheet {
		if sh.name == cfg.Sheet {
			rows = sh.rows
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("sheet not found: %s", cfg.Sheet)
	}

	header, headerIdx := headerRow(rows)
	if len(header) == 0 {
		return nil, fmt.Errorf("%s: could not detect header row", path)
	}

	idIdx := columnIndex(header, cfg.IDColumn)
	if idIdx < 0 {
		return nil, fmt.Errorf("id column not found: %s", cfg.IDColumn)
	}
	descIdx := make([]int, 0, len(cfg.DescriptionColumns))
	for _, name := range cfg.DescriptionColumns {
		di := columnIndex(header, name)
		if di < 0 {
			return nil, fmt.Errorf("description column not found: %s", name)
		}
		descIdx = append(descIdx, di)
	}

	var units []unit.Unit
	for i, row := range rows {
		if i <= headerIdx {
			continue
		}
		id := strings.TrimSpace(cell(row, idIdx))
		if id == "" {
			continue
		}
		var parts []string
		for _, di := range descIdx {
			if v := strings.TrimSpace(cell(row, di)); v != "" {
				parts = append(parts, v)
			}
		}
		if len(parts) == 0 {
			continue
		}
		units = append(units, unit.Unit{
			ID:   id,
			Body: strings.Join(parts, "\n"),
			Meta: map[string]any{"sheet": cfg.Sheet, "rowIndex": i},
		})
	}
	return units, nil
}

type sheetRows struct {
	name string
	rows [][]string
}

func readWorkbook(path string) ([]sheetRows, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readDelimited(path, ',')
	case ".tsv":
		return readDelimited(path, '\t')
	default:
		return readExcel(path)
	}
}

func readExcel(path string) ([]sheetRows, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fault.NewSourceError(path, err)
	}
	defer f.Close()

	var out []sheetRows
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fault.NewSourceError(path, err)
		}
		out = append(out, sheetRows{name: name, rows: rows})
	}
	return out, nil
}

func readDelimited(path string, comma rune) ([]sheetRows, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fault.NewSourceError(path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fault.NewSourceError(path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return []sheetRows{{name: name, rows: rows}}, nil
}

// headerRow finds the first row with any non-blank cell and names its
// columns, substituting "colN" for blank cells.
func headerRow(rows [][]string) ([]string, int) {
	for i, row := range rows {
		empty := true
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		header := make([]string, len(row))
		for j, c := range row {
			v := strings.TrimSpace(c)
			if v == "" {
				v = "col" + strconv.Itoa(j+1)
			}
			header[j] = v
		}
		return header, i
	}
	return nil, -1
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
