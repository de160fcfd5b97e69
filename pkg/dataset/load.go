package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ada-inc/ada-engine/pkg/apperrors"
)

// LoadError wraps a parse or read failure for an otherwise supported file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// missingMarkers are cell values treated as absent, mirroring common
// spreadsheet conventions.
var missingMarkers = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
}

func isMissing(raw string) bool {
	_, ok := missingMarkers[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// timeLayouts are tried in order when coercing date-named columns.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Load reads a CSV or Excel file into a Table, dispatching on the file
// extension. Unsupported extensions fail with apperrors.ErrUnsupportedFormat;
// parse failures fail with *LoadError. After loading, columns whose name
// contains "date" or "time" get a best-effort datetime coercion that leaves
// the column untouched when parsing fails.
func Load(path string) (*Table, error) {
	var records [][]string
	var err error

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		records, err = readCSV(path)
	case ".xlsx", ".xls":
		records, err = readExcel(path)
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	table, err := fromRecords(records)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	for _, c := range table.cols {
		name := strings.ToLower(c.Name)
		if strings.Contains(name, "date") || strings.Contains(name, "time") {
			// Best-effort: a failed parse leaves the column unchanged.
			_ = tryCoerceTimes(c)
		}
	}

	return table, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return csv.NewReader(f).ReadAll()
}

func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// fromRecords turns header + data rows into typed columns. A column whose
// every non-missing cell parses as a number becomes numeric; all-boolean
// columns become bool; everything else stays text. Short rows (common in
// spreadsheet exports) are padded with missing cells.
func fromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}

	header := records[0]
	if len(header) == 0 {
		return nil, fmt.Errorf("header row is empty")
	}
	data := records[1:]

	cols := make([]*Column, len(header))
	for ci, name := range header {
		cells := make([]cell, len(data))
		for ri, rec := range data {
			raw := ""
			if ci < len(rec) {
				raw = strings.TrimSpace(rec[ci])
			}
			cells[ri] = cell{raw: raw, missing: isMissing(raw)}
		}
		cols[ci] = &Column{Name: strings.TrimSpace(name), Kind: inferKind(cells), cells: cells}
	}

	for _, c := range cols {
		materialize(c)
	}

	return NewTable(cols)
}

func inferKind(cells []cell) Kind {
	sawValue := false
	allNumber := true
	allBool := true

	for _, cl := range cells {
		if cl.missing {
			continue
		}
		sawValue = true
		if _, err := strconv.ParseFloat(cl.raw, 64); err != nil {
			allNumber = false
		}
		switch strings.ToLower(cl.raw) {
		case "true", "false":
		default:
			allBool = false
		}
	}

	if !sawValue {
		return KindString
	}
	if allNumber {
		return KindNumber
	}
	if allBool {
		return KindBool
	}
	return KindString
}

// materialize fills the typed cell fields once the column kind is known.
func materialize(c *Column) {
	for i := range c.cells {
		cl := &c.cells[i]
		if cl.missing {
			continue
		}
		switch c.Kind {
		case KindNumber:
			cl.num, _ = strconv.ParseFloat(cl.raw, 64)
		case KindBool:
			cl.boolean = strings.EqualFold(cl.raw, "true")
		}
	}
}

// tryCoerceTimes attempts to convert a text column to datetime. Every
// non-missing cell must parse with the same layout; otherwise the column is
// left unchanged and false is returned.
func tryCoerceTimes(c *Column) bool {
	if c.Kind != KindString {
		return false
	}

	layout := ""
	for _, cl := range c.cells {
		if cl.missing {
			continue
		}
		layout = detectLayout(cl.raw)
		break
	}
	if layout == "" {
		return false
	}

	parsed := make([]time.Time, len(c.cells))
	for i, cl := range c.cells {
		if cl.missing {
			continue
		}
		ts, err := time.Parse(layout, cl.raw)
		if err != nil {
			return false
		}
		parsed[i] = ts
	}

	c.Kind = KindTime
	for i := range c.cells {
		if !c.cells[i].missing {
			c.cells[i].ts = parsed[i]
		}
	}
	return true
}

func detectLayout(raw string) string {
	for _, layout := range timeLayouts {
		if _, err := time.Parse(layout, raw); err == nil {
			return layout
		}
	}
	return ""
}
