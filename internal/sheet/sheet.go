package sheet

import (
	"bytes"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

var (
	ErrSheetNotFound  = eris.New("sheet not found")
	ErrHeaderNotFound = eris.New("header row not found")
)

// ReadRows returns the stored value of every cell of the named sheet. Date
// cells come back as Excel serial numbers.
func ReadRows(data []byte, name string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrap(err, "failed to open workbook")
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		return nil, eris.Wrapf(ErrSheetNotFound, "%q (have %v)", name, f.GetSheetList())
	}

	// date cells come back as serials, not display text
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read sheet %q", name)
	}
	return rows, nil
}

// Table is a header-addressed view over raw rows.
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

func NewTable(header []string, rows [][]string) *Table {
	t := &Table{Header: header, Rows: rows, index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	return t
}

// LocateHeader treats row 0 as the header when it carries key, otherwise
// promotes row 1 and drops everything above it.
func LocateHeader(rows [][]string, key string) (*Table, error) {
	for i := 0; i < 2 && i < len(rows); i++ {
		if containsCell(rows[i], key) {
			return NewTable(rows[i], rows[i+1:]), nil
		}
	}
	return nil, eris.Wrapf(ErrHeaderNotFound, "no %q column in the first two rows", key)
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Missing lists the names that are not columns of the table.
func (t *Table) Missing(names ...string) []string {
	var out []string
	for _, n := range names {
		if !t.HasColumn(n) {
			out = append(out, n)
		}
	}
	return out
}

// Value returns the trimmed cell of row under column, "" when absent.
// excelize trims trailing empty cells so short rows are normal.
func (t *Table) Value(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func containsCell(row []string, key string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) == key {
			return true
		}
	}
	return false
}

// IsBlank reports whether every cell of row is empty.
func IsBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
