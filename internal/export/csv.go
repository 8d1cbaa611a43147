// Package export serializes generated configuration objects to the CSV files
// SAP consultants upload. Escaping is standard CSV: fields containing a
// comma, double quote, or newline are wrapped in double quotes with inner
// quotes doubled, and parsing a generated file back yields the original
// unescaped values.
package export

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// Table is a parsed or to-be-written CSV document: one header row and one
// row per item.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Format renders the table. Rendering is deterministic: parsing a generated
// file and re-rendering it yields byte-identical output for unedited rows.
func (t Table) Format() (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(t.Headers); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return "", fmt.Errorf("row %d has %d fields, header has %d", i, len(row), len(t.Headers))
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	return sb.String(), w.Error()
}

// Parse reads a CSV document produced by Format (or edited by hand) back
// into a table.
func Parse(data string) (Table, error) {
	r := csv.NewReader(strings.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("csv document has no header row")
	}
	return Table{Headers: records[0], Rows: records[1:]}, nil
}
