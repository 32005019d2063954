package snapshot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"obesity-risk/internal/dataset"
)

const (
	typeNumeric = "DOUBLE PRECISION"
	typeText    = "TEXT"
)

// columnTypes infers DOUBLE PRECISION for columns whose non-empty cells all
// parse as numbers, TEXT otherwise.
func columnTypes(t *dataset.Table) []string {
	types := make([]string, len(t.Columns))
	for j := range t.Columns {
		types[j] = typeNumeric
		seen := false
		for _, row := range t.Rows {
			cell := strings.TrimSpace(row[j])
			if cell == "" {
				continue
			}
			seen = true
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				types[j] = typeText
				break
			}
		}
		if !seen {
			types[j] = typeText
		}
	}
	return types
}

func createTableSQL(table string, columns, types []string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pq.QuoteIdentifier(c) + " " + types[i]
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", pq.QuoteIdentifier(table), strings.Join(defs, ", "))
}

func dropTableSQL(table string) string {
	return "DROP TABLE IF EXISTS " + pq.QuoteIdentifier(table)
}

// rowValues converts one CSV record for COPY; empty cells become NULL.
func rowValues(row []string, types []string) ([]any, error) {
	out := make([]any, len(row))
	for j, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		if types[j] == typeNumeric {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, err
			}
			out[j] = v
			continue
		}
		out[j] = cell
	}
	return out, nil
}
