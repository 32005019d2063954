// Package dataset reads the processed (gold) obesity dataset as a header-led
// CSV table. Cells stay strings; numeric access parses on demand.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"obesity-risk/internal/platform/asset"
)

// Gold dataset columns used outside the encoder schema.
const (
	ColBMI           = "IMC"
	ColOriginalClass = "classe_peso_corporal"
	ColWHOClass      = "classe_peso_oms"
	ColHealthyHabits = "comportamento_saudavel"
)

type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// Load reads a CSV file. A file that does not exist yields an
// asset.MissingError so views can degrade to a warning.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &asset.MissingError{Name: "dataset", Path: path, Err: err}
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return t, nil
}

// Read parses CSV with a header row. Rows shorter or longer than the header
// are rejected.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &Table{Columns: make([]string, len(header)), index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := t.index[h]; dup {
			return nil, fmt.Errorf("duplicate column %q", h)
		}
		t.Columns[i] = h
		t.index[h] = i
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func (t *Table) Len() int { return len(t.Rows) }

func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Missing returns the columns of want that the table lacks, in order.
func (t *Table) Missing(want ...string) []string {
	var out []string
	for _, c := range want {
		if !t.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Value returns the cell of row i in col, or "" when the column is absent.
func (t *Table) Value(i int, col string) string {
	j, ok := t.index[col]
	if !ok {
		return ""
	}
	return t.Rows[i][j]
}

// Float parses a cell. Empty and non-numeric cells report ok=false, as do
// NaN values.
func (t *Table) Float(i int, col string) (float64, bool) {
	s := strings.TrimSpace(t.Value(i, col))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Bool reads flag columns stored as 0/1 or True/False.
func (t *Table) Bool(i int, col string) (bool, bool) {
	s := strings.TrimSpace(t.Value(i, col))
	switch strings.ToLower(s) {
	case "1", "1.0", "true":
		return true, true
	case "0", "0.0", "false":
		return false, true
	}
	return false, false
}
