package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joelkehle/weekly-planner/internal/plan"
)

// CSVDir reads one CSV file per table name from a directory. Missing files
// yield empty tables so a partially populated directory still plans.
type CSVDir struct {
	dir string
}

func NewCSVDir(dir string) *CSVDir {
	return &CSVDir{dir: dir}
}

func (c *CSVDir) Load(ctx context.Context) (map[string]plan.Table, error) {
	out := make(map[string]plan.Table, len(AllTables()))
	for _, name := range AllTables() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := c.loadTable(name)
		if err != nil {
			return nil, fmt.Errorf("load table %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

func (c *CSVDir) loadTable(name string) (plan.Table, error) {
	path := filepath.Join(c.dir, name+".csv")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return plan.Table{Name: name}, nil
		}
		return plan.Table{}, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return plan.Table{}, err
	}
	if len(records) == 0 {
		return plan.Table{Name: name}, nil
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = strings.TrimSpace(col)
	}
	t := plan.Table{Name: name, Columns: header}
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

var _ Source = (*CSVDir)(nil)
