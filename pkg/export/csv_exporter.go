package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Column maps a row key to the header printed for it. An empty Label prints the key.
type Column struct {
	Key   string
	Label string
}

func (c Column) header() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Key
}

// Dataset is a table of string cells keyed by column.
type Dataset struct {
	Columns []Column
	Rows    []map[string]string
}

// CSVExporter writes datasets as RFC 4180 CSV.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render writes the header row followed by one record per row. Cells missing from a row are left empty.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Columns) == 0 {
		return nil, fmt.Errorf("csv export needs at least one column")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	record := make([]string, len(data.Columns))
	for i, col := range data.Columns {
		record[i] = col.header()
	}
	if err := w.Write(record); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for n, row := range data.Rows {
		for i, col := range data.Columns {
			record[i] = row[col.Key]
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", n, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
