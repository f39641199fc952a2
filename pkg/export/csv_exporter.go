package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Dataset defines tabular export content. An empty row renders as a blank
// separator line.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
	// Widths optionally sets column widths (in characters) for spreadsheet output.
	Widths []float64
}

// CSVOptions tune the CSV dialect. Spreadsheets set to a Polish locale
// expect ';' and only detect UTF-8 with a byte order mark.
type CSVOptions struct {
	Delimiter rune
	ByteOrder bool
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct {
	opts CSVOptions
}

// NewCSVExporter builds a CSV exporter. A zero Delimiter means ','.
func NewCSVExporter(opts ...CSVOptions) *CSVExporter {
	e := &CSVExporter{opts: CSVOptions{Delimiter: ','}}
	if len(opts) > 0 {
		e.opts = opts[0]
		if e.opts.Delimiter == 0 {
			e.opts.Delimiter = ','
		}
	}
	return e
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	if e.opts.ByteOrder {
		buf.Write(utf8BOM)
	}
	writer := csv.NewWriter(buf)
	writer.Comma = e.opts.Delimiter

	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	record := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
