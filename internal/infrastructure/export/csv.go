package export

import (
	"encoding/csv"
	"io"
)

// utf8BOM makes spreadsheet programs detect the encoding
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes documents as comma separated values
type CSVWriter struct {
	formatter *Formatter
}

// NewCSVWriter creates a CSV writer
func NewCSVWriter(formatter *Formatter) *CSVWriter {
	return &CSVWriter{formatter: formatter}
}

// ContentType of the output
func (w *CSVWriter) ContentType() string {
	return "text/csv; charset=utf-8"
}

// Write emits a header row of labels, the data rows, and a totals row when any total exists
func (w *CSVWriter) Write(out io.Writer, doc *Document) error {
	if _, err := out.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(out)

	header := make([]string, len(doc.Columns))
	for i, c := range doc.Columns {
		header[i] = w.formatter.Label(c)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(doc.Columns))
	for _, row := range doc.Rows {
		for i, c := range doc.Columns {
			record[i] = w.formatter.Raw(c.Type, row[c.Key])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	if len(doc.Totals) > 0 && len(doc.Columns) > 0 {
		for i, c := range doc.Columns {
			record[i] = w.formatter.Raw(c.Type, doc.Totals[c.Key])
		}
		if _, ok := doc.Totals[doc.Columns[0].Key]; !ok {
			record[0] = "Total"
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
