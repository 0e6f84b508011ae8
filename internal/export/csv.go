// Package export renders result sets into delimited text streams.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// utf8BOM is written before any data so spreadsheet tools detect the
// encoding correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Writer streams rows as CSV: a UTF-8 BOM, then the header, then one line
// per row. Quoting and escaping follow encoding/csv (RFC 4180); rows are
// written incrementally so exports never materialize in memory.
type Writer struct {
	cw *csv.Writer
}

// NewWriter writes the BOM and header to w and returns a Writer for the rows.
func NewWriter(w io.Writer, header []string) (*Writer, error) {
	if _, err := w.Write(utf8BOM); err != nil {
		return nil, fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	return &Writer{cw: cw}, nil
}

// WriteRow appends one record. Missing values must already be rendered as
// empty strings by the caller's projection.
func (w *Writer) WriteRow(record []string) error {
	return w.cw.Write(record)
}

// Flush writes any buffered rows to the underlying stream and reports the
// first error encountered while writing.
func (w *Writer) Flush() error {
	w.cw.Flush()
	return w.cw.Error()
}
