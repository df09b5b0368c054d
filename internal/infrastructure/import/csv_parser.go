// Package csvimport reads and validates CSV uploads row by row.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// CSVParser reads a CSV stream with a header row into keyed rows
type CSVParser struct {
	delimiter rune
	maxRows   int
	headers   []string
	headerMap map[string]int
	line      int
	rows      int
	reader    *csv.Reader
}

// ParserOption configures a CSVParser
type ParserOption func(*CSVParser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(p *CSVParser) {
		p.delimiter = d
	}
}

// WithMaxRows caps the number of data rows; reading more returns ErrTooManyRows
func WithMaxRows(n int) ParserOption {
	return func(p *CSVParser) {
		p.maxRows = n
	}
}

// NewCSVParser strips a UTF-8 BOM, checks the encoding and reads the header row.
// Header names are normalized to lower_snake_case.
func NewCSVParser(r io.Reader, opts ...ParserOption) (*CSVParser, error) {
	p := &CSVParser{
		delimiter: ',',
		headerMap: make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}

	buf := bufio.NewReaderSize(r, 8192)
	if bom, err := buf.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = buf.Discard(3)
	}
	head, err := buf.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(strings.TrimSpace(string(head))) == 0 {
		return nil, ErrEmptyFile
	}
	check := head
	if len(head) == 4096 {
		check = trimPartialRune(head)
	}
	if !utf8.Valid(check) {
		return nil, ErrInvalidEncoding
	}

	p.reader = csv.NewReader(buf)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1

	if err := p.readHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

// trimPartialRune drops a multi-byte sequence cut off by the peek window
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}

func (p *CSVParser) readHeader() error {
	record, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	p.line = 1
	for i, h := range record {
		name := NormalizeHeader(h)
		if name == "" {
			continue
		}
		p.headers = append(p.headers, name)
		p.headerMap[name] = i
	}
	if len(p.headers) == 0 {
		return ErrMissingHeader
	}
	return nil
}

// NormalizeHeader maps "Tax Number" and "tax-number" to "tax_number"
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "_", "-", "_").Replace(h)
	return strings.Join(strings.FieldsFunc(h, func(r rune) bool { return r == '_' }), "_")
}

// Headers returns the normalized header names in file order
func (p *CSVParser) Headers() []string {
	return p.headers
}

// MissingHeaders lists required headers the file lacks
func (p *CSVParser) MissingHeaders(required ...string) []string {
	var missing []string
	for _, h := range required {
		if _, ok := p.headerMap[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one data line keyed by header
type Row struct {
	Line int
	Data map[string]string
}

// Get returns the trimmed value of a column
func (r *Row) Get(column string) string {
	return r.Data[column]
}

// IsEmpty reports whether every cell is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// Next returns the next non-blank row, or io.EOF
func (p *CSVParser) Next() (*Row, error) {
	for {
		record, err := p.reader.Read()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		p.line++
		if err != nil {
			return nil, NewRowError(p.line, "", ErrCodeMalformedRow, err.Error())
		}
		row := &Row{Line: p.line, Data: make(map[string]string, len(p.headers))}
		for _, h := range p.headers {
			idx := p.headerMap[h]
			if idx < len(record) {
				row.Data[h] = strings.TrimSpace(record[idx])
			} else {
				row.Data[h] = ""
			}
		}
		if row.IsEmpty() {
			continue
		}
		p.rows++
		if p.maxRows > 0 && p.rows > p.maxRows {
			return nil, ErrTooManyRows
		}
		return row, nil
	}
}

// Rows counts the non-blank data rows read so far
func (p *CSVParser) Rows() int {
	return p.rows
}
