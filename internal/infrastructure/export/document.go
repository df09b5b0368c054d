// Package export renders smart report results as CSV or PDF files.
package export

import (
	"fmt"
	"time"

	"github.com/erp/accounting/internal/domain/report"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Document is a titled table ready to be written out
type Document struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Columns     []report.Column
	Rows        []map[string]any
	Totals      map[string]any
	Truncated   bool
}

// NewDocument builds a document from a query result
func NewDocument(title string, result *report.Result, truncated bool) *Document {
	return &Document{
		Title:       title,
		GeneratedAt: time.Now(),
		Columns:     result.Columns,
		Rows:        result.Rows,
		Totals:      result.Totals,
		Truncated:   truncated,
	}
}

// Formatter turns cell values into display strings for one locale
type Formatter struct {
	printer *message.Printer
}

// NewFormatter creates a formatter for a BCP 47 tag, falling back to English
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Label returns the column header, deriving one from the key when empty
func (f *Formatter) Label(c report.Column) string {
	if c.Label != "" {
		return c.Label
	}
	return report.LabelFromKey(c.Key)
}

// Display formats a value for people: grouped digits and two decimals for money
func (f *Formatter) Display(t report.FieldType, v any) string {
	if v == nil {
		return ""
	}
	switch t {
	case report.FieldCurrency:
		if d, ok := toDecimal(v); ok {
			return f.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
		}
	case report.FieldNumber:
		if d, ok := toDecimal(v); ok {
			if d.IsInteger() {
				return f.printer.Sprintf("%d", d.IntPart())
			}
			return f.printer.Sprintf("%.2f", d.InexactFloat64())
		}
	case report.FieldBoolean:
		if b, ok := v.(bool); ok {
			if b {
				return "Yes"
			}
			return "No"
		}
	}
	return fmt.Sprint(v)
}

// Raw formats a value for machines: plain decimals and ISO dates
func (f *Formatter) Raw(t report.FieldType, v any) string {
	if v == nil {
		return ""
	}
	if t == report.FieldCurrency {
		if d, ok := toDecimal(v); ok {
			return d.StringFixed(2)
		}
	}
	if t == report.FieldNumber {
		if d, ok := toDecimal(v); ok {
			return d.String()
		}
	}
	return fmt.Sprint(v)
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case int64:
		return decimal.NewFromInt(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case float64:
		return decimal.NewFromFloat(n), true
	case string:
		d, err := decimal.NewFromString(n)
		return d, err == nil
	}
	return decimal.Zero, false
}
