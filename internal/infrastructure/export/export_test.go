package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/erp/accounting/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleDocument() *Document {
	return &Document{
		Title:       "Expenses",
		GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Columns: []report.Column{
			{Key: "category", Label: "Category", Type: report.FieldString},
			{Key: "amount_sum", Type: report.FieldCurrency},
			{Key: "is_paid", Label: "Paid", Type: report.FieldBoolean},
		},
		Rows: []map[string]any{
			{"category": "Rent", "amount_sum": decimal.RequireFromString("12500.5"), "is_paid": true},
			{"category": "Utilities <gas>", "amount_sum": decimal.RequireFromString("310"), "is_paid": false},
		},
		Totals: map[string]any{"amount_sum": decimal.RequireFromString("12810.5")},
	}
}

func TestFormatter_Display(t *testing.T) {
	f := NewFormatter("en")

	assert.Equal(t, "12,500.50", f.Display(report.FieldCurrency, decimal.RequireFromString("12500.5")))
	assert.Equal(t, "1,200", f.Display(report.FieldNumber, int64(1200)))
	assert.Equal(t, "Yes", f.Display(report.FieldBoolean, true))
	assert.Equal(t, "", f.Display(report.FieldString, nil))
	assert.Equal(t, "Amount Sum", f.Label(report.Column{Key: "amount_sum"}))
}

func TestFormatter_Raw(t *testing.T) {
	f := NewFormatter("not a locale")

	assert.Equal(t, "12500.50", f.Raw(report.FieldCurrency, decimal.RequireFromString("12500.5")))
	assert.Equal(t, "3.5", f.Raw(report.FieldNumber, "3.5"))
	assert.Equal(t, "2026-01-31", f.Raw(report.FieldDate, "2026-01-31"))
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(NewFormatter("en"))

	require.NoError(t, w.Write(&buf, sampleDocument()))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, utf8BOM))
	records, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Category", "Amount Sum", "Paid"},
		{"Rent", "12500.50", "true"},
		{"Utilities <gas>", "310.00", "false"},
		{"Total", "12810.50", ""},
	}, records)
}

func TestRenderHTML_EscapesValues(t *testing.T) {
	html, err := RenderHTML(sampleDocument(), NewFormatter("en"))
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Expenses</h1>")
	assert.Contains(t, html, "Utilities &lt;gas&gt;")
	assert.Contains(t, html, `<td class="num">12,810.50</td>`)
	assert.Contains(t, html, "<td>Total</td>")
}

func TestChromedpRenderer_RejectsEmptyDocument(t *testing.T) {
	r := NewChromedpRenderer(ChromedpConfig{RemoteURL: "ws://127.0.0.1:1"}, zap.NewNop())
	defer r.Close()

	_, err := r.Render(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrPDFRender)
}
