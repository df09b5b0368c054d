package csvimport

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, p *CSVParser) []*Row {
	t.Helper()
	var rows []*Row
	for {
		row, err := p.Next()
		if errors.Is(err, io.EOF) {
			return rows
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
}

func TestCSVParser_NormalizesHeadersAndSkipsBlankRows(t *testing.T) {
	data := "\xEF\xBB\xBFName, Type ,Tax Number\nAcme,supplier, 123 \n,,\nBeta,customer\n"
	p, err := NewCSVParser(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "type", "tax_number"}, p.Headers())
	rows := readAll(t, p)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "123", rows[0].Get("tax_number"))
	assert.Equal(t, 4, rows[1].Line)
	assert.Equal(t, "", rows[1].Get("tax_number"))
	assert.Equal(t, 2, p.Rows())
}

func TestCSVParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "", ErrEmptyFile},
		{"whitespace only", "  \n ", ErrEmptyFile},
		{"invalid utf8", "name\n\xff\xfe\n", ErrInvalidEncoding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCSVParser(strings.NewReader(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCSVParser_MaxRows(t *testing.T) {
	p, err := NewCSVParser(strings.NewReader("name\na\nb\nc\n"), WithMaxRows(2))
	require.NoError(t, err)

	_, err = p.Next()
	require.NoError(t, err)
	_, err = p.Next()
	require.NoError(t, err)
	_, err = p.Next()
	assert.ErrorIs(t, err, ErrTooManyRows)
}

func TestCSVParser_Semicolon(t *testing.T) {
	p, err := NewCSVParser(strings.NewReader("name;phone\nAcme;555\n"), WithDelimiter(';'))
	require.NoError(t, err)
	rows := readAll(t, p)
	require.Len(t, rows, 1)
	assert.Equal(t, "555", rows[0].Get("phone"))
	assert.Equal(t, []string{"email"}, p.MissingHeaders("name", "email"))
}

func TestRowValidator(t *testing.T) {
	v := NewRowValidator(
		Column("name").Require().Max(5).Unique(strings.ToLower),
		Column("type").In("CUSTOMER", "SUPPLIER"),
		Column("email").IsEmail(),
	)

	ok := v.Validate(&Row{Line: 2, Data: map[string]string{"name": "Acme", "type": "supplier", "email": "a@b.co"}})
	assert.Empty(t, ok)

	dup := v.Validate(&Row{Line: 3, Data: map[string]string{"name": "ACME"}})
	require.Len(t, dup, 1)
	assert.Equal(t, ErrCodeDuplicateInFile, dup[0].Code)

	bad := v.Validate(&Row{Line: 4, Data: map[string]string{"name": "", "type": "vendor", "email": "nope"}})
	codes := make([]string, len(bad))
	for i, e := range bad {
		codes[i] = e.Code
	}
	assert.ElementsMatch(t, []string{ErrCodeRequiredField, ErrCodeInvalidValue, ErrCodeInvalidFormat}, codes)

	long := v.Validate(&Row{Line: 5, Data: map[string]string{"name": "Acme Trading"}})
	require.Len(t, long, 1)
	assert.Equal(t, ErrCodeInvalidLength, long[0].Code)
}

func TestErrorCollection_Truncates(t *testing.T) {
	ec := NewErrorCollection(2)
	for i := 0; i < 3; i++ {
		ec.Add(NewRowError(i+2, "name", ErrCodeRequiredField, "missing"))
	}
	assert.Len(t, ec.Errors(), 2)
	assert.Equal(t, 3, ec.Total())
	assert.True(t, ec.IsTruncated())
	assert.Equal(t, "row 2, column 'name': missing", ec.Errors()[0].Error())
}
