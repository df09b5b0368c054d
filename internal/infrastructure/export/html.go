package export

import (
	"bytes"
	"html/template"
	"time"
)

const tableTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 10px; color: #222; }
h1 { font-size: 16px; margin: 0 0 4px; }
.meta { color: #666; margin-bottom: 12px; }
table { width: 100%; border-collapse: collapse; }
th, td { border-bottom: 1px solid #ddd; padding: 4px 6px; text-align: left; }
th { background: #f3f4f6; }
td.num, th.num { text-align: right; }
tfoot td { font-weight: bold; border-top: 2px solid #999; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">{{if .Subtitle}}{{.Subtitle}} &middot; {{end}}Generated {{.GeneratedAt}}{{if .Truncated}} &middot; truncated to {{len .Rows}} rows{{end}}</div>
<table>
<thead><tr>{{range .Headers}}<th{{if .Numeric}} class="num"{{end}}>{{.Text}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td{{if .Numeric}} class="num"{{end}}>{{.Text}}</td>{{end}}</tr>
{{end}}</tbody>
{{if .Totals}}<tfoot><tr>{{range .Totals}}<td{{if .Numeric}} class="num"{{end}}>{{.Text}}</td>{{end}}</tr></tfoot>{{end}}
</table>
</body>
</html>`

var pageTemplate = template.Must(template.New("report").Parse(tableTemplate))

type cell struct {
	Text    string
	Numeric bool
}

type htmlPage struct {
	Title       string
	Subtitle    string
	GeneratedAt string
	Truncated   bool
	Headers     []cell
	Rows        [][]cell
	Totals      []cell
}

// RenderHTML lays the document out as a printable HTML table
func RenderHTML(doc *Document, f *Formatter) (string, error) {
	p := htmlPage{
		Title:       doc.Title,
		Subtitle:    doc.Subtitle,
		GeneratedAt: doc.GeneratedAt.Format(time.RFC1123),
		Truncated:   doc.Truncated,
		Headers:     make([]cell, len(doc.Columns)),
		Rows:        make([][]cell, len(doc.Rows)),
	}
	for i, c := range doc.Columns {
		p.Headers[i] = cell{Text: f.Label(c), Numeric: c.Type.IsNumeric()}
	}
	for r, row := range doc.Rows {
		cells := make([]cell, len(doc.Columns))
		for i, c := range doc.Columns {
			cells[i] = cell{Text: f.Display(c.Type, row[c.Key]), Numeric: c.Type.IsNumeric()}
		}
		p.Rows[r] = cells
	}
	if len(doc.Totals) > 0 && len(doc.Columns) > 0 {
		p.Totals = make([]cell, len(doc.Columns))
		for i, c := range doc.Columns {
			p.Totals[i] = cell{Text: f.Display(c.Type, doc.Totals[c.Key]), Numeric: c.Type.IsNumeric()}
		}
		if p.Totals[0].Text == "" {
			p.Totals[0].Text = "Total"
		}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}
