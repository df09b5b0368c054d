package report

// Column describes one output column of a result
type Column struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Type  FieldType `json:"type"`
}

// Result is a page of smart report rows
type Result struct {
	Columns  []Column         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Totals   map[string]any   `json:"totals"`
}

// ColumnsOf returns the public column list of a plan
func ColumnsOf(p *Plan) []Column {
	cols := make([]Column, len(p.Columns))
	for i, c := range p.Columns {
		cols[i] = Column{Key: c.Key, Label: c.Label, Type: c.Type}
	}
	return cols
}
