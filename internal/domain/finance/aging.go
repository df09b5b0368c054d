package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// AgingBucket is one column of an aging report
type AgingBucket struct {
	Label   string          `json:"label"`
	MinDays int             `json:"min_days"`
	MaxDays int             `json:"max_days"` // -1 means unbounded
	Count   int             `json:"count"`
	Amount  decimal.Decimal `json:"amount"`
}

// AgingReport groups open amounts by how far past due they are
type AgingReport struct {
	AsOf    time.Time       `json:"as_of"`
	Buckets []AgingBucket   `json:"buckets"`
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
}

// OpenItem is the minimal view of an open document needed for aging
type OpenItem struct {
	DueDate     *time.Time
	Outstanding decimal.Decimal
}

// NewAgingReport creates an empty report with the standard buckets
func NewAgingReport(asOf time.Time) *AgingReport {
	return &AgingReport{
		AsOf: asOf,
		Buckets: []AgingBucket{
			{Label: "current", MinDays: 0, MaxDays: 0, Amount: decimal.Zero},
			{Label: "1-30", MinDays: 1, MaxDays: 30, Amount: decimal.Zero},
			{Label: "31-60", MinDays: 31, MaxDays: 60, Amount: decimal.Zero},
			{Label: "61-90", MinDays: 61, MaxDays: 90, Amount: decimal.Zero},
			{Label: "90+", MinDays: 91, MaxDays: -1, Amount: decimal.Zero},
		},
		Total: decimal.Zero,
	}
}

// Add places an open item in its bucket
func (r *AgingReport) Add(item OpenItem) {
	if !item.Outstanding.IsPositive() {
		return
	}
	days := daysPastDue(item.DueDate, r.AsOf)
	for i := range r.Buckets {
		b := &r.Buckets[i]
		if days >= b.MinDays && (b.MaxDays < 0 || days <= b.MaxDays) {
			b.Count++
			b.Amount = b.Amount.Add(item.Outstanding)
			break
		}
	}
	r.Count++
	r.Total = r.Total.Add(item.Outstanding)
}

// BuildAgingReport ages every item as of asOf
func BuildAgingReport(asOf time.Time, items []OpenItem) *AgingReport {
	r := NewAgingReport(asOf)
	for _, it := range items {
		r.Add(it)
	}
	return r
}
