package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildAgingReport(t *testing.T) {
	asOf := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	daysAgo := func(n int) *time.Time {
		d := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -n)
		return &d
	}

	report := BuildAgingReport(asOf, []OpenItem{
		{DueDate: nil, Outstanding: decimal.NewFromInt(10)},
		{DueDate: daysAgo(0), Outstanding: decimal.NewFromInt(20)},
		{DueDate: daysAgo(1), Outstanding: decimal.NewFromInt(30)},
		{DueDate: daysAgo(30), Outstanding: decimal.NewFromInt(40)},
		{DueDate: daysAgo(45), Outstanding: decimal.NewFromInt(50)},
		{DueDate: daysAgo(90), Outstanding: decimal.NewFromInt(60)},
		{DueDate: daysAgo(200), Outstanding: decimal.NewFromInt(70)},
		{DueDate: daysAgo(5), Outstanding: decimal.Zero},
	})

	expected := map[string]int64{"current": 30, "1-30": 70, "31-60": 50, "61-90": 60, "90+": 70}
	for _, b := range report.Buckets {
		assert.True(t, b.Amount.Equal(decimal.NewFromInt(expected[b.Label])), "bucket %s got %s", b.Label, b.Amount)
	}
	assert.Equal(t, 7, report.Count)
	assert.True(t, report.Total.Equal(decimal.NewFromInt(280)))
}

func TestOverdueUsesCalendarDatesAcrossZones(t *testing.T) {
	riyadh := time.FixedZone("UTC+3", 3*60*60)
	bogota := time.FixedZone("UTC-5", -5*60*60)
	due := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		now    time.Time
		days   int
		bucket string
	}{
		{"east of utc next morning", time.Date(2026, 10, 18, 9, 0, 0, 0, riyadh), 1, "1-30"},
		{"east of utc just after midnight", time.Date(2026, 10, 18, 0, 30, 0, 0, riyadh), 1, "1-30"},
		{"west of utc late evening", time.Date(2026, 10, 17, 23, 0, 0, 0, bogota), 0, "current"},
		{"west of utc next day", time.Date(2026, 10, 18, 1, 0, 0, 0, bogota), 1, "1-30"},
		{"utc same day", time.Date(2026, 10, 17, 18, 0, 0, 0, time.UTC), 0, "current"},
		{"utc a month later", time.Date(2026, 11, 17, 8, 0, 0, 0, time.UTC), 31, "31-60"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ap := &AccountPayable{Status: StatusPending, DueDate: &due}
			assert.Equal(t, tt.days > 0, ap.IsOverdue(tt.now))
			assert.Equal(t, tt.days, ap.DaysOverdue(tt.now))

			ar := &AccountReceivable{Status: StatusPartial, DueDate: &due}
			assert.Equal(t, tt.days, ar.DaysOverdue(tt.now))

			report := BuildAgingReport(tt.now, []OpenItem{{DueDate: &due, Outstanding: decimal.NewFromInt(5)}})
			for _, b := range report.Buckets {
				if b.Label == tt.bucket {
					assert.Equal(t, 1, b.Count, "bucket %s", b.Label)
				} else {
					assert.Zero(t, b.Count, "bucket %s", b.Label)
				}
			}
		})
	}
}
