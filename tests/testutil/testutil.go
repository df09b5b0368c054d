// Package testutil holds helpers shared by the end-to-end suites.
package testutil

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixtureNamespace = uuid.MustParse("3f1c2a9e-5b7d-4e1a-9c0f-2d6b8a4e7c11")

// FixtureID derives a UUID from name so fixtures keep the same IDs across runs
func FixtureID(name string) uuid.UUID {
	return uuid.NewSHA1(fixtureNamespace, []byte(name))
}

// Period formats t as a YYYY-MM payroll period
func Period(t time.Time) string {
	return t.Format("2006-01")
}

// Day formats t the way date fields are sent over the API
func Day(t time.Time) string {
	return t.Format("2006-01-02")
}

// Money parses a decimal literal and panics on a typo in the test itself
func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
