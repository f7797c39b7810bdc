package testutil

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fixed values for deterministic tests.
var (
	TestActor    = "operator@collections.test"
	TestAdmin    = "admin@collections.test"
	TestDebtor   = "Mario Rossi"
	TestNow      = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)
	TestToday    = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	TestCaseID   = "6f1d1b1e-5d3b-4c6e-9f0a-000000000001"
	TestCaseID2  = "6f1d1b1e-5d3b-4c6e-9f0a-000000000002"
	TestOwed1000 = decimal.RequireFromString("1000.00")
)

// Day returns TestToday shifted by n calendar days.
func Day(n int) time.Time {
	return TestToday.AddDate(0, 0, n)
}

// Amount parses s as a decimal and panics on malformed input.
func Amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// FixedClock returns a clock function pinned to t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
