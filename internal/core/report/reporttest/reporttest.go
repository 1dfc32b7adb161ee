// Package reporttest builds in-memory reports for tests.
package reporttest

import (
	"fmt"
	"testing"
	"time"

	"github.com/colonyops/ixv/internal/core/report"
)

// Date parses a YYYY-MM-DD date and panics on malformed input.
func Date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(fmt.Sprintf("reporttest: bad date %q: %v", s, err))
	}
	return t
}

// Duration returns a closed duration period.
func Duration(start, end string) report.Period {
	return report.Period{Start: Date(start), End: Date(end)}
}

// Instant returns an instant period.
func Instant(date string) report.Period {
	return report.Period{Instant: true, End: Date(date)}
}

// Year returns the calendar year as a duration.
func Year(y int) report.Period {
	return Duration(fmt.Sprintf("%d-01-01", y), fmt.Sprintf("%d-12-31", y))
}

// Numeric builds a USD fact.
func Numeric(id, concept string, p report.Period, value string) *report.Fact {
	return &report.Fact{
		ID:      id,
		Concept: concept,
		Period:  p,
		Value:   value,
		Unit:    "iso4217:USD",
		Context: report.Context{ContextID: "c-" + id, EntityID: "e1", PeriodID: p.Key()},
	}
}

// Text builds a non-numeric fact.
func Text(id, concept string, p report.Period, value string) *report.Fact {
	return &report.Fact{
		ID:      id,
		Concept: concept,
		Period:  p,
		Value:   value,
		Context: report.Context{ContextID: "c-" + id, EntityID: "e1", PeriodID: p.Key()},
	}
}

// Build builds a report from the document and fails the test on error.
func Build(t testing.TB, doc report.Document) *report.Report {
	t.Helper()
	r, err := report.Build(doc)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	return r
}

// Facts builds a report holding only the given facts.
func Facts(t testing.TB, facts ...*report.Fact) *report.Report {
	t.Helper()
	return Build(t, report.Document{Facts: facts})
}

// Many returns n visible numeric facts with distinct concepts named
// "c<i>" and ids "f<i>", starting from 1.
func Many(n int) []*report.Fact {
	out := make([]*report.Fact, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Numeric(fmt.Sprintf("f%d", i), fmt.Sprintf("c%d", i), Year(2023), fmt.Sprint(i)))
	}
	return out
}
