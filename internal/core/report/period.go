package report

import (
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Period is either an instant or a duration. A duration may be open ended,
// in which case End is zero.
type Period struct {
	Instant bool
	Start   time.Time
	End     time.Time
}

// DurationClass buckets a period by its length so that periods of
// comparable length can be matched against each other.
type DurationClass int

const (
	ClassInstant DurationClass = iota
	ClassOpen
	ClassMonth
	ClassQuarter
	ClassHalfYear
	ClassYear
	ClassOther
)

type periodJSON struct {
	Instant string `json:"instant,omitempty"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
}

// UnmarshalJSON decodes {"instant": "2023-12-31"} or
// {"start": "2023-01-01", "end": "2023-12-31"} (end optional).
func (p *Period) UnmarshalJSON(data []byte) error {
	var raw periodJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.Instant != "" {
		t, err := time.Parse(dateLayout, raw.Instant)
		if err != nil {
			return fmt.Errorf("parse instant: %w", err)
		}
		*p = Period{Instant: true, End: t}
		return nil
	}

	if raw.Start == "" {
		return fmt.Errorf("period requires instant or start")
	}

	start, err := time.Parse(dateLayout, raw.Start)
	if err != nil {
		return fmt.Errorf("parse start: %w", err)
	}
	out := Period{Start: start}
	if raw.End != "" {
		end, err := time.Parse(dateLayout, raw.End)
		if err != nil {
			return fmt.Errorf("parse end: %w", err)
		}
		if end.Before(start) {
			return fmt.Errorf("period end %s before start %s", raw.End, raw.Start)
		}
		out.End = end
	}
	*p = out
	return nil
}

// MarshalJSON is the inverse of UnmarshalJSON.
func (p Period) MarshalJSON() ([]byte, error) {
	var raw periodJSON
	if p.Instant {
		raw.Instant = p.End.Format(dateLayout)
	} else {
		raw.Start = p.Start.Format(dateLayout)
		if !p.End.IsZero() {
			raw.End = p.End.Format(dateLayout)
		}
	}
	return json.Marshal(raw)
}

// Closing returns the closing date of the period: the instant itself or the
// end of a duration. Open-ended durations have no closing date.
func (p Period) Closing() (time.Time, bool) {
	if p.End.IsZero() {
		return time.Time{}, false
	}
	return p.End, true
}

// Days returns the inclusive length of a closed duration in days.
func (p Period) Days() int {
	if p.Instant || p.End.IsZero() {
		return 0
	}
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// Class returns the duration classification of the period.
func (p Period) Class() DurationClass {
	switch {
	case p.Instant:
		return ClassInstant
	case p.End.IsZero():
		return ClassOpen
	}

	days := p.Days()
	switch {
	case days >= 27 && days <= 32:
		return ClassMonth
	case days >= 85 && days <= 95:
		return ClassQuarter
	case days >= 178 && days <= 188:
		return ClassHalfYear
	case days >= 360 && days <= 370:
		return ClassYear
	default:
		return ClassOther
	}
}

// EquivalentDuration reports whether two periods have the same duration
// classification. Unclassified durations must span the same number of days.
func (p Period) EquivalentDuration(other Period) bool {
	a, b := p.Class(), other.Class()
	if a != b {
		return false
	}
	if a == ClassOther {
		return p.Days() == other.Days()
	}
	return true
}

// Key is a stable identifier used for grouping facts by period.
func (p Period) Key() string {
	switch {
	case p.Instant:
		return p.End.Format(dateLayout)
	case p.End.IsZero():
		return p.Start.Format(dateLayout) + "/"
	default:
		return p.Start.Format(dateLayout) + "/" + p.End.Format(dateLayout)
	}
}

func (p Period) String() string {
	const human = "2 Jan 2006"
	switch {
	case p.Instant:
		return p.End.Format(human)
	case p.End.IsZero():
		return "From " + p.Start.Format(human)
	default:
		return p.Start.Format(human) + " to " + p.End.Format(human)
	}
}
