package period

import (
	"time"

	"github.com/cicero78M/recap-engine/pkg/logging"
)

// Kind selects how the recap window is derived
type Kind string

const (
	Daily   Kind = "daily"
	Weekly  Kind = "weekly"
	Monthly Kind = "monthly"
	All     Kind = "all"
	Custom  Kind = "custom"
)

// dateLayout is the wire format accepted for custom range bounds
const dateLayout = "2006-01-02"

// Window is an inclusive range of civil days in the organization's timezone.
// Start and End are local midnights of the first and last day. An unbounded
// window disables date filtering entirely.
type Window struct {
	Start     time.Time
	End       time.Time
	Unbounded bool
}

// UpperBound is the exclusive upper bound for timestamp comparisons: the
// midnight after the last day of the window.
func (w Window) UpperBound() time.Time {
	return w.End.AddDate(0, 0, 1)
}

// Contains reports whether ts falls inside the window
func (w Window) Contains(ts time.Time) bool {
	if w.Unbounded {
		return true
	}
	return !ts.Before(w.Start) && ts.Before(w.UpperBound())
}

// ParseKind maps a period keyword onto a Kind, defaulting to daily
func ParseKind(s string) Kind {
	switch Kind(s) {
	case Daily, Weekly, Monthly, All, Custom:
		return Kind(s)
	}
	return Daily
}

// Resolve turns a period keyword plus an anchor date into a concrete window
// of civil days in loc. A custom kind without a valid parseable start and end
// falls back to the daily window instead of failing the request.
func Resolve(kind Kind, anchor time.Time, loc *time.Location, customStart, customEnd string, logger logging.Logger) Window {
	if loc == nil {
		loc = time.Local
	}
	day := midnight(anchor.In(loc))

	switch kind {
	case Weekly:
		// Monday through Sunday of the week containing the anchor
		offset := int(day.Weekday()) - int(time.Monday)
		if offset < 0 {
			offset += 7
		}
		monday := day.AddDate(0, 0, -offset)
		return Window{Start: monday, End: monday.AddDate(0, 0, 6)}

	case Monthly:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, loc)
		last := first.AddDate(0, 1, -1)
		return Window{Start: first, End: last}

	case All:
		return Window{Unbounded: true}

	case Custom:
		start, errStart := time.ParseInLocation(dateLayout, customStart, loc)
		end, errEnd := time.ParseInLocation(dateLayout, customEnd, loc)
		if errStart != nil || errEnd != nil || end.Before(start) {
			if logger != nil {
				logger.WithFields(logging.Fields{
					"start": customStart,
					"end":   customEnd,
				}).Warn("Invalid custom range, falling back to daily window")
			}
			return Window{Start: day, End: day}
		}
		return Window{Start: start, End: end}
	}

	return Window{Start: day, End: day}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
