// Package timeofday provides a date-independent wall-clock value type used by
// the scheduling engine. Times are stored as minutes since midnight so slot
// comparisons never involve a reference date.
package timeofday

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
type TimeOfDay int

// MinutesPerDay bounds valid TimeOfDay values (exclusive upper bound 24:00).
const MinutesPerDay = 24 * 60

// Parse converts an "HH:MM" string into a TimeOfDay.
func Parse(value string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", value, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", value, err)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("hour out of range in %q", value)
	}
	if minute < 0 || minute > 59 {
		return 0, fmt.Errorf("minute out of range in %q", value)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// Minutes returns the value as minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// String renders the value as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Valid reports whether the value falls within a single day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < MinutesPerDay
}

// Overlaps tests two half-open intervals [aStart, aEnd) and [bStart, bEnd)
// on the same weekday. Touching boundaries do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && aEnd > bStart
}

// Range is a half-open [Start, End) interval within one day.
type Range struct {
	Start TimeOfDay
	End   TimeOfDay
}

// ParseRange builds a Range from "HH:MM" boundaries and validates ordering.
func ParseRange(start, end string) (Range, error) {
	s, err := Parse(start)
	if err != nil {
		return Range{}, err
	}
	e, err := Parse(end)
	if err != nil {
		return Range{}, err
	}
	r := Range{Start: s, End: e}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Validate checks that the range is non-empty and within one day.
func (r Range) Validate() error {
	if !r.Start.Valid() || !r.End.Valid() {
		return fmt.Errorf("time out of range: %s-%s", r.Start, r.End)
	}
	if r.Start >= r.End {
		return fmt.Errorf("start %s must be before end %s", r.Start, r.End)
	}
	return nil
}

// Overlaps reports whether two ranges intersect.
func (r Range) Overlaps(other Range) bool {
	return Overlaps(r.Start, r.End, other.Start, other.End)
}

// String renders the range as "HH:MM-HH:MM".
func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}
