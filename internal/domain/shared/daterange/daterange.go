package daterange

import (
	"errors"
	"time"
)

var (
	ErrInvalidRange = errors.New("daterange: end date must not precede start date")
)

// DateRange is a closed interval of calendar days [From, To], both inclusive.
// Dates are normalized to midnight UTC; sub-day precision is discarded.
type DateRange struct {
	From time.Time
	To   time.Time
}

func New(from, to time.Time) (DateRange, error) {
	dr := DateRange{From: Day(from), To: Day(to)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Day truncates a timestamp to its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Month builds the range covering every day of the given month.
func Month(year int, month time.Month) DateRange {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return DateRange{From: first, To: last}
}

func (dr DateRange) Validate() error {
	if dr.From.IsZero() || dr.To.IsZero() {
		return ErrInvalidRange
	}
	if dr.To.Before(dr.From) {
		return ErrInvalidRange
	}
	return nil
}

// Days returns the number of calendar days covered, boundary days included.
func (dr DateRange) Days() int {
	return int(dr.To.Sub(dr.From).Hours()/24) + 1
}

// Overlaps reports whether two closed intervals share at least one day.
// A shared boundary day counts as an overlap.
func (dr DateRange) Overlaps(other DateRange) bool {
	return !dr.From.After(other.To) && !dr.To.Before(other.From)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	day := Day(t)
	return !day.Before(dr.From) && !day.After(dr.To)
}

// EachDay visits every day of the range in ascending order.
func (dr DateRange) EachDay(fn func(day time.Time)) {
	for day := dr.From; !day.After(dr.To); day = day.AddDate(0, 0, 1) {
		fn(day)
	}
}
