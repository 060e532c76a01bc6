package recurrence

import (
	"errors"

	"github.com/kalendo/kalendo/pkg/caldate"
)

// maxYearOffset bounds the yearly skip loop. A Feb-29 start recurs at least
// once within any 400-year Gregorian cycle, so a longer search cannot succeed.
const maxYearOffset = 400

// Expand turns a recurrence window given in wire form into the ordered list of
// occurrence dates. Unparseable bounds yield an empty result, never an error:
// malformed input is resolved locally so callers can short-circuit.
func Expand(start, end string, freq Frequency) []caldate.Date {
	s, err := caldate.Parse(start)
	if err != nil {
		return []caldate.Date{}
	}
	e, err := caldate.Parse(end)
	if err != nil {
		return []caldate.Date{}
	}
	return ExpandDates(s, e, freq)
}

// ExpandDates produces every occurrence of the given frequency from start to
// end inclusive, in strictly ascending order. It is a pure function of its
// inputs: calling it twice yields equal slices.
//
// Monthly and yearly candidates are always derived from the original start
// date offset by an incrementing counter, never from the last emitted date.
// That is what makes a day-31 series land on every 31-day month instead of
// drifting after the first skip.
func ExpandDates(start, end caldate.Date, freq Frequency) []caldate.Date {
	dates := []caldate.Date{}
	if freq == None || start.After(end) {
		return dates
	}

	switch freq {
	case Daily:
		for current := start; !current.After(end); current = current.AddDays(1) {
			dates = append(dates, current)
		}
	case Weekly:
		for current := start; !current.After(end); current = current.AddDays(7) {
			dates = append(dates, current)
		}
	case Monthly:
		current := start
		for offset := 0; ; {
			dates = append(dates, current)
			offset++
			next, err := start.AddMonths(offset)
			for errors.Is(err, caldate.ErrNoSuchDate) {
				// Skip the month entirely; re-check the window bound so a
				// run of skips cannot walk past end.
				offset++
				if monthExceedsEnd(start, end, offset) {
					return dates
				}
				next, err = start.AddMonths(offset)
			}
			if err != nil || next.After(end) {
				return dates
			}
			current = next
		}
	case Yearly:
		current := start
		for offset := 0; ; {
			dates = append(dates, current)
			offset++
			next, err := start.AddYears(offset)
			for errors.Is(err, caldate.ErrNoSuchDate) && offset < maxYearOffset {
				offset++
				next, err = start.AddYears(offset)
			}
			if err != nil || next.After(end) {
				return dates
			}
			current = next
		}
	}

	return dates
}

// monthExceedsEnd reports whether the month at the given offset from start
// lies entirely past end, i.e. no candidate in it could still be emitted.
func monthExceedsEnd(start, end caldate.Date, offset int) bool {
	candidate := start.Year*12 + int(start.Month) - 1 + offset
	last := end.Year*12 + int(end.Month) - 1
	return candidate > last
}
