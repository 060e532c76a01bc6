package caldate

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Date is a calendar-local date: year, month, day. No time-of-day, no zone.
// The zero value is not a valid date; use New or Parse.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ErrInvalidDate is returned when a textual date does not match the strict
// YYYY-MM-DD shape or does not exist on the Gregorian calendar.
var ErrInvalidDate = errors.New("invalid calendar date")

// ErrNoSuchDate is returned by AddMonths and AddYears when keeping the
// day-of-month fixed lands on a date that does not exist in the target
// month or year. Such candidates are skipped, never clamped to month end.
var ErrNoSuchDate = errors.New("no such date in target month")

var dateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInMonth returns the number of days in the given month of the given year.
func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.January, time.March, time.May, time.July, time.August, time.October, time.December:
		return 31
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 30
	}
}

// New constructs a Date, rejecting combinations that do not exist on the
// calendar (e.g. February 30th).
func New(year int, month time.Month, day int) (Date, error) {
	if year < 1 || month < time.January || month > time.December {
		return Date{}, ErrInvalidDate
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return Date{}, ErrInvalidDate
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// Parse converts strict YYYY-MM-DD text into a Date. Any other shape, and any
// components that do not form a real date, yield ErrInvalidDate. Parse never
// panics; callers typically short-circuit to an empty result on error.
func Parse(text string) (Date, error) {
	if !dateShape.MatchString(text) {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, text)
	}
	var year, month, day int
	if _, err := fmt.Sscanf(text, "%4d-%2d-%2d", &year, &month, &day); err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, text)
	}
	d, err := New(year, time.Month(month), day)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, text)
	}
	return d, nil
}

// MustParse is Parse that panics on malformed input. Intended for tests and
// static configuration values.
func MustParse(text string) Date {
	d, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime truncates a time.Time to its calendar date in the time's location.
func FromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// String renders the date in the fixed-width YYYY-MM-DD wire form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero value (no date set).
func (d Date) IsZero() bool {
	return d == Date{}
}

// Compare returns -1, 0, or 1 as d is before, equal to, or after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// AddDays returns the date n days after d (n may be negative). Day addition is
// total: every integer offset maps to a real date.
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return FromTime(t)
}

// AddMonths keeps the day-of-month fixed and advances the month by n, carrying
// year overflow. When the target month is shorter than d.Day it returns
// ErrNoSuchDate instead of clamping.
func (d Date) AddMonths(n int) (Date, error) {
	monthIndex := int(d.Month) - 1 + n
	year := d.Year + monthIndex/12
	monthIndex %= 12
	if monthIndex < 0 {
		monthIndex += 12
		year--
	}
	month := time.Month(monthIndex + 1)
	if d.Day > DaysInMonth(year, month) {
		return Date{}, ErrNoSuchDate
	}
	return Date{Year: year, Month: month, Day: d.Day}, nil
}

// AddYears keeps month and day fixed and advances the year by n. Only a
// February 29th start can fail, when the target year is not a leap year.
func (d Date) AddYears(n int) (Date, error) {
	year := d.Year + n
	if d.Month == time.February && d.Day == 29 && !IsLeapYear(year) {
		return Date{}, ErrNoSuchDate
	}
	return Date{Year: year, Month: d.Month, Day: d.Day}, nil
}

// MarshalJSON renders the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrInvalidDate, data)
	}
	parsed, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the date as YYYY-MM-DD text.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan reads a YYYY-MM-DD text column.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into caldate.Date", src)
	}
}
