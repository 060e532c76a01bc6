package recurrence

import (
	"testing"

	"github.com/kalendo/kalendo/pkg/caldate"
	"github.com/stretchr/testify/assert"
)

func datesOf(texts ...string) []caldate.Date {
	dates := make([]caldate.Date, 0, len(texts))
	for _, t := range texts {
		dates = append(dates, caldate.MustParse(t))
	}
	return dates
}

func TestExpand_EmptyResults(t *testing.T) {
	testCases := []struct {
		name  string
		start string
		end   string
		freq  Frequency
	}{
		{name: "frequency none", start: "2025-01-01", end: "2025-12-31", freq: None},
		{name: "start after end", start: "2025-06-01", end: "2025-01-01", freq: Daily},
		{name: "unparseable start", start: "2025-02-31", end: "2025-12-31", freq: Monthly},
		{name: "unparseable end", start: "2025-01-01", end: "not-a-date", freq: Daily},
		{name: "empty start", start: "", end: "2025-12-31", freq: Weekly},
		{name: "loose format rejected", start: "2025-1-1", end: "2025-12-31", freq: Daily},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Empty(t, Expand(tc.start, tc.end, tc.freq))
		})
	}
}

func TestExpand_SingleDayWindow(t *testing.T) {
	for _, freq := range []Frequency{Daily, Weekly, Monthly, Yearly} {
		t.Run(freq.String(), func(t *testing.T) {
			got := Expand("2025-05-20", "2025-05-20", freq)
			assert.Equal(t, datesOf("2025-05-20"), got)
		})
	}
}

func TestExpand_Daily(t *testing.T) {
	got := Expand("2025-01-01", "2025-01-05", Daily)
	assert.Equal(t, datesOf("2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04", "2025-01-05"), got)

	// inclusive day count over a non-leap year
	assert.Len(t, Expand("2025-01-01", "2025-12-31", Daily), 365)
	// and a leap year
	assert.Len(t, Expand("2024-01-01", "2024-12-31", Daily), 366)
	// crossing the Feb/Mar boundary in a leap year includes Feb 29
	assert.Equal(t,
		datesOf("2024-02-28", "2024-02-29", "2024-03-01"),
		Expand("2024-02-28", "2024-03-01", Daily))
}

func TestExpand_Weekly(t *testing.T) {
	got := Expand("2025-10-01", "2025-10-31", Weekly)
	assert.Equal(t,
		datesOf("2025-10-01", "2025-10-08", "2025-10-15", "2025-10-22", "2025-10-29"),
		got)

	// end date lands exactly on a step
	got = Expand("2025-10-01", "2025-10-15", Weekly)
	assert.Equal(t, datesOf("2025-10-01", "2025-10-08", "2025-10-15"), got)
}

func TestExpand_Monthly_SkipsShortMonths(t *testing.T) {
	got := Expand("2025-01-31", "2025-12-31", Monthly)
	assert.Equal(t, datesOf(
		"2025-01-31", "2025-03-31", "2025-05-31", "2025-07-31",
		"2025-08-31", "2025-10-31", "2025-12-31",
	), got)
}

func TestExpand_Monthly_Day30SkipsFebruaryOnly(t *testing.T) {
	got := Expand("2025-01-30", "2025-06-30", Monthly)
	assert.Equal(t, datesOf(
		"2025-01-30", "2025-03-30", "2025-04-30", "2025-05-30", "2025-06-30",
	), got)
}

func TestExpand_Monthly_ShortWindowWithoutValidMonth(t *testing.T) {
	// Day 31, two-month window with no further 31-day month in range.
	got := Expand("2025-01-31", "2025-02-28", Monthly)
	assert.Equal(t, datesOf("2025-01-31"), got)
}

func TestExpand_Monthly_MidMonthNeverSkips(t *testing.T) {
	got := Expand("2025-01-15", "2025-04-30", Monthly)
	assert.Equal(t, datesOf("2025-01-15", "2025-02-15", "2025-03-15", "2025-04-15"), got)
}

func TestExpand_Yearly_LeapDay(t *testing.T) {
	got := Expand("2024-02-29", "2030-12-31", Yearly)
	assert.Equal(t, datesOf("2024-02-29", "2028-02-29"), got)
}

func TestExpand_Yearly_PlainDate(t *testing.T) {
	got := Expand("2024-07-04", "2027-07-04", Yearly)
	assert.Equal(t, datesOf("2024-07-04", "2025-07-04", "2026-07-04", "2027-07-04"), got)
}

func TestExpand_Yearly_LeapDayWindowEndsBeforeNextLeapYear(t *testing.T) {
	got := Expand("2024-02-29", "2027-12-31", Yearly)
	assert.Equal(t, datesOf("2024-02-29"), got)
}

func TestExpand_Idempotent(t *testing.T) {
	first := Expand("2025-01-31", "2025-12-31", Monthly)
	second := Expand("2025-01-31", "2025-12-31", Monthly)
	assert.Equal(t, first, second)
}

func TestExpand_StrictlyAscending(t *testing.T) {
	got := Expand("2024-02-29", "2040-12-31", Yearly)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Before(got[i]), "dates out of order at %d", i)
	}
}

func TestExpandDates_WireFormatting(t *testing.T) {
	got := ExpandDates(caldate.MustParse("2025-03-09"), caldate.MustParse("2025-03-09"), Daily)
	assert.Len(t, got, 1)
	assert.Equal(t, "2025-03-09", got[0].String())
}
