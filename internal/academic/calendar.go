// Package academic centralises the academic-year calendar rules shared by the
// promotion, statistics and reporting services. An academic year runs from
// September 1st to August 31st and is identified by the Gregorian year it
// starts in: 2025-08-31 belongs to academic year 2024, 2025-09-01 to 2025.
//
// All date arithmetic is date-only and performed in UTC so that boundary
// dates never drift when round-tripped through their textual form.
package academic

import (
	"fmt"
	"time"
)

// DateLayout is the canonical textual form for calendar dates at every
// storage and serialisation boundary.
const DateLayout = "2006-01-02"

// startMonth is the first month of an academic year.
const startMonth = time.September

// YearOf returns the academic year the given date belongs to.
func YearOf(date time.Time) int {
	if date.Month() >= startMonth {
		return date.Year()
	}
	return date.Year() - 1
}

// CurrentYear returns the academic year the supplied clock falls in.
func CurrentYear(now time.Time) int {
	return YearOf(now.UTC())
}

// YearBounds returns the inclusive start and end dates of an academic year:
// September 1st of the start year through August 31st of the following year.
func YearBounds(year int) (time.Time, time.Time) {
	start := time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, time.August, 31, 0, 0, 0, 0, time.UTC)
	return start, end
}

// YearStart returns the September 1st boundary date of an academic year. Age
// calculations for class placement are anchored on this date.
func YearStart(year int) time.Time {
	start, _ := YearBounds(year)
	return start
}

// SaturdaysInQuarter enumerates every Saturday of the given quarter of an
// academic year, in ascending order. Quarter 1 covers September through
// November of the start year; quarters 2 (December through February),
// 3 (March through May) and 4 (June through August) roll into the following
// calendar year. An out-of-range quarter yields nil.
func SaturdaysInQuarter(yearStart, quarter int) []time.Time {
	var first time.Month
	yearOffset := 0

	switch quarter {
	case 1:
		first = time.September
	case 2:
		first = time.December
	case 3:
		first = time.March
		yearOffset = 1
	case 4:
		first = time.June
		yearOffset = 1
	default:
		return nil
	}

	start := time.Date(yearStart+yearOffset, first, 1, 0, 0, 0, 0, time.UTC)
	// Day zero of month+3 is the last day of the three-month window.
	end := time.Date(yearStart+yearOffset, first+3, 0, 0, 0, 0, 0, time.UTC)

	current := start
	for current.Weekday() != time.Saturday && !current.After(end) {
		current = current.AddDate(0, 0, 1)
	}

	var saturdays []time.Time
	for !current.After(end) {
		saturdays = append(saturdays, current)
		current = current.AddDate(0, 0, 7)
	}
	return saturdays
}

// AgeOn returns whole years elapsed between a date of birth and a reference
// date, subtracting one year when the reference month/day precedes the birth
// month/day.
func AgeOn(dob, reference time.Time) int {
	age := reference.Year() - dob.Year()
	monthDiff := int(reference.Month()) - int(dob.Month())
	if monthDiff < 0 || (monthDiff == 0 && reference.Day() < dob.Day()) {
		age--
	}
	return age
}

// ParseDate parses the canonical YYYY-MM-DD form into a date-only UTC time.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return parsed, nil
}

// FormatDate renders a date in the canonical YYYY-MM-DD form.
func FormatDate(date time.Time) string {
	return date.UTC().Format(DateLayout)
}

// GregorianToROC converts a Gregorian year to the Minguo (ROC) year used on
// printed reports.
func GregorianToROC(year int) int {
	return year - 1911
}

// ROCToGregorian converts a Minguo (ROC) year back to the Gregorian year.
func ROCToGregorian(rocYear int) int {
	return rocYear + 1911
}
