package vacation

import "time"

// Range marks an employee absent from the start day through the end day,
// both inclusive. Ranges are independent records; a set is not required to be
// sorted, contiguous, or free of overlaps.
type Range struct {
	ID         string
	EmployeeID string
	Start      time.Time
	End        time.Time
}

// OnVacation reports whether the given day falls inside any of the ranges.
// Comparison is by calendar date only; time-of-day on either side is ignored.
func OnVacation(ranges []Range, day time.Time) bool {
	target := dateOrdinal(day)
	for _, r := range ranges {
		if dateOrdinal(r.Start) <= target && target <= dateOrdinal(r.End) {
			return true
		}
	}
	return false
}

// dateOrdinal collapses an instant to a comparable day number, discarding the
// time-of-day in the instant's own location.
func dateOrdinal(t time.Time) int {
	year, month, day := t.Date()
	return year*10000 + int(month)*100 + day
}
