package main

import (
	"time"
)

const dateLayout = "2006-01-02"

// dayWindow is the half-open interval [Start, End) covering one calendar day.
// Every log listing and summary scopes entries with it.
type dayWindow struct {
	Start time.Time
	End   time.Time
}

// dayWindowFor returns the window for date (YYYY-MM-DD) in now's location, or
// for the day containing now when date is empty. End is the next midnight, so
// DST transition days are 23 or 25 hours long.
func dayWindowFor(date string, now time.Time) (dayWindow, error) {
	loc := now.Location()
	var start time.Time
	if date == "" {
		y, m, d := now.Date()
		start = time.Date(y, m, d, 0, 0, 0, 0, loc)
	} else {
		t, err := time.ParseInLocation(dateLayout, date, loc)
		if err != nil {
			return dayWindow{}, newValidationError("date", "invalid date, expected YYYY-MM-DD")
		}
		start = t
	}
	return dayWindow{Start: start, End: start.AddDate(0, 0, 1)}, nil
}
