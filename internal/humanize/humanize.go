// Package humanize renders durations in the coarse, reader-friendly form used on
// generated class pages ("3 days", "about one week").
package humanize

import (
	"math"
	"strconv"
	"time"
)

// Calendar approximations; months and years are not exact.
const (
	Day   = 24 * time.Hour
	Week  = 7 * Day
	Month = 30 * Day
	Year  = time.Duration(365.25 * float64(Day))
)

// Duration describes d in words. Negative durations read as "less than a minute".
func Duration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "less than a minute"
	case d < 50*time.Minute:
		n := int64(d / time.Minute)
		if n == 1 {
			return "1 minute"
		}
		return strconv.FormatInt(n, 10) + " minutes"
	case d < 90*time.Minute:
		return "about one hour"
	case d < 18*time.Hour:
		return count(d, time.Hour, "hours")
	case d < Day:
		return "one day"
	case d < 2*Day:
		return "about one day"
	case d < Week:
		return count(d, Day, "days")
	case d < 2*Week:
		return "about one week"
	case d < 3*Month:
		return count(d, Week, "weeks")
	case d < Year:
		return count(d, Month, "months")
	default:
		return count(d, Year, "years")
	}
}

// maxSeconds is the largest second count a time.Duration can hold.
const maxSeconds = int64(math.MaxInt64 / time.Second)

// Seconds is Duration for a whole number of seconds. Counts beyond the range
// of time.Duration are reported in years computed from seconds directly.
func Seconds(s int64) string {
	if s > maxSeconds {
		return strconv.FormatInt(s/int64(Year/time.Second), 10) + " years"
	}
	return Duration(time.Duration(s) * time.Second)
}

func count(d, unit time.Duration, noun string) string {
	return strconv.FormatInt(int64(d/unit), 10) + " " + noun
}
