package gtfs

import (
	"fmt"
	"time"
)

// gtfsDateLayout is the canonical stored form of a GTFS date.
const gtfsDateLayout = "20060102"

// ParseDate converts a stored YYYYMMDD date into a UTC civil date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(gtfsDateLayout, s)
}

// FormatDate renders a civil date in the stored YYYYMMDD form.
func FormatDate(t time.Time) string {
	return t.Format(gtfsDateLayout)
}

// ParseTime converts a stored GTFS time (HH:MM:SS, hour may exceed 23
// for service running past midnight) into seconds into the service day.
func ParseTime(s string) (int, error) {
	m := rgxTime.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%s is not a valid GTFS time", s)
	}
	sec := atoiFixed(m[2])*3600 + atoiFixed(m[3])*60 + atoiFixed(m[4])
	if m[1] == "-" {
		sec = -sec
	}
	return sec, nil
}

// FormatTime renders seconds as a GTFS HH:MM:SS time. Hours past 23
// stay as-is, so 90000 renders as 25:00:00.
func FormatTime(sec int) string {
	sign := ""
	if sec < 0 {
		sign = "-"
		sec = -sec
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, sec/3600, sec%3600/60, sec%60)
}

func atoiFixed(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

// lerp linearly interpolates y at x between (x0, y0) and (x1, y1).
func lerp(x0, y0, x1, y1, x float64) float64 {
	return (x-x0)*(y1-y0)/(x1-x0) + y0
}
