package gtfs

import (
	"sort"
	"time"
)

// Service is one calendar entry's service pattern: a weekly recurrence
// over an inclusive date range, overlaid with explicitly added and
// removed dates. A service defined only in calendar_dates has a zero
// Start and carries added dates alone.
type Service struct {
	ID       string
	Weekdays [7]bool // indexed by time.Weekday, Sunday first
	Start    time.Time
	End      time.Time
	Added    []time.Time
	Removed  []time.Time
}

var weekdayColumns = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// ServiceByID assembles a Service from the calendar and calendar_dates
// tables. It returns nil when the id appears in neither.
func (f *Feed) ServiceByID(id string) (*Service, error) {
	svc := &Service{ID: id}
	found := false

	if f.tables["calendar"] {
		row, err := f.store.GetRowDict("SELECT monday, tuesday, wednesday, thursday, friday, saturday, sunday, start_date, end_date FROM calendar WHERE service_id = ?;", id)
		if err != nil {
			return nil, err
		}
		if row != nil {
			found = true
			for i, name := range weekdayColumns {
				svc.Weekdays[i] = asInt(row[name]) == 1
			}
			if svc.Start, err = ParseDate(asText(row["start_date"])); err != nil {
				return nil, err
			}
			if svc.End, err = ParseDate(asText(row["end_date"])); err != nil {
				return nil, err
			}
		}
	}

	if f.tables["calendar_dates"] {
		rows, err := f.store.Query("SELECT date, exception_type FROM calendar_dates WHERE service_id = ? ORDER BY date;", id)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		for rows.Next() {
			var date string
			var exc int64
			if err := rows.Scan(&date, &exc); err != nil {
				return nil, err
			}
			d, err := ParseDate(date)
			if err != nil {
				return nil, err
			}
			found = true
			switch exc {
			case 1:
				svc.Added = append(svc.Added, d)
			case 2:
				svc.Removed = append(svc.Removed, d)
			}
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	if !found {
		return nil, nil
	}
	return svc, nil
}

// IsActive reports whether the service runs on the given date: the
// date matches the weekly pattern inside [Start, End] and was not
// removed, or it was explicitly added. An added date wins even when
// the same date is also removed.
func (s *Service) IsActive(date time.Time) bool {
	d := civil(date)
	weekly := !s.Start.IsZero() && !d.Before(s.Start) && !d.After(s.End) && s.Weekdays[d.Weekday()]
	return (weekly && !containsDate(s.Removed, d)) || containsDate(s.Added, d)
}

// AllActiveDates returns every date the service runs on, sorted. A
// removed date suppresses one generated weekly occurrence; added dates
// are included regardless of range and weekday.
func (s *Service) AllActiveDates() []time.Time {
	dates := append([]time.Time(nil), s.Added...)

	if !s.Start.IsZero() {
		removed := map[time.Time]int{}
		for _, r := range s.Removed {
			removed[r]++
		}
		for d := s.Start; !d.After(s.End); d = d.AddDate(0, 0, 1) {
			if !s.Weekdays[d.Weekday()] {
				continue
			}
			if removed[d] > 0 {
				removed[d]--
				continue
			}
			if !containsDate(dates, d) {
				dates = append(dates, d)
			}
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// civil truncates a time to its UTC calendar date.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func containsDate(dates []time.Time, d time.Time) bool {
	for _, x := range dates {
		if x.Equal(d) {
			return true
		}
	}
	return false
}
