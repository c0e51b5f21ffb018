package attendance

import (
	"time"
)

// DayStatus is what a calendar cell shows. It extends Status with the two
// non-record states.
type DayStatus string

const (
	DayWeekend   DayStatus = "weekend"
	DayNotMarked DayStatus = "not_marked"
)

type CalendarDay struct {
	Date      string    `json:"date"`
	IsWeekend bool      `json:"is_weekend"`
	Status    DayStatus `json:"status"`
	Reason    *string   `json:"reason,omitempty"`
}

func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// BuildCalendar lays out every day of the month. Weekends always show as
// weekend even if a stray record exists for one.
func BuildCalendar(year int, month time.Month, records []Record) []CalendarDay {
	byDate := make(map[string]Record, len(records))
	for _, r := range records {
		byDate[r.Date.Format(time.DateOnly)] = r
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := make([]CalendarDay, 0, 31)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		day := CalendarDay{Date: key, Status: DayNotMarked}
		if IsWeekend(d) {
			day.IsWeekend = true
			day.Status = DayWeekend
		} else if r, ok := byDate[key]; ok {
			day.Status = DayStatus(r.Status)
			day.Reason = r.Reason
		}
		days = append(days, day)
	}
	return days
}

// civilDate strips the clock and zone so dates compare as calendar days.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}
