package reconcile

import (
	"strconv"
	"strings"
	"time"

	"github.com/b2p/b2p-admin/internal/constants"
)

// ParseDay maps a date string to its Spanish weekday name. It accepts
// YYYY-MM-DD and DD/MM/YYYY. ok is false when the date could not be read and
// the default day was returned instead.
func ParseDay(date string) (day string, ok bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return constants.DefaultDay, false
	}

	if strings.Contains(date, "-") {
		parts := strings.Split(date, "-")
		if y, valid := number(parts, 0); valid {
			m, _ := number(parts, 1)
			d, _ := number(parts, 2)
			return weekday(y, m, d), true
		}
	}

	if strings.Contains(date, "/") {
		parts := strings.Split(date, "/")
		y, valid := number(parts, 2)
		if !valid || y == 0 {
			y = 2000
		}
		d, _ := number(parts, 0)
		m, _ := number(parts, 1)
		return weekday(y, m, d), true
	}

	if t, err := time.Parse("2006-01-02T15:04:05", date+"T00:00:00"); err == nil {
		return constants.Days[t.Weekday()], true
	}
	return constants.DefaultDay, false
}

// DayName is ParseDay without the success flag.
func DayName(date string) string {
	day, _ := ParseDay(date)
	return day
}

func number(parts []string, i int) (int, bool) {
	if i >= len(parts) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil {
		return 0, false
	}
	return n, true
}

// weekday normalizes out-of-range months and days the way calendar
// arithmetic does; a zero month or day means the first.
func weekday(y, m, d int) string {
	if m == 0 {
		m = 1
	}
	if d == 0 {
		d = 1
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return constants.Days[t.Weekday()]
}
