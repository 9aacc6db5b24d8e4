package dashboard

import (
	"slices"
	"strings"
	"time"

	"github.com/b2p/b2p-admin/internal/constants"
	"github.com/b2p/b2p-admin/internal/models"
)

// Upcoming is one row of the "next bookings" list.
type Upcoming struct {
	ID     string
	Field  string
	Hours  string
	Client string
}

// Summary is the headline numbers of the day.
type Summary struct {
	Date          string
	ActiveFields  int
	TodayCount    int
	WeekCount     int
	RevenueToday  float64
	Upcoming      []Upcoming
	TodayBookings []models.Booking
}

// Compute derives the summary for now's UTC date. The week window runs from
// seven days before today through today, inclusive.
func Compute(fields []models.Field, bookings []models.Booking, now time.Time) Summary {
	today := now.UTC().Format(constants.DateFormat)
	weekAgo := now.UTC().AddDate(0, 0, -constants.DashboardWindowDays).Format(constants.DateFormat)

	s := Summary{Date: today}
	for _, f := range fields {
		if f.IsActive {
			s.ActiveFields++
		}
	}

	for _, b := range bookings {
		if b.Date >= weekAgo && b.Date <= today {
			s.WeekCount++
		}
		if b.Date != today {
			continue
		}
		s.TodayCount++
		s.TodayBookings = append(s.TodayBookings, b)
		s.RevenueToday += price(fields, b)
	}

	slices.SortStableFunc(s.TodayBookings, func(a, b models.Booking) int {
		return strings.Compare(a.StartTime, b.StartTime)
	})
	for _, b := range s.TodayBookings[:min(len(s.TodayBookings), constants.DashboardUpcomingN)] {
		s.Upcoming = append(s.Upcoming, Upcoming{
			ID:     b.ID,
			Field:  b.Field,
			Hours:  b.StartTime + " - " + b.EndTime,
			Client: b.Client,
		})
	}
	return s
}

// price is the hourly price of the booked field, matched by name or id.
func price(fields []models.Field, b models.Booking) float64 {
	for _, f := range fields {
		if f.Name == b.Field || (b.FieldID != "" && f.ID == b.FieldID) {
			return f.PricePerHour
		}
	}
	return 0
}
