package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/b2p/b2p-admin/internal/models"
)

func TestCompute(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	fields := []models.Field{
		{ID: "f1", Name: "C1", PricePerHour: 10000, IsActive: true},
		{ID: "f2", Name: "C2", PricePerHour: 5000, IsActive: true},
		{ID: "f3", Name: "C3", PricePerHour: 9000},
	}
	bookings := []models.Booking{
		{ID: "b1", Date: "2025-03-10", Field: "C1", StartTime: "20:00", EndTime: "21:00"},
		{ID: "b2", Date: "2025-03-10", Field: "Cancha desconocida", FieldID: "f2", StartTime: "09:00", EndTime: "10:00"},
		{ID: "b3", Date: "2025-03-10", Field: "C9", StartTime: "10:00", EndTime: "11:00"},
		{ID: "b4", Date: "2025-03-10", Field: "C1", StartTime: "11:00", EndTime: "12:00"},
		{ID: "b5", Date: "2025-03-10", Field: "C1", StartTime: "12:00", EndTime: "13:00"},
		{ID: "b6", Date: "2025-03-03", Field: "C1", StartTime: "12:00", EndTime: "13:00"},
		{ID: "b7", Date: "2025-03-02", Field: "C1", StartTime: "12:00", EndTime: "13:00"},
		{ID: "b8", Date: "2025-03-11", Field: "C1", StartTime: "12:00", EndTime: "13:00"},
	}

	s := Compute(fields, bookings, now)

	if s.ActiveFields != 2 {
		t.Errorf("ActiveFields = %d", s.ActiveFields)
	}
	if s.TodayCount != 5 {
		t.Errorf("TodayCount = %d", s.TodayCount)
	}
	if s.WeekCount != 6 {
		t.Errorf("WeekCount = %d, want today plus the day a week ago", s.WeekCount)
	}
	if s.RevenueToday != 35000 {
		t.Errorf("RevenueToday = %v", s.RevenueToday)
	}
	if len(s.Upcoming) != 4 || s.Upcoming[0].ID != "b2" || s.Upcoming[3].ID != "b5" {
		t.Errorf("Upcoming = %+v", s.Upcoming)
	}
	if s.Upcoming[0].Hours != "09:00 - 10:00" {
		t.Errorf("Hours = %q", s.Upcoming[0].Hours)
	}
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, nil, time.Now())
	if s.TodayCount != 0 || len(s.Upcoming) != 0 {
		t.Errorf("summary = %+v", s)
	}
	if !strings.Contains(s.Render(), "No hay reservas para hoy") {
		t.Error("empty render missing placeholder")
	}
}

func TestMoney(t *testing.T) {
	tests := map[float64]string{
		0:       "$0",
		950:     "$950",
		12000:   "$12.000",
		1234567: "$1.234.567",
		-4500:   "-$4.500",
	}
	for in, want := range tests {
		if got := Money(in); got != want {
			t.Errorf("Money(%v) = %q, want %q", in, got, want)
		}
	}
}
