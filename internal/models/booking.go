package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/b2p/b2p-admin/internal/constants"
)

// Booking is a client's reservation of one schedule slot on one calendar date,
// in the canonical shape used everywhere past the API boundary.
type Booking struct {
	ID         string                  `json:"id"`
	Date       string                  `json:"date"`
	FieldID    string                  `json:"fieldId,omitempty"`
	Field      string                  `json:"field"`
	ScheduleID string                  `json:"scheduleId,omitempty"`
	Client     string                  `json:"client"`
	Tel        string                  `json:"tel,omitempty"`
	StartTime  string                  `json:"startTime"`
	EndTime    string                  `json:"endTime"`
	Status     constants.BookingStatus `json:"status"`
}

// BackendBooking is the booking document as the REST API returns it.
type BackendBooking struct {
	ID          string               `json:"_id"`
	Field       Ref[FieldSummary]    `json:"field"`
	Schedule    Ref[ScheduleSummary] `json:"schedule"`
	PlayerName  string               `json:"playerName"`
	Tel         string               `json:"tel"`
	BookingDate string               `json:"bookingDate"`
}

// BookingUpdate is the body of PATCH /bookings/:id and POST /bookings.
type BookingUpdate struct {
	Field       string `json:"field"`
	Schedule    string `json:"schedule"`
	PlayerName  string `json:"playerName"`
	Tel         string `json:"tel"`
	BookingDate string `json:"bookingDate"`
}

// ToBooking maps the backend document into the canonical shape. now supplies
// the date used when the document has none.
func (b BackendBooking) ToBooking(now time.Time) Booking {
	booking := Booking{
		ID:         b.ID,
		Date:       DateKey(b.BookingDate, now),
		FieldID:    b.Field.ID,
		Field:      constants.UnknownFieldName,
		ScheduleID: b.Schedule.ID,
		Client:     b.PlayerName,
		Tel:        b.Tel,
		StartTime:  constants.DefaultStartTime,
		Status:     constants.StatusConfirmed,
	}
	if b.Field.Expanded != nil && b.Field.Expanded.Name != "" {
		booking.Field = b.Field.Expanded.Name
	}
	if booking.Client == "" {
		booking.Client = constants.UnknownClientName
	}
	if b.Schedule.Expanded != nil && b.Schedule.Expanded.Time != "" {
		booking.StartTime = b.Schedule.Expanded.Time
	}
	booking.EndTime = EndTime(booking.StartTime)
	return booking
}

// DateKey returns the YYYY-MM-DD part of a timestamp, or now's date when empty.
func DateKey(value string, now time.Time) string {
	if value == "" {
		return now.UTC().Format(constants.DateFormat)
	}
	date, _, _ := strings.Cut(value, "T")
	return date
}

// EndTime returns the hour after start, "HH:00". Unparseable input yields the default end.
func EndTime(start string) string {
	hour, ok := ParseHour(start)
	if !ok {
		return constants.DefaultEndTime
	}
	return fmt.Sprintf("%02d:00", hour+1)
}

// ParseHour reads the hour component of an "HH:MM" label.
func ParseHour(label string) (int, bool) {
	head, _, _ := strings.Cut(strings.TrimSpace(label), ":")
	hour, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return hour, true
}
