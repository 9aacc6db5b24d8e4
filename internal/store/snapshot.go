package store

import "github.com/b2p/b2p-admin/internal/models"

// Snapshotter keeps the last successful fetch of each list for offline use.
type Snapshotter interface {
	SaveFields(fields []models.Field) error
	SaveBookings(bookings []models.Booking) error
	SaveSchedules(schedules []models.Schedule) error
}
