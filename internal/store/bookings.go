package store

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/b2p/b2p-admin/internal/constants"
	"github.com/b2p/b2p-admin/internal/grid"
	"github.com/b2p/b2p-admin/internal/logger"
	"github.com/b2p/b2p-admin/internal/models"
)

// BookingAPI is the part of the backend client the booking store needs.
type BookingAPI interface {
	ListBookings(ctx context.Context) ([]models.BackendBooking, error)
	CreateBooking(ctx context.Context, in models.BookingUpdate) (models.BackendBooking, error)
	UpdateBooking(ctx context.Context, id string, in models.BookingUpdate) (models.BackendBooking, error)
	DeleteBooking(ctx context.Context, id string) error
}

// FieldSource supplies known fields for naming bare field references.
type FieldSource interface {
	All() []models.Field
}

// CatalogSource supplies known schedules for timing bare schedule references.
type CatalogSource interface {
	Catalog() []models.Schedule
}

type BookingStore struct {
	*Container[models.Booking]
	api       BookingAPI
	fields    FieldSource
	schedules CatalogSource
	snap      Snapshotter
	now       func() time.Time
	log       *log.Logger
}

// NewBookingStore creates a booking store. fields and schedules may be nil.
func NewBookingStore(api BookingAPI, fields FieldSource, schedules CatalogSource, snap Snapshotter) *BookingStore {
	return &BookingStore{
		Container: NewContainer[models.Booking]("bookings"),
		api:       api,
		fields:    fields,
		schedules: schedules,
		snap:      snap,
		now:       time.Now,
		log:       logger.Named("store/bookings"),
	}
}

func bookingID(b models.Booking) string { return b.ID }

func (s *BookingStore) Fetch(ctx context.Context) ([]models.Booking, error) {
	ticket := s.begin("fetch")
	raw, err := s.api.ListBookings(ctx)
	var bookings []models.Booking
	if err == nil {
		bookings = s.canonical(raw...)
	}
	applied := s.finish("fetch", ticket, err, constants.MsgFetchBookings, func([]models.Booking) []models.Booking {
		return bookings
	})
	if err != nil {
		return nil, err
	}
	if applied && s.snap != nil {
		if err := s.snap.SaveBookings(bookings); err != nil {
			s.log.Warn("failed to snapshot bookings", "err", err)
		}
	}
	return bookings, nil
}

func (s *BookingStore) Create(ctx context.Context, in models.BookingUpdate) (models.Booking, error) {
	ticket := s.begin("")
	raw, err := s.api.CreateBooking(ctx, in)
	var booking models.Booking
	if err == nil {
		booking = s.canonical(raw)[0]
	}
	s.finish("", ticket, err, constants.MsgCreateBooking, func(items []models.Booking) []models.Booking {
		return append(items, booking)
	})
	if err != nil {
		return models.Booking{}, err
	}
	return booking, nil
}

func (s *BookingStore) Update(ctx context.Context, id string, in models.BookingUpdate) (models.Booking, error) {
	key := "update:" + id
	ticket := s.begin(key)
	raw, err := s.api.UpdateBooking(ctx, id, in)
	var booking models.Booking
	if err == nil {
		booking = s.canonical(raw)[0]
	}
	s.finish(key, ticket, err, constants.MsgUpdateBooking, func(items []models.Booking) []models.Booking {
		return replaceByID(items, id, bookingID, booking)
	})
	if err != nil {
		return models.Booking{}, err
	}
	return booking, nil
}

func (s *BookingStore) Delete(ctx context.Context, id string) error {
	key := "delete:" + id
	ticket := s.begin(key)
	err := s.api.DeleteBooking(ctx, id)
	s.finish(key, ticket, err, constants.MsgDeleteBooking, func(items []models.Booking) []models.Booking {
		return removeByID(items, id, bookingID)
	})
	return err
}

// ForDate returns the bookings on date ordered by start time.
func (s *BookingStore) ForDate(date string) []models.Booking {
	return grid.BookingsOn(s.Items(), date)
}

func (s *BookingStore) Find(id string) (models.Booking, bool) {
	for _, b := range s.Items() {
		if b.ID == id {
			return b, true
		}
	}
	return models.Booking{}, false
}

// canonical maps backend documents to bookings, filling names and times that
// only came back as identifiers from what the other stores already know.
func (s *BookingStore) canonical(raw ...models.BackendBooking) []models.Booking {
	now := s.now()

	names := map[string]string{}
	if s.fields != nil {
		for _, f := range s.fields.All() {
			names[f.ID] = f.Name
		}
	}
	slots := map[string]models.Schedule{}
	if s.schedules != nil {
		for _, sc := range s.schedules.Catalog() {
			slots[sc.ID] = sc
		}
	}

	out := make([]models.Booking, 0, len(raw))
	for _, r := range raw {
		b := r.ToBooking(now)
		if !r.Field.IsExpanded() {
			if name, ok := names[b.FieldID]; ok && name != "" {
				b.Field = name
			}
		}
		if !r.Schedule.IsExpanded() {
			if slot, ok := slots[b.ScheduleID]; ok && slot.Time != "" {
				b.StartTime = slot.Time
				b.EndTime = models.EndTime(slot.Time)
				if b.Field == constants.UnknownFieldName && slot.FieldName() != "" {
					b.Field = slot.FieldName()
				}
			}
		}
		out = append(out, b)
	}
	return out
}
