package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/b2p/b2p-admin/internal/constants"
	"github.com/b2p/b2p-admin/internal/models"
	"github.com/b2p/b2p-admin/internal/store"
)

var _ store.Snapshotter = (*Store)(nil)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "nested", "cache.db"))
	s.now = func() time.Time { return time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC) }
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestFieldsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, _, err := s.LoadFields(ctx); !errors.Is(err, ErrEmpty) {
		t.Fatalf("LoadFields() on empty cache error = %v", err)
	}

	fields := []models.Field{
		{ID: "f1", Name: "C1", Type: constants.FieldType5, PricePerHour: 12000, IsActive: true},
		{ID: "f2", Name: "Pádel", Type: constants.FieldTypePadel, PricePerHour: 8000.5},
	}
	if err := s.SaveFields(fields); err != nil {
		t.Fatalf("SaveFields() error = %v", err)
	}

	got, fetchedAt, err := s.LoadFields(ctx)
	if err != nil {
		t.Fatalf("LoadFields() error = %v", err)
	}
	if len(got) != 2 || got[1].Name != "Pádel" || got[1].PricePerHour != 8000.5 || !got[0].IsActive {
		t.Errorf("LoadFields() = %+v", got)
	}
	if !fetchedAt.Equal(s.now()) {
		t.Errorf("fetchedAt = %v", fetchedAt)
	}

	// A new save replaces the snapshot instead of merging.
	if err := s.SaveFields(fields[:1]); err != nil {
		t.Fatalf("SaveFields() error = %v", err)
	}
	got, _, _ = s.LoadFields(ctx)
	if len(got) != 1 {
		t.Errorf("after replace = %+v", got)
	}
}

func TestBookingsByDate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	bookings := []models.Booking{
		{ID: "b1", Date: "2025-03-10", Field: "C1", Client: "Juan", StartTime: "09:00", EndTime: "10:00"},
		{ID: "b2", Date: "2025-03-11", Field: "C1", Client: "Ana", StartTime: "10:00", EndTime: "11:00"},
	}
	if err := s.SaveBookings(bookings); err != nil {
		t.Fatalf("SaveBookings() error = %v", err)
	}

	all, _, err := s.LoadBookings(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("LoadBookings(all) = %v, %v", all, err)
	}
	day, _, err := s.LoadBookings(ctx, "2025-03-11")
	if err != nil || len(day) != 1 || day[0].Client != "Ana" {
		t.Errorf("LoadBookings(day) = %+v, %v", day, err)
	}
}

func TestSchedulesKeepFieldReference(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	schedules := []models.Schedule{
		{ID: "s1", Field: models.Expand(models.FieldSummary{ID: "f1", Name: "C1"}), Day: "Lunes", Time: "08:00", Available: true},
		{ID: "s2", Field: models.RefTo[models.FieldSummary]("f2"), Day: "Martes", Time: "09:00"},
	}
	if err := s.SaveSchedules(schedules); err != nil {
		t.Fatalf("SaveSchedules() error = %v", err)
	}

	got, _, err := s.LoadSchedules(ctx)
	if err != nil {
		t.Fatalf("LoadSchedules() error = %v", err)
	}
	if got[0].FieldName() != "C1" || got[0].Field.ID != "f1" || !got[0].Available {
		t.Errorf("expanded schedule = %+v", got[0])
	}
	if got[1].Field.IsExpanded() || got[1].Field.ID != "f2" {
		t.Errorf("bare schedule = %+v", got[1])
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.SaveFields([]models.Field{{ID: "f1"}})
	_ = s.SaveBookings([]models.Booking{{ID: "b1", Date: "2025-03-10"}})

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, _, err := s.LoadFields(ctx); !errors.Is(err, ErrEmpty) {
		t.Errorf("fields survived Clear: %v", err)
	}
	if _, _, err := s.LoadBookings(ctx, ""); !errors.Is(err, ErrEmpty) {
		t.Errorf("bookings survived Clear: %v", err)
	}
}

func TestReopenKeepsSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	first := NewStore(path)
	if err := first.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	_ = first.SaveFields([]models.Field{{ID: "f1", Name: "C1"}})
	first.Close()

	second := NewStore(path)
	if err := second.Init(ctx); err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	defer second.Close()

	got, _, err := second.LoadFields(ctx)
	if err != nil || len(got) != 1 {
		t.Errorf("LoadFields() after reopen = %v, %v", got, err)
	}
}

func TestUninitialized(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "cache.db"))
	if err := s.SaveFields(nil); err == nil {
		t.Error("expected error before Init")
	}
}

func TestVersionAndPing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	current, latest, err := s.Version(ctx)
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if current != latest || latest < 1 {
		t.Errorf("Version() = %d, %d", current, latest)
	}
}
