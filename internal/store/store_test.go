package store

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/b2p/b2p-admin/internal/constants"
	apperrors "github.com/b2p/b2p-admin/internal/errors"
	"github.com/b2p/b2p-admin/internal/models"
)

type fakeFieldAPI struct {
	mu      sync.Mutex
	list    func(call int) ([]models.Field, error)
	calls   int
	created models.Field
	bulk    []models.BulkSchedules
	bulkErr error
	update  func(id string, patch models.FieldPatch) (models.Field, error)
	softErr error
}

func (f *fakeFieldAPI) ListFields(ctx context.Context, filter models.FieldFilter) ([]models.Field, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	return f.list(call)
}

func (f *fakeFieldAPI) CreateField(ctx context.Context, in models.FieldInput) (models.Field, error) {
	return f.created, nil
}

func (f *fakeFieldAPI) UpdateField(ctx context.Context, id string, patch models.FieldPatch) (models.Field, error) {
	return f.update(id, patch)
}

func (f *fakeFieldAPI) SoftDeleteField(ctx context.Context, id string) error {
	return f.softErr
}

func (f *fakeFieldAPI) BulkCreateSchedules(ctx context.Context, in models.BulkSchedules) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulk = append(f.bulk, in)
	return f.bulkErr
}

type recordingSnap struct {
	fields    []models.Field
	bookings  []models.Booking
	schedules []models.Schedule
}

func (r *recordingSnap) SaveFields(v []models.Field) error        { r.fields = v; return nil }
func (r *recordingSnap) SaveBookings(v []models.Booking) error    { r.bookings = v; return nil }
func (r *recordingSnap) SaveSchedules(v []models.Schedule) error { r.schedules = v; return nil }

func TestFieldFetch(t *testing.T) {
	snap := &recordingSnap{}
	api := &fakeFieldAPI{list: func(int) ([]models.Field, error) {
		return []models.Field{{ID: "f1", Name: "C1", IsActive: true}}, nil
	}}
	s := NewFieldStore(api, snap)

	if _, err := s.Fetch(context.Background(), models.FieldFilter{}); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	st := s.State()
	if st.Status != Succeeded || len(st.Items) != 1 || st.Error != "" {
		t.Errorf("state = %+v", st)
	}
	if len(snap.fields) != 1 {
		t.Errorf("snapshot not written: %v", snap.fields)
	}

	snap.fields = nil
	if _, err := s.Fetch(context.Background(), models.FieldFilter{Type: constants.FieldType5}); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if snap.fields != nil {
		t.Error("filtered fetch should not overwrite the snapshot")
	}
}

func TestFieldFetchFailureKeepsItems(t *testing.T) {
	api := &fakeFieldAPI{list: func(call int) ([]models.Field, error) {
		if call == 1 {
			return []models.Field{{ID: "f1", Name: "C1"}}, nil
		}
		return nil, apperrors.NewAPIError(http.StatusInternalServerError, "Servidor caído", constants.MsgFetchFields)
	}}
	s := NewFieldStore(api, nil)

	_, _ = s.Fetch(context.Background(), models.FieldFilter{})
	if _, err := s.Fetch(context.Background(), models.FieldFilter{}); err == nil {
		t.Fatal("expected error")
	}

	st := s.State()
	if st.Status != Failed || st.Error != "Servidor caído" {
		t.Errorf("state = %+v", st)
	}
	if len(st.Items) != 1 {
		t.Errorf("items cleared on failure: %v", st.Items)
	}
}

func TestFieldCreateSeedsSchedules(t *testing.T) {
	api := &fakeFieldAPI{created: models.Field{ID: "f9", Name: "Nueva", IsActive: true}}
	s := NewFieldStore(api, nil)

	field, err := s.Create(context.Background(), models.FieldInput{Name: "Nueva"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if field.ID != "f9" || len(s.All()) != 1 {
		t.Errorf("created = %+v, items = %v", field, s.All())
	}
	if len(api.bulk) != 1 {
		t.Fatalf("bulk calls = %d", len(api.bulk))
	}
	bulk := api.bulk[0]
	if bulk.FieldID != "f9" || len(bulk.Days) != 7 || len(bulk.Times) != 16 {
		t.Errorf("bulk = %+v", bulk)
	}
	if bulk.Times[0] != "08:00" || bulk.Times[15] != "23:00" {
		t.Errorf("times = %v", bulk.Times)
	}
}

func TestFieldCreateSurvivesSeedFailure(t *testing.T) {
	api := &fakeFieldAPI{
		created: models.Field{ID: "f9", Name: "Nueva"},
		bulkErr: errors.New("schedules down"),
	}
	s := NewFieldStore(api, nil)

	if _, err := s.Create(context.Background(), models.FieldInput{Name: "Nueva"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	st := s.State()
	if st.Status != Succeeded || st.Error != "" || len(st.Items) != 1 {
		t.Errorf("state = %+v", st)
	}
}

func TestFieldSoftDeleteFlagsInactive(t *testing.T) {
	s := NewFieldStore(&fakeFieldAPI{}, nil)
	s.Seed([]models.Field{{ID: "f1", IsActive: true}, {ID: "f2", IsActive: true}})

	if err := s.SoftDelete(context.Background(), "f1"); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}
	if len(s.Active()) != 1 || len(s.Inactive()) != 1 || s.Inactive()[0].ID != "f1" {
		t.Errorf("active = %v inactive = %v", s.Active(), s.Inactive())
	}

	stats := s.Stats()
	if stats.Total != 2 || stats.Active != 1 || stats.Inactive != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestStaleUpdateDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	api := &fakeFieldAPI{update: func(id string, patch models.FieldPatch) (models.Field, error) {
		if *patch.Name == "lenta" {
			close(started)
			<-release
		}
		return patch.Apply(models.Field{ID: id}), nil
	}}
	s := NewFieldStore(api, nil)
	s.Seed([]models.Field{{ID: "f1", Name: "original"}})

	slow, fast := "lenta", "rapida"
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.Update(context.Background(), "f1", models.FieldPatch{Name: &slow})
	}()

	<-started
	if _, err := s.Update(context.Background(), "f1", models.FieldPatch{Name: &fast}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	close(release)
	<-done

	if got := s.All()[0].Name; got != "rapida" {
		t.Errorf("name = %q, want the newer update to win", got)
	}
}

type fakeBookingAPI struct {
	list    []models.BackendBooking
	listErr error
	deleted []string
}

func (f *fakeBookingAPI) ListBookings(ctx context.Context) ([]models.BackendBooking, error) {
	return f.list, f.listErr
}

func (f *fakeBookingAPI) CreateBooking(ctx context.Context, in models.BookingUpdate) (models.BackendBooking, error) {
	return models.BackendBooking{
		ID:          "new",
		Field:       models.RefTo[models.FieldSummary](in.Field),
		Schedule:    models.RefTo[models.ScheduleSummary](in.Schedule),
		PlayerName:  in.PlayerName,
		BookingDate: in.BookingDate,
	}, nil
}

func (f *fakeBookingAPI) UpdateBooking(ctx context.Context, id string, in models.BookingUpdate) (models.BackendBooking, error) {
	b, _ := f.CreateBooking(ctx, in)
	b.ID = id
	return b, nil
}

func (f *fakeBookingAPI) DeleteBooking(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type staticFields []models.Field

func (s staticFields) All() []models.Field { return s }

type staticCatalog []models.Schedule

func (s staticCatalog) Catalog() []models.Schedule { return s }

func TestBookingFetchResolvesBareReferences(t *testing.T) {
	api := &fakeBookingAPI{list: []models.BackendBooking{
		{
			ID:          "b1",
			Field:       models.RefTo[models.FieldSummary]("f1"),
			Schedule:    models.RefTo[models.ScheduleSummary]("s18"),
			PlayerName:  "Juan",
			BookingDate: "2025-03-10T00:00:00.000Z",
		},
		{
			ID:          "b2",
			Field:       models.Expand(models.FieldSummary{ID: "f2", Name: "C2"}),
			Schedule:    models.Expand(models.ScheduleSummary{ID: "s9", Day: "Lunes", Time: "09:00"}),
			BookingDate: "2025-03-10",
		},
	}}
	fields := staticFields{{ID: "f1", Name: "C1"}}
	catalog := staticCatalog{{ID: "s18", Time: "18:00", Day: "Lunes"}}
	snap := &recordingSnap{}
	s := NewBookingStore(api, fields, catalog, snap)

	got, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got[0].Field != "C1" || got[0].StartTime != "18:00" || got[0].EndTime != "19:00" || got[0].Date != "2025-03-10" {
		t.Errorf("bare booking = %+v", got[0])
	}
	if got[1].Field != "C2" || got[1].Client != constants.UnknownClientName || got[1].StartTime != "09:00" {
		t.Errorf("expanded booking = %+v", got[1])
	}
	if len(snap.bookings) != 2 {
		t.Errorf("snapshot = %v", snap.bookings)
	}
	if day := s.ForDate("2025-03-10"); len(day) != 2 || day[0].ID != "b2" {
		t.Errorf("ForDate() = %+v", day)
	}
}

func TestBookingFetchInvalidBody(t *testing.T) {
	api := &fakeBookingAPI{listErr: apperrors.NewAPIError(http.StatusBadGateway, constants.MsgInvalidBookingsBody, "")}
	s := NewBookingStore(api, nil, nil, nil)
	s.Seed([]models.Booking{{ID: "b1"}})

	if _, err := s.Fetch(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	st := s.State()
	if st.Error != constants.MsgInvalidBookingsBody || len(st.Items) != 1 {
		t.Errorf("state = %+v", st)
	}
}

func TestBookingMutations(t *testing.T) {
	api := &fakeBookingAPI{}
	s := NewBookingStore(api, staticFields{{ID: "f1", Name: "C1"}}, nil, nil)
	s.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }

	created, err := s.Create(context.Background(), models.BookingUpdate{Field: "f1", Schedule: "s1", PlayerName: "Ana", BookingDate: "2025-03-11"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Field != "C1" || len(s.Items()) != 1 {
		t.Errorf("created = %+v", created)
	}

	updated, err := s.Update(context.Background(), "new", models.BookingUpdate{Field: "f1", PlayerName: "Ana María", BookingDate: "2025-03-12"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if b, _ := s.Find("new"); b.Client != "Ana María" || b.Date != "2025-03-12" || updated.ID != "new" {
		t.Errorf("after update = %+v", b)
	}

	if err := s.Delete(context.Background(), "new"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(s.Items()) != 0 || len(api.deleted) != 1 {
		t.Errorf("after delete items = %v", s.Items())
	}
}

type fakeScheduleAPI struct{ list []models.Schedule }

func (f fakeScheduleAPI) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	return f.list, nil
}

func TestScheduleForField(t *testing.T) {
	c1 := models.Expand(models.FieldSummary{ID: "f1", Name: "C1"})
	c2 := models.Expand(models.FieldSummary{ID: "f2", Name: "C2"})
	s := NewScheduleStore(fakeScheduleAPI{list: []models.Schedule{
		{ID: "a", Field: c1, Day: "Lunes", Time: "08:00"},
		{ID: "b", Field: c1, Day: "Martes", Time: "08:00"},
		{ID: "c", Field: c2, Day: "Lunes", Time: "08:00"},
	}}, nil)

	if _, err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got := s.ForField("C1", ""); len(got) != 2 {
		t.Errorf("ForField(C1) = %v", got)
	}
	if got := s.ForField("C1", "Martes"); len(got) != 1 || got[0].ID != "b" {
		t.Errorf("ForField(C1, Martes) = %v", got)
	}
	if len(s.Catalog()) != 3 {
		t.Errorf("Catalog() = %v", s.Catalog())
	}
}
