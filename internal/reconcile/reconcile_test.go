package reconcile

import (
	"errors"
	"reflect"
	"testing"

	"github.com/b2p/b2p-admin/internal/models"
)

func slot(id, fieldID, field, day, time string, available bool) models.Schedule {
	return models.Schedule{
		ID:        id,
		Field:     models.Expand(models.FieldSummary{ID: fieldID, Name: field}),
		Day:       day,
		Time:      time,
		Available: available,
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		date   string
		want   string
		wantOK bool
	}{
		{date: "2025-03-10", want: "Lunes", wantOK: true},
		{date: "10/03/2025", want: "Lunes", wantOK: true},
		{date: "2025-03-16", want: "Domingo", wantOK: true},
		{date: "15/03/2025", want: "Sábado", wantOK: true},
		{date: "not a date", want: "Lunes", wantOK: false},
		{date: "", want: "Lunes", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, ok := ParseDay(tt.date)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseDay(%q) = %q, %v; want %q, %v", tt.date, got, ok, tt.want, tt.wantOK)
			}
			if DayName(tt.date) != tt.want {
				t.Errorf("DayName(%q) = %q", tt.date, DayName(tt.date))
			}
		})
	}
}

func TestFirstAvailableSlotSelected(t *testing.T) {
	catalog := []models.Schedule{
		slot("s8", "f1", "C1", "Lunes", "08:00", false),
		slot("s9", "f1", "C1", "Lunes", "09:00", true),
	}

	s := Reduce(State{}, Init{Catalog: catalog, Today: "2025-03-10"})
	s = Reduce(s, FieldSelected{Name: "C1"})

	if s.ScheduleID != "s9" || s.StartTime != "09:00" || s.EndTime != "10:00" {
		t.Errorf("selection = %s %s-%s, want s9 09:00-10:00", s.ScheduleID, s.StartTime, s.EndTime)
	}
	if s.FieldID != "f1" {
		t.Errorf("FieldID = %q", s.FieldID)
	}
	if len(s.Options) != 1 {
		t.Errorf("Options = %v, want only the available slot", s.Options)
	}
}

func TestEditKeepsOwnUnavailableSlot(t *testing.T) {
	catalog := []models.Schedule{
		slot("s9", "f1", "C1", "Lunes", "09:00", true),
		slot("s18", "f1", "C1", "Lunes", "18:00", false),
		slot("s19", "f1", "C1", "Lunes", "19:00", false),
	}
	booking := &models.Booking{ID: "b1", Date: "2025-03-10", Field: "C1", FieldID: "f1", ScheduleID: "s18", StartTime: "18:00", EndTime: "19:00"}

	s := Reduce(State{}, Init{Booking: booking, Catalog: catalog, Today: "2025-03-01"})

	ids := optionIDs(s)
	if !reflect.DeepEqual(ids, []string{"s9", "s18"}) {
		t.Errorf("Options = %v, want [s9 s18]", ids)
	}
	if s.ScheduleID != "s18" || s.StartTime != "18:00" || s.EndTime != "19:00" {
		t.Errorf("selection = %s %s-%s, want own slot", s.ScheduleID, s.StartTime, s.EndTime)
	}
}

func TestHydrationFromCatalog(t *testing.T) {
	catalog := []models.Schedule{
		slot("s20", "f2", "C2", "Lunes", "20:00", false),
	}
	// The booking only knows ids; names come from the catalog.
	booking := &models.Booking{ID: "b1", Date: "2025-03-10", Field: "Cancha desconocida", FieldID: "f2", ScheduleID: "s20"}

	s := Reduce(State{}, Init{Booking: booking})
	if s.OriginalScheduleID != "s20" {
		t.Fatalf("OriginalScheduleID = %q", s.OriginalScheduleID)
	}

	s = Reduce(s, CatalogLoaded{Catalog: catalog})
	if s.FieldName != "C2" || s.ScheduleID != "s20" || s.StartTime != "20:00" || s.EndTime != "21:00" {
		t.Errorf("hydrated = %+v", s)
	}
}

func TestSelectionPriority(t *testing.T) {
	catalog := []models.Schedule{
		slot("s10", "f1", "C1", "Lunes", "10:00", true),
		slot("s11", "f1", "C1", "Lunes", "11:00", true),
		slot("s12", "f1", "C1", "Lunes", "12:00", true),
		slot("m11", "f1", "C1", "Martes", "11:00", true),
	}
	booking := &models.Booking{Date: "2025-03-10", Field: "C1", ScheduleID: "s11", StartTime: "11:00"}

	s := Reduce(State{}, Init{Booking: booking, Catalog: catalog})
	if s.ScheduleID != "s11" {
		t.Fatalf("initial selection = %q, want original", s.ScheduleID)
	}

	s = Reduce(s, ScheduleSelected{ID: "s12"})
	if s.ScheduleID != "s12" || s.EndTime != "13:00" {
		t.Errorf("explicit choice = %s, end %s", s.ScheduleID, s.EndTime)
	}

	// Explicit choice survives re-derivation.
	s = Reduce(s, CatalogLoaded{Catalog: catalog})
	if s.ScheduleID != "s12" {
		t.Errorf("after reload = %q, want s12", s.ScheduleID)
	}

	// Choosing a slot outside the options is ignored.
	s = Reduce(s, ScheduleSelected{ID: "m11"})
	if s.ScheduleID != "s12" {
		t.Errorf("foreign choice applied: %q", s.ScheduleID)
	}

	// Moving to Tuesday lands on the first Tuesday slot.
	s = Reduce(s, DateChanged{Date: "2025-03-11"})
	if s.Day != "Martes" || s.ScheduleID != "m11" {
		t.Errorf("after date change = %s on %s", s.ScheduleID, s.Day)
	}
}

func TestFieldChangeResetsAndEmptyOptionsClear(t *testing.T) {
	catalog := []models.Schedule{
		slot("a", "f1", "C1", "Lunes", "10:00", true),
		slot("b", "f2", "C2", "Lunes", "15:00", true),
		slot("c", "f2", "C2", "Lunes", "14:00", true),
	}

	s := Reduce(State{}, Init{Catalog: catalog, Today: "2025-03-10"})
	s = Reduce(s, FieldSelected{Name: "C1"})
	if s.ScheduleID != "a" {
		t.Fatalf("ScheduleID = %q", s.ScheduleID)
	}

	s = Reduce(s, FieldSelected{Name: "C2"})
	if s.ScheduleID != "c" || s.StartTime != "14:00" || s.FieldID != "f2" {
		t.Errorf("after field change = %+v, want earliest C2 slot", s)
	}

	s = Reduce(s, FieldSelected{Name: "C9"})
	if s.ScheduleID != "" || s.StartTime != "" || s.EndTime != "" || len(s.Options) != 0 {
		t.Errorf("empty options should clear selection: %+v", s)
	}

	_, err := Submit(s, Details{Client: "Juan"})
	if !errors.Is(err, ErrNoValidSchedule) {
		t.Errorf("Submit() error = %v, want ErrNoValidSchedule", err)
	}
}

func TestUnparseableDateFallsBack(t *testing.T) {
	catalog := []models.Schedule{slot("a", "f1", "C1", "Lunes", "10:00", true)}

	s := Reduce(State{}, Init{Catalog: catalog, Today: "mañana"})
	s = Reduce(s, FieldSelected{Name: "C1"})

	if s.Day != "Lunes" || !s.DayFallback {
		t.Errorf("Day = %q, fallback %v", s.Day, s.DayFallback)
	}
	if s.ScheduleID != "a" {
		t.Errorf("ScheduleID = %q", s.ScheduleID)
	}
}

func TestSubmit(t *testing.T) {
	catalog := []models.Schedule{slot("s9", "f1", "C1", "Lunes", "09:00", true)}
	s := Reduce(State{}, Init{Catalog: catalog, Today: "2025-03-10"})
	s = Reduce(s, FieldSelected{Name: "C1"})

	got, err := Submit(s, Details{Client: " Juan Pérez ", Tel: "11 5555"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	want := models.BookingUpdate{Field: "f1", Schedule: "s9", PlayerName: "Juan Pérez", Tel: "11 5555", BookingDate: "2025-03-10"}
	if got != want {
		t.Errorf("Submit() = %+v, want %+v", got, want)
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	catalog := []models.Schedule{slot("s9", "f1", "C1", "Lunes", "09:00", true)}
	before := Reduce(State{}, Init{Catalog: catalog, Today: "2025-03-10"})
	snapshot := before

	_ = Reduce(before, FieldSelected{Name: "C1"})
	if !reflect.DeepEqual(before, snapshot) {
		t.Error("Reduce mutated its input state")
	}
}

func TestFieldOptions(t *testing.T) {
	got := FieldOptions([]string{"C1", "C2"}, "C7")
	if !reflect.DeepEqual(got, []string{"C1", "C2", "C7"}) {
		t.Errorf("FieldOptions() = %v", got)
	}
	got = FieldOptions([]string{"C1"}, "C1")
	if !reflect.DeepEqual(got, []string{"C1"}) {
		t.Errorf("FieldOptions() = %v", got)
	}
}

func optionIDs(s State) []string {
	ids := make([]string, 0, len(s.Options))
	for _, o := range s.Options {
		ids = append(ids, o.ID)
	}
	return ids
}
