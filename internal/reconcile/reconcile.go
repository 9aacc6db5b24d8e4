package reconcile

import (
	"errors"
	"slices"
	"strings"

	"github.com/b2p/b2p-admin/internal/constants"
	"github.com/b2p/b2p-admin/internal/models"
)

// ErrNoValidSchedule blocks submission when no slot matches the field and date.
var ErrNoValidSchedule = errors.New(constants.MsgNoValidSchedule)

// State holds the booking form selections that must stay consistent with
// each other and with the schedule catalog.
type State struct {
	Catalog            []models.Schedule
	OriginalScheduleID string

	FieldName  string
	FieldID    string
	Date       string
	Day        string
	ScheduleID string
	StartTime  string
	EndTime    string

	// DayFallback is set when Date could not be read and Day is the default.
	DayFallback bool
	// Options are the selectable slots for FieldName on Day, by time.
	Options []models.Schedule
}

// Event is an input change fed to Reduce.
type Event interface {
	isEvent()
}

// Init opens the form. Booking is nil when creating a new booking.
type Init struct {
	Booking *models.Booking
	Catalog []models.Schedule
	Today   string
}

// CatalogLoaded replaces the schedule catalog.
type CatalogLoaded struct {
	Catalog []models.Schedule
}

// FieldSelected changes the field and resets the slot selection.
type FieldSelected struct {
	Name string
}

// DateChanged changes the booking date.
type DateChanged struct {
	Date string
}

// ScheduleSelected is an explicit slot choice.
type ScheduleSelected struct {
	ID string
}

func (Init) isEvent()             {}
func (CatalogLoaded) isEvent()    {}
func (FieldSelected) isEvent()    {}
func (DateChanged) isEvent()      {}
func (ScheduleSelected) isEvent() {}

// Reduce computes the next state. It never mutates s.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case Init:
		next := State{Catalog: e.Catalog, Date: e.Today}
		if b := e.Booking; b != nil {
			next.FieldName = b.Field
			next.FieldID = b.FieldID
			next.ScheduleID = b.ScheduleID
			next.OriginalScheduleID = b.ScheduleID
			next.StartTime = b.StartTime
			next.EndTime = b.EndTime
			if b.Date != "" {
				next.Date = b.Date
			}
		}
		return derive(hydrate(next))

	case CatalogLoaded:
		hadCatalog := len(s.Catalog) > 0
		s.Catalog = e.Catalog
		if !hadCatalog {
			s = hydrate(s)
		}
		return derive(s)

	case FieldSelected:
		s.FieldName = e.Name
		s.FieldID = ""
		s.ScheduleID = ""
		s.StartTime = ""
		s.EndTime = ""
		return derive(s)

	case DateChanged:
		s.Date = e.Date
		return derive(s)

	case ScheduleSelected:
		for _, slot := range s.Options {
			if slot.ID == e.ID {
				return selectSlot(s, slot)
			}
		}
		return s
	}
	return s
}

// hydrate aligns the form with the booking's assigned slot when the catalog knows it.
func hydrate(s State) State {
	if s.OriginalScheduleID == "" {
		return s
	}
	for _, slot := range s.Catalog {
		if slot.ID == s.OriginalScheduleID {
			s.FieldName = slot.FieldName()
			return selectSlot(s, slot)
		}
	}
	return s
}

func derive(s State) State {
	day, ok := ParseDay(s.Date)
	s.Day, s.DayFallback = day, !ok
	s.Options = options(s)

	if len(s.Options) == 0 {
		s.ScheduleID = ""
		s.StartTime = ""
		s.EndTime = ""
		return s
	}

	pick := func(match func(models.Schedule) bool) (models.Schedule, bool) {
		i := slices.IndexFunc(s.Options, match)
		if i < 0 {
			return models.Schedule{}, false
		}
		return s.Options[i], true
	}

	if slot, ok := pick(func(o models.Schedule) bool { return s.ScheduleID != "" && o.ID == s.ScheduleID }); ok {
		return selectSlot(s, slot)
	}
	if slot, ok := pick(func(o models.Schedule) bool { return s.OriginalScheduleID != "" && o.ID == s.OriginalScheduleID }); ok {
		return selectSlot(s, slot)
	}
	if slot, ok := pick(func(o models.Schedule) bool { return s.StartTime != "" && o.Time == s.StartTime }); ok {
		return selectSlot(s, slot)
	}
	return selectSlot(s, s.Options[0])
}

// options filters the catalog to FieldName and Day, keeping the booking's own
// slot even when the catalog marks it unavailable.
func options(s State) []models.Schedule {
	if s.FieldName == "" {
		return nil
	}
	var out []models.Schedule
	for _, slot := range s.Catalog {
		if slot.FieldName() != s.FieldName || slot.Day != s.Day {
			continue
		}
		own := s.OriginalScheduleID != "" && slot.ID == s.OriginalScheduleID
		if slot.Available || own {
			out = append(out, slot)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Schedule) int {
		return strings.Compare(a.Time, b.Time)
	})
	return out
}

func selectSlot(s State, slot models.Schedule) State {
	s.ScheduleID = slot.ID
	s.FieldID = slot.Field.ID
	s.StartTime = slot.Time
	s.EndTime = models.EndTime(slot.Time)
	return s
}

// Details are the free-text members of the booking form.
type Details struct {
	Client string
	Tel    string
}

// Submit turns a reconciled state into the backend update body.
func Submit(s State, d Details) (models.BookingUpdate, error) {
	if s.FieldID == "" || s.ScheduleID == "" || s.StartTime == "" {
		return models.BookingUpdate{}, ErrNoValidSchedule
	}
	return models.BookingUpdate{
		Field:       s.FieldID,
		Schedule:    s.ScheduleID,
		PlayerName:  strings.TrimSpace(d.Client),
		Tel:         strings.TrimSpace(d.Tel),
		BookingDate: s.Date,
	}, nil
}

// FieldOptions lists selectable field names, adding the booking's own field
// when the list lacks it.
func FieldOptions(names []string, current string) []string {
	out := slices.Clone(names)
	if current != "" && !slices.Contains(out, current) {
		out = append(out, current)
	}
	return out
}
