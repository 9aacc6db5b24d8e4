package grid

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/b2p/b2p-admin/internal/constants"
	"github.com/b2p/b2p-admin/internal/models"
)

// Grid is the occupancy table of one calendar date: field name × hour label.
type Grid struct {
	Date   string
	Fields []string
	Hours  []string
	cells  map[string]models.Booking
}

// Key is the composite cell key "field-HH:00".
func Key(field, hour string) string {
	return field + "-" + hour
}

// Project stamps every booking over the hours in [start, end) of its field.
// Overlapping bookings on the same cell keep the last one processed.
func Project(date string, bookings []models.Booking, fields, hours []string) Grid {
	g := Grid{
		Date:   date,
		Fields: fields,
		Hours:  hours,
		cells:  make(map[string]models.Booking),
	}
	for _, b := range bookings {
		start, ok := models.ParseHour(b.StartTime)
		if !ok {
			continue
		}
		end, ok := models.ParseHour(b.EndTime)
		if !ok {
			continue
		}
		for h := start; h < end; h++ {
			g.cells[Key(b.Field, fmt.Sprintf("%02d:00", h))] = b
		}
	}
	return g
}

// At returns the booking occupying a cell.
func (g Grid) At(field, hour string) (models.Booking, bool) {
	b, ok := g.cells[Key(field, hour)]
	return b, ok
}

// Occupied counts stamped cells that fall inside the grid's fields and hours.
func (g Grid) Occupied() int {
	n := 0
	for _, f := range g.Fields {
		for _, h := range g.Hours {
			if _, ok := g.cells[Key(f, h)]; ok {
				n++
			}
		}
	}
	return n
}

// Hours returns "HH:00" labels for every hour in [from, to].
func Hours(from, to int) []string {
	hours := make([]string, 0, to-from+1)
	for h := from; h <= to; h++ {
		hours = append(hours, fmt.Sprintf("%02d:00", h))
	}
	return hours
}

// DefaultHours covers the bookable slot catalog.
func DefaultHours() []string {
	return Hours(constants.SlotFirstHour, constants.SlotLastHour)
}

// NextHourLabel returns the label one hour after hour, or hour unchanged when
// it cannot be parsed.
func NextHourLabel(hour string) string {
	h, ok := models.ParseHour(hour)
	if !ok {
		return hour
	}
	return fmt.Sprintf("%02d:00", h+1)
}

// ResolveFieldNames picks the grid columns: active fields, else all fields,
// else the fields seen in bookings, else a fixed placeholder list.
func ResolveFieldNames(fields []models.Field, bookings []models.Booking) []string {
	var active, all []string
	for _, f := range fields {
		all = append(all, f.Name)
		if f.IsActive {
			active = append(active, f.Name)
		}
	}
	if len(active) > 0 {
		return active
	}
	if len(all) > 0 {
		return all
	}

	var seen []string
	for _, b := range bookings {
		if !slices.Contains(seen, b.Field) {
			seen = append(seen, b.Field)
		}
	}
	if len(seen) > 0 {
		return seen
	}
	return slices.Clone(constants.PlaceholderFields)
}

// BookingsOn returns the bookings of one date ordered by start time.
func BookingsOn(bookings []models.Booking, date string) []models.Booking {
	var out []models.Booking
	for _, b := range bookings {
		if b.Date == date {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Booking) int {
		return strings.Compare(a.StartTime, b.StartTime)
	})
	return out
}

// ClientShortName abbreviates "Juan Pérez" to "Juan P.".
func ClientShortName(client string) string {
	parts := strings.Fields(client)
	switch len(parts) {
	case 0:
		return client
	case 1:
		return parts[0]
	default:
		initial := []rune(parts[1])[0]
		return fmt.Sprintf("%s %c.", parts[0], initial)
	}
}

var months = []string{"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio", "Julio",
	"Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre"}

// DateLabel renders a date as "Lunes 10 De Marzo".
func DateLabel(t time.Time) string {
	return fmt.Sprintf("%s %d De %s", constants.Days[t.Weekday()], t.Day(), months[t.Month()-1])
}

// DateWithOffset returns the date key offset days from now.
func DateWithOffset(now time.Time, offset int) (string, time.Time) {
	d := now.AddDate(0, 0, offset)
	return d.Format(constants.DateFormat), d
}
