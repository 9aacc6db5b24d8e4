package constants

import "fmt"

// Days are the Spanish weekday names indexed by time.Weekday (Sunday first).
var Days = []string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

// DefaultDay is used when a date cannot be mapped to a weekday.
const DefaultDay = "Lunes"

const (
	// First and last hourly slot created for a new field.
	SlotFirstHour = 8
	SlotLastHour  = 23

	// Default booking start when the backend omits the schedule time.
	DefaultStartTime = "08:00"
	// Default booking end when the start time cannot be parsed.
	DefaultEndTime = "09:00"
)

// SlotTimes returns the "HH:00" labels of the standard hourly catalog.
func SlotTimes() []string {
	times := make([]string, 0, SlotLastHour-SlotFirstHour+1)
	for h := SlotFirstHour; h <= SlotLastHour; h++ {
		times = append(times, fmt.Sprintf("%02d:00", h))
	}
	return times
}
