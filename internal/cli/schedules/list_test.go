package schedules

import (
	"bytes"
	"strings"
	"testing"

	"github.com/b2p/b2p-admin/internal/cli/clitest"
)

func TestListCmd(t *testing.T) {
	backend := clitest.NewBackend(t)
	backend.Schedules[1].Available = false

	var out bytes.Buffer
	if err := (&ListCmd{Field: "Cancha 1", Available: true}).Run(backend.Context(t, &out)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "s-f1-Lunes-1800") || !strings.Contains(got, "s-f1-Lunes-2000") {
		t.Errorf("missing available slots:\n%s", got)
	}
	if strings.Contains(got, "s-f1-Lunes-1900") || strings.Contains(got, "Cancha 2") {
		t.Errorf("unexpected slots listed:\n%s", got)
	}
	if strings.Index(got, "18:00") > strings.Index(got, "20:00") {
		t.Errorf("slots not ordered by time:\n%s", got)
	}

	out.Reset()
	if err := (&ListCmd{Day: "Martes"}).Run(backend.Context(t, &out)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "No hay horarios") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestDayIndex(t *testing.T) {
	tests := map[string]int{
		"Lunes":   0,
		"Sábado":  5,
		"Domingo": 6,
		"Feriado": 7,
	}
	for day, want := range tests {
		if got := dayIndex(day); got != want {
			t.Errorf("dayIndex(%q) = %d, want %d", day, got, want)
		}
	}
}
