package schedules

import (
	"cmp"
	"slices"

	"github.com/b2p/b2p-admin/internal/cli"
	"github.com/b2p/b2p-admin/internal/constants"
	"github.com/b2p/b2p-admin/internal/models"
)

type ListCmd struct {
	Field     string `short:"f" help:"Only slots of this field name."`
	Day       string `short:"d" help:"Only slots of this weekday (Lunes, Martes, ...)."`
	Available bool   `short:"a" help:"Only slots still available."`
	Offline   bool   `help:"Read the local cache instead of the backend."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	if _, _, err := ctx.LoadSchedules(c.Offline); err != nil {
		return err
	}

	var shown []models.Schedule
	for _, sc := range ctx.Schedules.ForField(c.Field, c.Day) {
		if c.Available && !sc.Available {
			continue
		}
		shown = append(shown, sc)
	}
	if len(shown) == 0 {
		ctx.Println("No hay horarios")
		return nil
	}

	slices.SortStableFunc(shown, func(a, b models.Schedule) int {
		return cmp.Or(
			cmp.Compare(a.FieldName(), b.FieldName()),
			cmp.Compare(dayIndex(a.Day), dayIndex(b.Day)),
			cmp.Compare(a.Time, b.Time),
		)
	})

	rows := make([][]string, 0, len(shown))
	for _, sc := range shown {
		rows = append(rows, []string{sc.ID, sc.FieldName(), sc.Day, sc.Time + "-" + models.EndTime(sc.Time), available(sc.Available)})
	}
	ctx.Println(cli.Table([]string{"ID", "Cancha", "Día", "Horario", "Disponible"}, rows))
	return nil
}

// dayIndex orders weekdays Monday first; unknown names go last.
func dayIndex(day string) int {
	i := slices.Index(constants.Days, day)
	if i < 0 {
		return len(constants.Days)
	}
	return (i + 6) % 7
}

func available(ok bool) string {
	if ok {
		return "sí"
	}
	return "no"
}
