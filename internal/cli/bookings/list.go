package bookings

import (
	"cmp"
	"slices"

	"github.com/b2p/b2p-admin/internal/cli"
	"github.com/b2p/b2p-admin/internal/models"
)

type ListCmd struct {
	Date    string `short:"d" help:"Only bookings of this date (YYYY-MM-DD or DD/MM/YYYY)."`
	Offline bool   `help:"Read the local cache instead of the backend."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	bookings, src, err := ctx.LoadBookings(c.Offline)
	if err != nil {
		return err
	}
	ctx.Notice(src)

	shown := filterByDate(bookings, normalizeDate(c.Date))
	if len(shown) == 0 {
		ctx.Println("No hay reservas")
		return nil
	}

	rows := make([][]string, 0, len(shown))
	for _, b := range shown {
		rows = append(rows, []string{b.ID, b.Date, b.StartTime + "-" + b.EndTime, b.Field, b.Client, b.Tel})
	}
	ctx.Println(cli.Table([]string{"ID", "Fecha", "Horario", "Cancha", "Cliente", "Teléfono"}, rows))
	ctx.Printf("%d reservas\n", len(shown))
	return nil
}

// filterByDate keeps the bookings of date, or all of them when date is empty,
// ordered by date and start time.
func filterByDate(bookings []models.Booking, date string) []models.Booking {
	var out []models.Booking
	for _, b := range bookings {
		if date == "" || b.Date == date {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Booking) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.StartTime, b.StartTime))
	})
	return out
}
