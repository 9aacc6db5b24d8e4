package bookings

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/b2p/b2p-admin/internal/cli"
	"github.com/b2p/b2p-admin/internal/constants"
	"github.com/b2p/b2p-admin/internal/grid"
	"github.com/b2p/b2p-admin/internal/models"
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

// DayCmd prints the availability grid of one date.
type DayCmd struct {
	Date    string `short:"d" help:"Date to show (YYYY-MM-DD or DD/MM/YYYY). Defaults to today."`
	Offset  int    `short:"o" help:"Days from today, e.g. -1 for yesterday." default:"0"`
	Offline bool   `help:"Read the local cache instead of the backend."`
}

func (c *DayCmd) Validate() error {
	if c.Date != "" && c.Offset != 0 {
		return fmt.Errorf("--date and --offset cannot be used together")
	}
	return nil
}

func (c *DayCmd) day(now time.Time) (string, time.Time, error) {
	if c.Date == "" {
		date, t := grid.DateWithOffset(now, c.Offset)
		return date, t, nil
	}
	date := normalizeDate(c.Date)
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", c.Date)
	}
	return date, t, nil
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	date, t, err := c.day(ctx.Now())
	if err != nil {
		return err
	}

	bookings, src, err := ctx.LoadBookings(c.Offline)
	if err != nil {
		return err
	}
	ctx.Notice(src)

	ctx.Println(titleStyle.Render(grid.DateLabel(t)))
	ctx.Println()
	ctx.Print(render(date, ctx.Fields.All(), bookings))
	return nil
}

func render(date string, fields []models.Field, bookings []models.Booking) string {
	day := grid.BookingsOn(bookings, date)
	names := grid.ResolveFieldNames(fields, day)
	g := grid.Project(date, day, names, grid.DefaultHours())
	return fmt.Sprintf("%s\n%d reservas · %d horas ocupadas\n", g.Render(nil), len(day), g.Occupied())
}
