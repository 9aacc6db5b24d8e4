package bookings

import (
	"fmt"

	"github.com/b2p/b2p-admin/internal/cli"
	"github.com/b2p/b2p-admin/internal/constants"
)

// EditCmd rewrites a booking. Flags that are not given keep the booking's
// current values; with none at all the form is prompted.
type EditCmd struct {
	ID        string `arg:"" help:"Booking ID."`
	FormFlags `embed:""`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	names, err := load(ctx)
	if err != nil {
		return err
	}
	if _, err := ctx.Bookings.Fetch(ctx.Context()); err != nil {
		return err
	}
	booking, ok := ctx.Bookings.Find(c.ID)
	if !ok {
		return fmt.Errorf("reserva %s no encontrada", c.ID)
	}

	d := newDraft(&booking, ctx.Schedules.Catalog(), ctx.Now().Format(constants.DateFormat))
	if d.state.DayFallback {
		ctx.Printf("⚠ Fecha %q ilegible, se usa %s\n", d.state.Date, d.state.Day)
	}
	if d, err = d.apply(c.FormFlags); err != nil {
		return err
	}
	if c.Interactive || c.empty() {
		if !cli.Interactive() {
			return fmt.Errorf("nothing to change (give at least one of --field, --date, --time, --client, --tel)")
		}
		if d, err = d.prompt(names); err != nil {
			return err
		}
	}

	update, err := d.submit(ctx.Validator)
	if err != nil {
		return err
	}
	if _, err := ctx.Bookings.Update(ctx.Context(), c.ID, update); err != nil {
		return err
	}

	ctx.Printf("✓ Reserva actualizada: %s (ID: %s)\n", d.summary(), c.ID)
	return nil
}
