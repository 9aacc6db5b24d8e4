package bookings

import (
	"fmt"

	"github.com/b2p/b2p-admin/internal/cli"
	"github.com/b2p/b2p-admin/internal/constants"
)

type CreateCmd struct {
	FormFlags `embed:""`
}

func (c *CreateCmd) Run(ctx *cli.Context) error {
	names, err := load(ctx)
	if err != nil {
		return err
	}

	d := newDraft(nil, ctx.Schedules.Catalog(), ctx.Now().Format(constants.DateFormat))
	if d, err = d.apply(c.FormFlags); err != nil {
		return err
	}
	if c.Interactive || c.empty() {
		if !cli.Interactive() {
			return fmt.Errorf("--field, --date, --time and --client are required when not running in a terminal")
		}
		if d, err = d.prompt(names); err != nil {
			return err
		}
	}

	update, err := d.submit(ctx.Validator)
	if err != nil {
		return err
	}
	booking, err := ctx.Bookings.Create(ctx.Context(), update)
	if err != nil {
		return err
	}

	ctx.Printf("✓ Reserva creada: %s (ID: %s)\n", d.summary(), booking.ID)
	return nil
}
