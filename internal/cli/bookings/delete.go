package bookings

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/b2p/b2p-admin/internal/cli"
)

type DeleteCmd struct {
	ID  string `arg:"" help:"Booking ID."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("¿Eliminar la reserva %s?", c.ID)).
			Affirmative("Eliminar").
			Negative("Cancelar").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.Println("Cancelado")
			return nil
		}
	}

	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	if err := ctx.Bookings.Delete(ctx.Context(), c.ID); err != nil {
		return err
	}

	ctx.Printf("✓ Reserva eliminada (ID: %s)\n", c.ID)
	return nil
}
