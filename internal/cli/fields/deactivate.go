package fields

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/b2p/b2p-admin/internal/cli"
)

type DeactivateCmd struct {
	ID  string `arg:"" help:"Field ID."`
	Yes bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *DeactivateCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("¿Desactivar la cancha %s?", c.ID)).
			Description("Dejará de aparecer como disponible para nuevas reservas.").
			Affirmative("Desactivar").
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
	if err := ctx.Fields.SoftDelete(ctx.Context(), c.ID); err != nil {
		return err
	}

	ctx.Printf("✓ Cancha desactivada (ID: %s)\n", c.ID)
	return nil
}
