package fields

import (
	"github.com/b2p/b2p-admin/internal/cli"
	"github.com/b2p/b2p-admin/internal/validation"
)

type CreateCmd struct {
	Name        string  `arg:"" help:"Field name."`
	Type        string  `short:"t" help:"Field type (CANCHA 5|CANCHA 7|CANCHA 11|PADEL)." required:""`
	Price       float64 `short:"p" help:"Price per hour." required:""`
	Inactive    bool    `help:"Create the field deactivated."`
	Description string  `short:"d" help:"Free-text description."`
}

func (c *CreateCmd) Run(ctx *cli.Context) error {
	active := !c.Inactive
	in, err := ctx.Validator.FieldCreate(validation.FieldForm{
		Name:         c.Name,
		Type:         c.Type,
		PricePerHour: &c.Price,
		IsActive:     &active,
		Description:  c.Description,
	})
	if err != nil {
		return cli.ValidationError(err)
	}

	if _, err := ctx.RequireSession(); err != nil {
		return err
	}
	field, err := ctx.Fields.Create(ctx.Context(), in)
	if err != nil {
		return err
	}

	ctx.Printf("✓ Cancha creada: %s (ID: %s)\n", field.Name, field.ID)
	return nil
}
