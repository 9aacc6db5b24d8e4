package fields

import (
	"github.com/b2p/b2p-admin/internal/cli"
	"github.com/b2p/b2p-admin/internal/constants"
	"github.com/b2p/b2p-admin/internal/dashboard"
	"github.com/b2p/b2p-admin/internal/models"
)

type ListCmd struct {
	Name     string `short:"n" help:"Only fields whose name contains this text."`
	Type     string `short:"t" help:"Only fields of this type (CANCHA 5|CANCHA 7|CANCHA 11|PADEL)."`
	Inactive bool   `help:"Show deactivated fields only."`
	All      bool   `short:"a" help:"Include deactivated fields."`
	Offline  bool   `help:"Read the local cache instead of the backend."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	filter := models.FieldFilter{Name: c.Name, Type: constants.FieldType(c.Type)}
	fields, src, err := ctx.LoadFields(filter, c.Offline)
	if err != nil {
		return err
	}
	ctx.Notice(src)

	var shown []models.Field
	for _, f := range fields {
		switch {
		case c.Inactive && f.IsActive:
			continue
		case !c.Inactive && !c.All && !f.IsActive:
			continue
		}
		shown = append(shown, f)
	}

	if len(shown) == 0 {
		ctx.Println("No hay canchas registradas")
		return nil
	}
	ctx.Println(cli.Table([]string{"ID", "Nombre", "Tipo", "Precio/h", "Estado"}, rows(shown)))
	return nil
}

func rows(fields []models.Field) [][]string {
	out := make([][]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, []string{f.ID, f.Name, string(f.Type), dashboard.Money(f.PricePerHour), status(f.IsActive)})
	}
	return out
}

func status(active bool) string {
	if active {
		return "Activa"
	}
	return "Inactiva"
}
