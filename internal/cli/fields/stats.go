package fields

import (
	"strconv"

	"github.com/b2p/b2p-admin/internal/cli"
	"github.com/b2p/b2p-admin/internal/constants"
	"github.com/b2p/b2p-admin/internal/models"
	"github.com/b2p/b2p-admin/internal/store"
)

type StatsCmd struct {
	Offline bool `help:"Read the local cache instead of the backend."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	fields, src, err := ctx.LoadFields(models.FieldFilter{}, c.Offline)
	if err != nil {
		return err
	}
	ctx.Notice(src)

	stats := store.FieldStats(fields)
	ctx.Printf("Total:     %d\n", stats.Total)
	ctx.Printf("Activas:   %d\n", stats.Active)
	ctx.Printf("Inactivas: %d\n\n", stats.Inactive)

	rows := make([][]string, 0, len(constants.FieldTypes))
	for _, t := range constants.FieldTypes {
		rows = append(rows, []string{string(t), strconv.Itoa(stats.ByType[t])})
	}
	ctx.Println(cli.Table([]string{"Tipo", "Canchas"}, rows))
	return nil
}
