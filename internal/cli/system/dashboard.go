package system

import (
	"github.com/b2p/b2p-admin/internal/cli"
	"github.com/b2p/b2p-admin/internal/dashboard"
	"github.com/b2p/b2p-admin/internal/models"
)

type DashboardCmd struct {
	Offline bool `help:"Read the local cache instead of the backend."`
}

func (cmd *DashboardCmd) Run(ctx *cli.Context) error {
	fields, _, err := ctx.LoadFields(models.FieldFilter{}, cmd.Offline)
	if err != nil {
		return err
	}
	bookings, src, err := ctx.LoadBookings(cmd.Offline)
	if err != nil {
		return err
	}
	ctx.Notice(src)

	ctx.Println(dashboard.Compute(fields, bookings, ctx.Now()).Render())
	return nil
}
