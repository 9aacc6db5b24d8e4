package auth

import (
	"github.com/b2p/b2p-admin/internal/cli"
	"github.com/b2p/b2p-admin/internal/logger"
)

type LogoutCmd struct {
	KeepCache bool `help:"Keep the local offline cache."`
}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	ctx.Auth.Logout()

	if ctx.Cache != nil && !c.KeepCache {
		if err := ctx.Cache.Clear(ctx.Context()); err != nil {
			logger.Warn("Failed to clear cache on logout", "error", err)
		}
	}

	ctx.Println("Sesión cerrada")
	return nil
}
