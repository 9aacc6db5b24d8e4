package auth

import (
	"github.com/b2p/b2p-admin/internal/cli"
	apperrors "github.com/b2p/b2p-admin/internal/errors"
)

type WhoamiCmd struct {
	Verify bool `help:"Ask the backend to confirm administrator rights."`
}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireSession()
	if err != nil {
		return err
	}

	ctx.Printf("Email: %s\n", user.Email)
	ctx.Printf("UID:   %s\n", user.UID)

	if !c.Verify {
		return nil
	}
	if err := ctx.Auth.VerifyAdmin(ctx.Context()); err != nil {
		if apperrors.Is(err, apperrors.ErrNotAdmin) {
			ctx.Println("Admin: no")
		}
		return err
	}
	ctx.Println("Admin: sí")
	return nil
}
