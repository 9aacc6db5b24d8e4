package auth

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/b2p/b2p-admin/internal/cli"
	"github.com/b2p/b2p-admin/internal/validation"
)

type LoginCmd struct {
	Email    string `short:"e" help:"Administrator email."`
	Password string `short:"p" help:"Password. Prompted when omitted." env:"B2P_PASSWORD"`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	form := validation.LoginForm{Email: c.Email, Password: c.Password}
	if form.Email == "" || form.Password == "" {
		if err := promptLogin(&form); err != nil {
			return err
		}
	}

	user, err := ctx.Auth.Login(ctx.Context(), form)
	if err != nil {
		return cli.ValidationError(err)
	}

	ctx.Printf("✓ Sesión iniciada como %s\n", user.Email)
	return nil
}

func promptLogin(form *validation.LoginForm) error {
	if !cli.Interactive() {
		return fmt.Errorf("email and password are required (use --email and --password)")
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&form.Email),
			huh.NewInput().
				Title("Contraseña").
				EchoMode(huh.EchoModePassword).
				Value(&form.Password),
		),
	).Run()
}
