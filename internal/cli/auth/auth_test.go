package auth

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/b2p/b2p-admin/internal/cli/clitest"
	apperrors "github.com/b2p/b2p-admin/internal/errors"
)

func TestLoginCmd(t *testing.T) {
	backend := clitest.NewBackend(t)

	t.Run("valid credentials", func(t *testing.T) {
		var out bytes.Buffer
		ctx := backend.SignedOutContext(t, &out)
		if err := (&LoginCmd{Email: clitest.Email, Password: clitest.Password}).Run(ctx); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !strings.Contains(out.String(), "✓ Sesión iniciada como admin@b2p.test") {
			t.Errorf("unexpected output: %s", out.String())
		}
		if !ctx.Session.Active() {
			t.Error("session not active after login")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		var out bytes.Buffer
		ctx := backend.SignedOutContext(t, &out)
		err := (&LoginCmd{Email: clitest.Email, Password: "incorrecta"}).Run(ctx)
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("Run() error = %v, want ErrInvalidCredentials", err)
		}
		if ctx.Session.Active() {
			t.Error("session active after failed login")
		}
	})

	t.Run("invalid email never reaches the provider", func(t *testing.T) {
		var out bytes.Buffer
		ctx := backend.SignedOutContext(t, &out)
		before := len(backend.Requests)
		if err := (&LoginCmd{Email: "no-es-un-email", Password: clitest.Password}).Run(ctx); err == nil {
			t.Fatal("expected validation error")
		}
		if len(backend.Requests) != before {
			t.Errorf("requests were sent: %v", backend.Requests[before:])
		}
	})

	t.Run("not an administrator", func(t *testing.T) {
		backend.Admin = false
		defer func() { backend.Admin = true }()

		var out bytes.Buffer
		ctx := backend.SignedOutContext(t, &out)
		err := (&LoginCmd{Email: clitest.Email, Password: clitest.Password}).Run(ctx)
		if !errors.Is(err, apperrors.ErrNotAdmin) {
			t.Errorf("Run() error = %v, want ErrNotAdmin", err)
		}
		if ctx.Session.Active() {
			t.Error("non-admin session was kept")
		}
	})
}

func TestWhoamiCmd(t *testing.T) {
	backend := clitest.NewBackend(t)

	var out bytes.Buffer
	if err := (&WhoamiCmd{Verify: true}).Run(backend.Context(t, &out)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, s := range []string{"Email: admin@b2p.test", "UID:   uid-1", "Admin: sí"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("output missing %q:\n%s", s, out.String())
		}
	}

	out.Reset()
	err := (&WhoamiCmd{}).Run(backend.SignedOutContext(t, &out))
	if !errors.Is(err, apperrors.ErrNoSession) {
		t.Errorf("Run() signed out error = %v, want ErrNoSession", err)
	}
}

func TestLogoutCmd(t *testing.T) {
	backend := clitest.NewBackend(t)
	var out bytes.Buffer
	ctx := backend.Context(t, &out)

	if _, err := ctx.RequireSession(); err != nil {
		t.Fatalf("RequireSession() error = %v", err)
	}
	if err := (&LogoutCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if ctx.Session.Active() {
		t.Error("session still active")
	}
	if _, err := ctx.RequireSession(); !errors.Is(err, apperrors.ErrNoSession) {
		t.Errorf("RequireSession() after logout error = %v, want ErrNoSession", err)
	}
}
