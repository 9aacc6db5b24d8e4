package store

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/b2p/b2p-admin/internal/errors"
	"github.com/b2p/b2p-admin/internal/identity"
	"github.com/b2p/b2p-admin/internal/models"
	"github.com/b2p/b2p-admin/internal/session"
	"github.com/b2p/b2p-admin/internal/validation"
)

type fakeProvider struct {
	signIns int
	err     error
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (models.Credential, error) {
	f.signIns++
	if f.err != nil {
		return models.Credential{}, f.err
	}
	return models.Credential{
		UID:          "uid-1",
		Email:        email,
		IDToken:      "id-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour),
	}, nil
}

func (f *fakeProvider) Refresh(ctx context.Context, refreshToken string) (models.Credential, error) {
	return f.SignIn(ctx, "admin@b2p.test", "")
}

type fakeAdmin struct {
	admin bool
	err   error
}

func (f fakeAdmin) VerifyAdmin(ctx context.Context) (bool, error) {
	return f.admin, f.err
}

func newAuth(p *fakeProvider, admin fakeAdmin) (*AuthStore, *session.Session) {
	sess := session.New(p, session.NewMemoryStore())
	return NewAuthStore(p, sess, admin, validation.New()), sess
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		form       validation.LoginForm
		provider   *fakeProvider
		admin      fakeAdmin
		wantErr    error
		wantSignIn int
		wantActive bool
	}{
		{
			name:       "admin",
			form:       validation.LoginForm{Email: "admin@b2p.test", Password: "secreto"},
			provider:   &fakeProvider{},
			admin:      fakeAdmin{admin: true},
			wantSignIn: 1,
			wantActive: true,
		},
		{
			name:       "invalid form never signs in",
			form:       validation.LoginForm{Email: "bad", Password: "x"},
			provider:   &fakeProvider{},
			admin:      fakeAdmin{admin: true},
			wantSignIn: 0,
		},
		{
			name:       "not an admin",
			form:       validation.LoginForm{Email: "user@b2p.test", Password: "secreto"},
			provider:   &fakeProvider{},
			admin:      fakeAdmin{admin: false},
			wantErr:    apperrors.ErrNotAdmin,
			wantSignIn: 1,
		},
		{
			name:       "bad credentials",
			form:       validation.LoginForm{Email: "admin@b2p.test", Password: "equivocada"},
			provider:   &fakeProvider{err: &identity.AuthError{Code: "auth/invalid-credential"}},
			admin:      fakeAdmin{admin: true},
			wantErr:    apperrors.ErrInvalidCredentials,
			wantSignIn: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, sess := newAuth(tt.provider, tt.admin)

			user, err := auth.Login(context.Background(), tt.form)
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Login() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantActive && err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if tt.provider.signIns != tt.wantSignIn {
				t.Errorf("sign-ins = %d, want %d", tt.provider.signIns, tt.wantSignIn)
			}
			if sess.Active() != tt.wantActive {
				t.Errorf("session active = %v, want %v", sess.Active(), tt.wantActive)
			}

			st := auth.State()
			if tt.wantActive {
				if st.User == nil || !user.IsAdmin || st.Error != "" {
					t.Errorf("state = %+v, user = %+v", st, user)
				}
			} else if st.User != nil || st.Error == "" {
				t.Errorf("state = %+v, want error and no user", st)
			}
		})
	}
}

func TestLoginNotAdminMessage(t *testing.T) {
	auth, _ := newAuth(&fakeProvider{}, fakeAdmin{})
	_, _ = auth.Login(context.Background(), validation.LoginForm{Email: "user@b2p.test", Password: "secreto"})

	if got := auth.State().Error; got != apperrors.ErrNotAdmin.Error() {
		t.Errorf("Error = %q", got)
	}
}

func TestRestoreWithoutSession(t *testing.T) {
	auth, _ := newAuth(&fakeProvider{}, fakeAdmin{admin: true})

	_, err := auth.Restore(context.Background())
	if !errors.Is(err, apperrors.ErrNoSession) {
		t.Fatalf("Restore() error = %v", err)
	}
	if st := auth.State(); st.Error != "" || st.User != nil || st.Loading {
		t.Errorf("state = %+v", st)
	}
}

func TestLogout(t *testing.T) {
	auth, sess := newAuth(&fakeProvider{}, fakeAdmin{admin: true})
	if _, err := auth.Login(context.Background(), validation.LoginForm{Email: "admin@b2p.test", Password: "secreto"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	auth.Logout()
	if sess.Active() || auth.State().User != nil {
		t.Error("session survived logout")
	}
}
