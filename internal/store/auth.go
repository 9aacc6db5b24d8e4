package store

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/b2p/b2p-admin/internal/constants"
	apperrors "github.com/b2p/b2p-admin/internal/errors"
	"github.com/b2p/b2p-admin/internal/identity"
	"github.com/b2p/b2p-admin/internal/logger"
	"github.com/b2p/b2p-admin/internal/models"
	"github.com/b2p/b2p-admin/internal/session"
	"github.com/b2p/b2p-admin/internal/validation"
)

// AdminVerifier asks the backend whether the current user is an administrator.
type AdminVerifier interface {
	VerifyAdmin(ctx context.Context) (bool, error)
}

// AuthState mirrors the session for display.
type AuthState struct {
	User    *models.User
	Loading bool
	Error   string
}

type AuthStore struct {
	provider  identity.Provider
	session   *session.Session
	admin     AdminVerifier
	validator *validation.Validator
	log       *log.Logger

	mu    sync.Mutex
	state AuthState
}

func NewAuthStore(provider identity.Provider, sess *session.Session, admin AdminVerifier, v *validation.Validator) *AuthStore {
	return &AuthStore{
		provider:  provider,
		session:   sess,
		admin:     admin,
		validator: v,
		log:       logger.Named("store/auth"),
	}
}

func (s *AuthStore) State() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *AuthStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = ""
}

// Login validates the form, signs in, and keeps the session only when the
// backend confirms the user is an administrator. Invalid input never reaches
// the identity provider.
func (s *AuthStore) Login(ctx context.Context, form validation.LoginForm) (models.User, error) {
	in, err := s.validator.Login(form)
	if err != nil {
		s.fail(err, constants.MsgLoginFailed)
		return models.User{}, err
	}

	s.start()
	cred, err := s.provider.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		s.fail(err, constants.MsgLoginFailed)
		return models.User{}, err
	}

	user := s.session.Establish(cred)
	if err := s.requireAdmin(ctx); err != nil {
		s.session.Revoke()
		s.fail(err, constants.MsgNotAdmin)
		return models.User{}, err
	}
	user.IsAdmin = true

	s.succeed(&user)
	s.log.Info("signed in", "email", user.Email)
	return user, nil
}

// Restore brings back the session of a previous run. ErrNoSession means
// nobody ever signed in, or the user signed out.
func (s *AuthStore) Restore(ctx context.Context) (models.User, error) {
	s.start()
	user, err := s.session.Restore(ctx)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNoSession) {
			s.succeed(nil)
		} else {
			s.fail(err, constants.MsgLoginFailed)
		}
		return models.User{}, err
	}
	s.succeed(&user)
	return user, nil
}

// VerifyAdmin re-checks the current user against the backend.
func (s *AuthStore) VerifyAdmin(ctx context.Context) error {
	err := s.requireAdmin(ctx)
	if err != nil {
		s.mu.Lock()
		s.state.Error = apperrors.Message(err, constants.MsgVerifyAdmin)
		s.mu.Unlock()
	}
	return err
}

func (s *AuthStore) Logout() {
	s.session.Revoke()
	s.succeed(nil)
	s.log.Info("signed out")
}

func (s *AuthStore) requireAdmin(ctx context.Context) error {
	ok, err := s.admin.VerifyAdmin(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrNotAdmin
	}
	return nil
}

func (s *AuthStore) start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
	s.state.Error = ""
}

func (s *AuthStore) succeed(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = AuthState{User: user}
}

func (s *AuthStore) fail(err error, fallback string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.state.User = nil
	s.state.Error = apperrors.Message(err, fallback)
}
