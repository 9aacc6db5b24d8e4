package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/b2p/b2p-admin/internal/constants"
	apperrors "github.com/b2p/b2p-admin/internal/errors"
	"github.com/b2p/b2p-admin/internal/identity"
	"github.com/b2p/b2p-admin/internal/keyring"
	"github.com/b2p/b2p-admin/internal/logger"
	"github.com/b2p/b2p-admin/internal/models"
)

// TokenStore persists session secrets between runs.
type TokenStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// EventKind identifies a session transition.
type EventKind int

const (
	Established EventKind = iota
	Refreshed
	Revoked
)

func (k EventKind) String() string {
	switch k {
	case Established:
		return "established"
	case Refreshed:
		return "refreshed"
	case Revoked:
		return "revoked"
	default:
		return "unknown"
	}
}

// Event is pushed to subscribers on every transition. User is nil after Revoked.
type Event struct {
	Kind EventKind
	User *models.User
}

// Session owns the signed-in identity and its token. It is created once and
// injected into the API client; its lifecycle is establish, refresh, revoke.
type Session struct {
	provider identity.Provider
	store    TokenStore
	now      func() time.Time

	mu   sync.Mutex
	cred *models.Credential
	user *models.User
	subs map[int]chan Event
	next int

	refreshMu sync.Mutex
}

// New creates an empty session.
func New(provider identity.Provider, store TokenStore) *Session {
	return &Session{
		provider: provider,
		store:    store,
		now:      time.Now,
		subs:     make(map[int]chan Event),
	}
}

// Establish installs a credential returned by sign-in.
func (s *Session) Establish(cred models.Credential) models.User {
	user := userFrom(cred)

	s.mu.Lock()
	s.cred = &cred
	s.user = &user
	s.mu.Unlock()

	s.persist(cred)
	logger.Info("Session established", "email", user.Email, "admin", user.IsAdmin)
	s.publish(Event{Kind: Established, User: &user})
	return user
}

// Restore re-establishes the session from the stored refresh token. It is the
// start-up counterpart of observing the provider's current user.
func (s *Session) Restore(ctx context.Context) (models.User, error) {
	if user, ok := s.Current(); ok {
		return user, nil
	}

	refresh, err := s.store.Get(constants.RefreshKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return models.User{}, apperrors.ErrNoSession
		}
		return models.User{}, err
	}

	cred, err := s.provider.Refresh(ctx, refresh)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to restore session: %w", err)
	}
	return s.Establish(cred), nil
}

// Token returns the bearer token for an outgoing request. With an active
// credential the token is refreshed when force is set or it has expired.
// Without one, the last persisted token is returned, possibly empty.
func (s *Session) Token(ctx context.Context, force bool) (string, error) {
	s.mu.Lock()
	cred := s.cred
	s.mu.Unlock()

	if cred == nil {
		token, err := s.store.Get(constants.DefaultKeyringUser)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Failed to read cached token", "error", err)
		}
		return token, nil
	}

	if !force && !cred.Expired(s.now()) {
		return cred.IDToken, nil
	}
	return s.refresh(ctx, cred)
}

func (s *Session) refresh(ctx context.Context, seen *models.Credential) (string, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.mu.Lock()
	current := s.cred
	s.mu.Unlock()
	if current == nil {
		return "", apperrors.ErrNoSession
	}
	// Another caller refreshed while we waited.
	if current != seen && !current.Expired(s.now()) {
		return current.IDToken, nil
	}

	fresh, err := s.provider.Refresh(ctx, current.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = current.RefreshToken
	}
	if fresh.Email == "" {
		fresh.Email = current.Email
	}
	if fresh.UID == "" {
		fresh.UID = current.UID
	}

	user := userFrom(fresh)
	s.mu.Lock()
	if s.cred == nil {
		// Revoked during the refresh.
		s.mu.Unlock()
		return "", apperrors.ErrNoSession
	}
	s.cred = &fresh
	s.user = &user
	s.mu.Unlock()

	s.persist(fresh)
	logger.Debug("Token refreshed", "expires", fresh.ExpiresAt)
	s.publish(Event{Kind: Refreshed, User: &user})
	return fresh.IDToken, nil
}

// Revoke tears the session down and forgets the persisted tokens.
func (s *Session) Revoke() {
	s.mu.Lock()
	had := s.cred != nil
	s.cred = nil
	s.user = nil
	s.mu.Unlock()

	for _, key := range []string{constants.DefaultKeyringUser, constants.RefreshKeyringUser} {
		if err := s.store.Delete(key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Failed to delete stored token", "key", key, "error", err)
		}
	}
	if had {
		logger.Info("Session revoked")
	}
	s.publish(Event{Kind: Revoked})
}

// Current returns the signed-in user, if any.
func (s *Session) Current() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Active reports whether a signed-in credential backs the session, as opposed
// to a token cached by a previous run.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred != nil
}

// Subscribe returns a stream of session transitions and a cancel function.
// Slow subscribers miss events rather than block the session.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Session) publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			logger.Debug("Dropped session event", "kind", ev.Kind)
		}
	}
}

func (s *Session) persist(cred models.Credential) {
	if cred.IDToken != "" {
		if err := s.store.Set(constants.DefaultKeyringUser, cred.IDToken); err != nil {
			logger.Warn("Failed to persist token", "error", err)
		}
	}
	if cred.RefreshToken != "" {
		if err := s.store.Set(constants.RefreshKeyringUser, cred.RefreshToken); err != nil {
			logger.Warn("Failed to persist refresh token", "error", err)
		}
	}
}

func userFrom(cred models.Credential) models.User {
	user := models.User{UID: cred.UID, Email: cred.Email}
	if claims, err := identity.ParseClaims(cred.IDToken); err == nil {
		user.IsAdmin = claims.Admin
		if user.Email == "" {
			user.Email = claims.Email
		}
		if user.UID == "" {
			user.UID = claims.UID
		}
	}
	return user
}
