package keyring

import (
	"errors"
	"fmt"

	"github.com/b2p/b2p-admin/internal/constants"
	"github.com/zalando/go-keyring"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Store persists session secrets under the application's keyring service.
// Entries are addressed by user key (id token, refresh token).
type Store struct {
	Service string
}

// NewStore returns a Store bound to the application service name.
func NewStore() *Store {
	return &Store{Service: constants.AppName}
}

// Get retrieves the secret stored under key. Returns ErrNotFound if nothing is stored.
func (s *Store) Get(key string) (string, error) {
	value, err := keyring.Get(s.Service, key)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", key)
	}
	if err := keyring.Set(s.Service, key, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", key, err)
	}
	return nil
}

// Delete removes key. Returns ErrNotFound if nothing was stored.
func (s *Store) Delete(key string) error {
	if err := keyring.Delete(s.Service, key); err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}

// GetToken retrieves the last identity token written by a session.
func GetToken() (string, error) {
	return NewStore().Get(constants.DefaultKeyringUser)
}

// SetToken stores the identity token.
func SetToken(token string) error {
	return NewStore().Set(constants.DefaultKeyringUser, token)
}

// DeleteToken removes the identity token and the refresh token. Missing
// entries are not an error.
func DeleteToken() error {
	s := NewStore()
	for _, key := range []string{constants.DefaultKeyringUser, constants.RefreshKeyringUser} {
		if err := s.Delete(key); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || err == keyring.ErrNotFound
}
