package keyring

import (
	"testing"

	"github.com/b2p/b2p-admin/internal/constants"
	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetToken(t *testing.T) {
	gokeyring.MockInit()

	if err := SetToken("eyJhbGciOi.test.sig"); err != nil {
		t.Fatalf("SetToken() failed: %v", err)
	}

	got, err := GetToken()
	if err != nil {
		t.Fatalf("GetToken() failed: %v", err)
	}
	if got != "eyJhbGciOi.test.sig" {
		t.Errorf("GetToken() = %q", got)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetToken(""); err == nil {
		t.Error("SetToken(\"\") should return an error")
	}
}

func TestGetNotFound(t *testing.T) {
	gokeyring.MockInit()

	_, err := NewStore().Get(constants.RefreshKeyringUser)
	if err != ErrNotFound {
		t.Errorf("Get() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteToken(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Store)
	}{
		{
			name: "both entries stored",
			setup: func(s *Store) {
				_ = s.Set(constants.DefaultKeyringUser, "id-token")
				_ = s.Set(constants.RefreshKeyringUser, "refresh-token")
			},
		},
		{
			name:  "nothing stored",
			setup: func(*Store) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gokeyring.MockInit()
			s := NewStore()
			tt.setup(s)

			if err := DeleteToken(); err != nil {
				t.Fatalf("DeleteToken() failed: %v", err)
			}
			if _, err := s.Get(constants.DefaultKeyringUser); err != ErrNotFound {
				t.Errorf("id token still present: %v", err)
			}
			if _, err := s.Get(constants.RefreshKeyringUser); err != ErrNotFound {
				t.Errorf("refresh token still present: %v", err)
			}
		})
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false with mock keyring")
	}
}
