package models

import "time"

// User is the signed-in staff member.
type User struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Credential is what the identity provider hands back on sign-in or refresh.
type Credential struct {
	UID          string
	Email        string
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the id token is past its expiry at t.
func (c Credential) Expired(t time.Time) bool {
	return c.ExpiresAt.IsZero() || !t.Before(c.ExpiresAt)
}

// LoginInput is the sanitized login form.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
