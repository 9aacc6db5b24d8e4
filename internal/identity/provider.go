package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/b2p/b2p-admin/internal/constants"
	apperrors "github.com/b2p/b2p-admin/internal/errors"
	"github.com/b2p/b2p-admin/internal/models"
)

// Provider is the identity-provider capability the session depends on.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (models.Credential, error)
	Refresh(ctx context.Context, refreshToken string) (models.Credential, error)
}

// AuthError is a sign-in failure carrying the provider's normalized code.
type AuthError struct {
	Code   string
	Reason string
}

func (e *AuthError) Error() string {
	return Localize(e.Code)
}

func (e *AuthError) Unwrap() error {
	if e.Code == "auth/invalid-credential" {
		return apperrors.ErrInvalidCredentials
	}
	return apperrors.ErrLoginFailed
}

// Localize maps a provider error code to the message shown to staff.
func Localize(code string) string {
	switch code {
	case "auth/invalid-credential":
		return constants.MsgInvalidCredentials
	default:
		return constants.MsgLoginFailed
	}
}

// codeFor normalizes the REST error reasons into auth/* codes. Reasons may
// carry a detail suffix ("TOO_MANY_ATTEMPTS_TRY_LATER : ...").
func codeFor(reason string) string {
	reason, _, _ = strings.Cut(reason, " ")
	switch reason {
	case "INVALID_LOGIN_CREDENTIALS", "INVALID_PASSWORD", "EMAIL_NOT_FOUND", "INVALID_EMAIL":
		return "auth/invalid-credential"
	case "USER_DISABLED":
		return "auth/user-disabled"
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return "auth/too-many-requests"
	case "TOKEN_EXPIRED", "INVALID_REFRESH_TOKEN":
		return "auth/user-token-expired"
	default:
		return "auth/internal-error"
	}
}

// Claims is the decoded content of an identity token.
type Claims struct {
	UID       string
	Email     string
	Admin     bool
	ExpiresAt time.Time
}

// ParseClaims decodes an identity token without verifying its signature. The
// backend verifies tokens; the client only reads them.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("failed to decode identity token: %w", err)
	}

	var c Claims
	if sub, err := mc.GetSubject(); err == nil {
		c.UID = sub
	}
	if uid, ok := mc["user_id"].(string); ok && uid != "" {
		c.UID = uid
	}
	if email, ok := mc["email"].(string); ok {
		c.Email = email
	}
	if admin, ok := mc[constants.AdminClaim].(bool); ok {
		c.Admin = admin
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
