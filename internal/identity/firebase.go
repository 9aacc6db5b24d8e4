package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/b2p/b2p-admin/internal/logger"
	"github.com/b2p/b2p-admin/internal/models"
)

// FirebaseProvider talks to the Identity Toolkit and Secure Token REST APIs.
type FirebaseProvider struct {
	APIKey      string
	IdentityURL string
	TokenURL    string
	HTTP        *http.Client
	now         func() time.Time
}

// NewFirebaseProvider returns a provider using client for all calls.
func NewFirebaseProvider(apiKey, identityURL, tokenURL string, client *http.Client) *FirebaseProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &FirebaseProvider{
		APIKey:      apiKey,
		IdentityURL: strings.TrimRight(identityURL, "/"),
		TokenURL:    tokenURL,
		HTTP:        client,
		now:         time.Now,
	}
}

type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type refreshResponse struct {
	UserID       string `json:"user_id"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn exchanges an email and password for a credential.
func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (models.Credential, error) {
	body, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return models.Credential{}, err
	}

	endpoint := p.IdentityURL + "/accounts:signInWithPassword?key=" + url.QueryEscape(p.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return models.Credential{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out signInResponse
	if err := p.do(req, &out); err != nil {
		return models.Credential{}, err
	}

	logger.Debug("Signed in", "email", out.Email)
	return models.Credential{
		UID:          out.LocalID,
		Email:        out.Email,
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresAt:    p.expiry(out.ExpiresIn),
	}, nil
}

// Refresh trades a refresh token for a fresh id token.
func (p *FirebaseProvider) Refresh(ctx context.Context, refreshToken string) (models.Credential, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	endpoint := p.TokenURL + "?key=" + url.QueryEscape(p.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return models.Credential{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out refreshResponse
	if err := p.do(req, &out); err != nil {
		return models.Credential{}, err
	}

	cred := models.Credential{
		UID:          out.UserID,
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresAt:    p.expiry(out.ExpiresIn),
	}
	if claims, err := ParseClaims(out.IDToken); err == nil {
		cred.Email = claims.Email
	}
	return cred, nil
}

func (p *FirebaseProvider) do(req *http.Request, out any) error {
	resp, err := p.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read identity response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var e errorResponse
		_ = json.Unmarshal(data, &e)
		logger.Warn("Identity provider rejected request", "status", resp.StatusCode, "reason", e.Error.Message)
		return &AuthError{Code: codeFor(e.Error.Message), Reason: e.Error.Message}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode identity response: %w", err)
	}
	return nil
}

func (p *FirebaseProvider) expiry(expiresIn string) time.Time {
	secs, err := strconv.Atoi(expiresIn)
	if err != nil || secs <= 0 {
		secs = 3600
	}
	return p.now().Add(time.Duration(secs) * time.Second)
}
