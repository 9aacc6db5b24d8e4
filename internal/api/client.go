package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/b2p/b2p-admin/internal/errors"
	"github.com/b2p/b2p-admin/internal/logger"
)

// TokenSource supplies bearer tokens. Active reports whether a signed-in
// identity backs the tokens; only then can a forced refresh help after a 401.
type TokenSource interface {
	Token(ctx context.Context, force bool) (string, error)
	Active() bool
}

var tracer = otel.Tracer("github.com/b2p/b2p-admin/internal/api")

// Client issues authenticated calls against the REST backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *log.Logger
}

// NewHTTPClient returns an instrumented HTTP client with a fixed request timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// New creates a client. An empty baseURL is accepted; every call then fails
// with ErrMissingBaseURL before touching the network.
func New(baseURL string, tokens TokenSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		log:     logger.Named("api"),
	}
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes one backend call. Fallback is the message used when a
// failure response carries none.
type Request struct {
	Method   string
	Path     string
	Query    url.Values
	Body     any
	Fallback string
}

// Do sends req and decodes a 2xx body into out (when non-nil). A 401 on the
// first attempt forces a token refresh and replays the request once; the
// outcome of the replay is returned as is.
func (c *Client) Do(ctx context.Context, req Request, out any) (err error) {
	if c.baseURL == "" {
		return apperrors.ErrMissingBaseURL
	}

	ctx, span := tracer.Start(ctx, req.Method+" "+req.Path)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var payload []byte
	if req.Body != nil {
		var err error
		if payload, err = json.Marshal(req.Body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	token, err := c.tokens.Token(ctx, false)
	if err != nil {
		return err
	}

	status, body, err := c.send(ctx, req, payload, token, false)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && c.tokens.Active() {
		fresh, refreshErr := c.tokens.Token(ctx, true)
		if refreshErr != nil {
			c.log.Warn("Token refresh after 401 failed", "path", req.Path, "error", refreshErr)
		} else {
			span.SetAttributes(attribute.Bool("b2p.retried", true))
			status, body, err = c.send(ctx, req, payload, fresh, true)
			if err != nil {
				return err
			}
		}
	}

	if status < 200 || status >= 300 {
		return apperrors.NewAPIError(status, extractMessage(body), req.Fallback)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewAPIError(status, "", req.Fallback)
	}
	return nil
}

func (c *Client) send(ctx context.Context, req Request, payload []byte, token string, retry bool) (int, []byte, error) {
	endpoint := c.baseURL + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Warn("Request failed", "method", req.Method, "path", req.Path, "error", err)
		msg := req.Fallback
		if msg == "" {
			msg = err.Error()
		}
		return 0, nil, fmt.Errorf("%s: %w", msg, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Request", "method", req.Method, "path", req.Path, "status", resp.StatusCode,
		"retry", retry, "elapsed", time.Since(start))
	return resp.StatusCode, body, nil
}

// extractMessage pulls "message" out of an error body. Validation failures
// from the backend send it as a list.
func extractMessage(body []byte) string {
	var parsed struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Message) == 0 {
		return ""
	}

	var single string
	if err := json.Unmarshal(parsed.Message, &single); err == nil {
		return single
	}
	var many []string
	if err := json.Unmarshal(parsed.Message, &many); err == nil {
		return strings.Join(many, "; ")
	}
	return ""
}
