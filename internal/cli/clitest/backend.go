// Package clitest runs commands against an in-process fake of the REST
// backend and the identity provider.
package clitest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/b2p/b2p-admin/internal/cli"
	"github.com/b2p/b2p-admin/internal/config"
	"github.com/b2p/b2p-admin/internal/constants"
	"github.com/b2p/b2p-admin/internal/models"
	"github.com/b2p/b2p-admin/internal/session"
)

const (
	Email        = "admin@b2p.test"
	Password     = "secreto"
	RefreshToken = "refresh-token"
)

// Now is the fixed clock of every test context: Monday 2025-03-10.
var Now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// Backend is the fake server state. Tests seed it directly and inspect it
// after running a command.
type Backend struct {
	mu        sync.Mutex
	Fields    []models.Field
	Schedules []models.Schedule
	Bookings  []models.BackendBooking
	Admin     bool
	// Requests records "METHOD /path" of every backend call.
	Requests []string

	srv  *httptest.Server
	next int
}

// NewBackend starts a server seeded with two fields, their Monday slots and
// one booking on 2025-03-10.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		Admin: true,
		Fields: []models.Field{
			{ID: "f1", Name: "Cancha 1", Type: constants.FieldType5, PricePerHour: 20000, IsActive: true},
			{ID: "f2", Name: "Cancha 2", Type: constants.FieldType7, PricePerHour: 35000, IsActive: true},
		},
	}
	for _, f := range b.Fields {
		for _, hour := range []string{"18:00", "19:00", "20:00"} {
			b.Schedules = append(b.Schedules, Slot(f, "Lunes", hour, true))
		}
	}
	b.Bookings = []models.BackendBooking{
		b.booking("b1", b.Schedules[0], "Juan", "3001234567", "2025-03-10T00:00:00.000Z"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /accounts:signInWithPassword", b.signIn(t))
	mux.HandleFunc("POST /token", b.refresh(t))
	mux.HandleFunc("GET /users/verify-admin", b.verifyAdmin)
	mux.HandleFunc("GET /fields", b.listFields)
	mux.HandleFunc("POST /fields", b.createField)
	mux.HandleFunc("PATCH /fields/{id}", b.updateField)
	mux.HandleFunc("PATCH /fields/soft/{id}", b.softDeleteField)
	mux.HandleFunc("GET /schedules", b.listSchedules)
	mux.HandleFunc("GET /bookings", b.listBookings)
	mux.HandleFunc("POST /bookings", b.createBooking)
	mux.HandleFunc("PATCH /bookings/{id}", b.updateBooking)
	mux.HandleFunc("DELETE /bookings/{id}", b.deleteBooking)

	b.srv = httptest.NewServer(b.record(mux))
	t.Cleanup(b.srv.Close)
	return b
}

// Slot builds an expanded schedule of field f.
func Slot(f models.Field, day, hour string, available bool) models.Schedule {
	return models.Schedule{
		ID:        fmt.Sprintf("s-%s-%s-%s", f.ID, day, strings.ReplaceAll(hour, ":", "")),
		Field:     models.Expand(models.FieldSummary{ID: f.ID, Name: f.Name}),
		Day:       day,
		Time:      hour,
		Available: available,
	}
}

func (b *Backend) URL() string {
	return b.srv.URL
}

// Down stops the server so every following call fails to connect.
func (b *Backend) Down() {
	b.srv.Close()
}

// Called reports whether a request for method and path was received.
func (b *Backend) Called(method, path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Contains(b.Requests, method+" "+path)
}

// Context returns a command context signed in against the fake, with output
// captured in out.
func (b *Backend) Context(t *testing.T, out *bytes.Buffer) *cli.Context {
	t.Helper()

	tokens := session.NewMemoryStore()
	if err := tokens.Set(constants.RefreshKeyringUser, RefreshToken); err != nil {
		t.Fatalf("failed to seed refresh token: %v", err)
	}
	return b.contextWith(t, out, tokens)
}

// SignedOutContext returns a context with no stored session.
func (b *Backend) SignedOutContext(t *testing.T, out *bytes.Buffer) *cli.Context {
	t.Helper()
	return b.contextWith(t, out, session.NewMemoryStore())
}

// Config is the configuration contexts are built with.
func (b *Backend) Config(dir string) config.App {
	return config.App{
		APIBaseURL:     b.srv.URL,
		Timeout:        5 * time.Second,
		FirebaseAPIKey: "test-key",
		IdentityURL:    b.srv.URL,
		TokenURL:       b.srv.URL + "/token",
		ConfigDir:      dir,
	}
}

func (b *Backend) contextWith(t *testing.T, out *bytes.Buffer, tokens session.TokenStore) *cli.Context {
	t.Helper()

	ctx := cli.NewContext(context.Background(), b.Config(t.TempDir()), tokens)
	ctx.Out = out
	ctx.Now = func() time.Time { return Now }
	t.Cleanup(func() { _ = ctx.Close() })
	return ctx
}

// IDToken signs a token carrying the fake user's claims.
func IDToken(t *testing.T, admin bool) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "uid-1",
		"email":   Email,
		"admin":   admin,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.Requests = append(b.Requests, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) signIn(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != Email || body["password"] != Password {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"INVALID_LOGIN_CREDENTIALS"}}`))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"localId":      "uid-1",
			"email":        Email,
			"idToken":      IDToken(t, true),
			"refreshToken": RefreshToken,
			"expiresIn":    "3600",
		})
	}
}

func (b *Backend) refresh(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("refresh_token") != RefreshToken {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"INVALID_REFRESH_TOKEN"}}`))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"user_id":       "uid-1",
			"id_token":      IDToken(t, true),
			"refresh_token": RefreshToken,
			"expires_in":    "3600",
		})
	}
}

func (b *Backend) verifyAdmin(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token requerido"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"isAdmin": b.Admin})
}

func (b *Backend) listFields(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	name := strings.ToLower(r.URL.Query().Get("name"))
	typ := r.URL.Query().Get("type")
	out := []models.Field{}
	for _, f := range b.Fields {
		if name != "" && !strings.Contains(strings.ToLower(f.Name), name) {
			continue
		}
		if typ != "" && string(f.Type) != typ {
			continue
		}
		out = append(out, f)
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (b *Backend) createField(w http.ResponseWriter, r *http.Request) {
	var in models.FieldInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "cuerpo inválido"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, f := range b.Fields {
		if strings.EqualFold(f.Name, in.Name) {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Ya existe una cancha con ese nombre"})
			return
		}
	}
	b.next++
	field := models.Field{
		ID:           fmt.Sprintf("new-%d", b.next),
		Name:         in.Name,
		Type:         in.Type,
		PricePerHour: in.PricePerHour,
		IsActive:     in.IsActive,
		Description:  in.Description,
	}
	b.Fields = append(b.Fields, field)
	writeJSON(w, http.StatusCreated, map[string]any{"data": field})
}

func (b *Backend) updateField(w http.ResponseWriter, r *http.Request) {
	var patch models.FieldPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "cuerpo inválido"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.Fields, func(f models.Field) bool { return f.ID == r.PathValue("id") })
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Cancha no encontrada"})
		return
	}
	b.Fields[i] = patch.Apply(b.Fields[i])
	writeJSON(w, http.StatusOK, map[string]any{"data": b.Fields[i]})
}

func (b *Backend) softDeleteField(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.Fields, func(f models.Field) bool { return f.ID == r.PathValue("id") })
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Cancha no encontrada"})
		return
	}
	b.Fields[i].IsActive = false
	writeJSON(w, http.StatusOK, map[string]any{"data": b.Fields[i]})
}

func (b *Backend) listSchedules(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": b.Schedules})
}

func (b *Backend) listBookings(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": b.Bookings})
}

func (b *Backend) createBooking(w http.ResponseWriter, r *http.Request) {
	var in models.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "cuerpo inválido"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	slot, ok := b.slot(in.Schedule)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Horario inexistente"})
		return
	}
	b.next++
	booking := b.booking(fmt.Sprintf("new-%d", b.next), slot, in.PlayerName, in.Tel, in.BookingDate)
	b.Bookings = append(b.Bookings, booking)
	writeJSON(w, http.StatusCreated, map[string]any{"data": booking})
}

func (b *Backend) updateBooking(w http.ResponseWriter, r *http.Request) {
	var in models.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "cuerpo inválido"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.Bookings, func(bk models.BackendBooking) bool { return bk.ID == r.PathValue("id") })
	if i < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Reserva no encontrada"})
		return
	}
	slot, ok := b.slot(in.Schedule)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Horario inexistente"})
		return
	}
	b.Bookings[i] = b.booking(b.Bookings[i].ID, slot, in.PlayerName, in.Tel, in.BookingDate)
	writeJSON(w, http.StatusOK, map[string]any{"data": b.Bookings[i]})
}

func (b *Backend) deleteBooking(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	before := len(b.Bookings)
	b.Bookings = slices.DeleteFunc(b.Bookings, func(bk models.BackendBooking) bool { return bk.ID == r.PathValue("id") })
	if len(b.Bookings) == before {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Reserva no encontrada"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Booking returns the stored booking with id.
func (b *Backend) Booking(id string) (models.BackendBooking, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.Bookings, func(bk models.BackendBooking) bool { return bk.ID == id })
	if i < 0 {
		return models.BackendBooking{}, false
	}
	return b.Bookings[i], true
}

// Field returns the stored field with id.
func (b *Backend) Field(id string) (models.Field, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.Fields, func(f models.Field) bool { return f.ID == id })
	if i < 0 {
		return models.Field{}, false
	}
	return b.Fields[i], true
}

func (b *Backend) slot(id string) (models.Schedule, bool) {
	i := slices.IndexFunc(b.Schedules, func(s models.Schedule) bool { return s.ID == id })
	if i < 0 {
		return models.Schedule{}, false
	}
	return b.Schedules[i], true
}

func (b *Backend) booking(id string, slot models.Schedule, player, tel, date string) models.BackendBooking {
	return models.BackendBooking{
		ID:          id,
		Field:       models.Expand(models.FieldSummary{ID: slot.Field.ID, Name: slot.FieldName()}),
		Schedule:    models.Expand(models.ScheduleSummary{ID: slot.ID, Day: slot.Day, Time: slot.Time}),
		PlayerName:  player,
		Tel:         tel,
		BookingDate: date,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
