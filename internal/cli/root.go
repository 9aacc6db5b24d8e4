package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/b2p/b2p-admin/internal/api"
	"github.com/b2p/b2p-admin/internal/cache"
	"github.com/b2p/b2p-admin/internal/config"
	"github.com/b2p/b2p-admin/internal/identity"
	"github.com/b2p/b2p-admin/internal/logger"
	"github.com/b2p/b2p-admin/internal/models"
	"github.com/b2p/b2p-admin/internal/session"
	"github.com/b2p/b2p-admin/internal/store"
	"github.com/b2p/b2p-admin/internal/validation"
)

// Context is handed to every command. It owns the one session and the one
// API client of the process.
type Context struct {
	Config    config.App
	Identity  identity.Provider
	Session   *session.Session
	Client    *api.Client
	Auth      *store.AuthStore
	Fields    *store.FieldStore
	Bookings  *store.BookingStore
	Schedules *store.ScheduleStore
	Cache     *cache.Store
	Validator *validation.Validator
	Out       io.Writer
	Now       func() time.Time

	base context.Context
}

// NewContext wires the application graph. A cache that fails to open is
// logged and left out; everything else keeps working online.
func NewContext(base context.Context, cfg config.App, tokens session.TokenStore) *Context {
	httpClient := api.NewHTTPClient(cfg.Timeout)
	provider := identity.NewFirebaseProvider(cfg.FirebaseAPIKey, cfg.IdentityURL, cfg.TokenURL, httpClient)
	sess := session.New(provider, tokens)
	client := api.New(cfg.APIBaseURL, sess, httpClient)

	c := &Context{
		Config:    cfg,
		Identity:  provider,
		Session:   sess,
		Client:    client,
		Validator: validation.New(),
		Out:       os.Stdout,
		Now:       time.Now,
		base:      base,
	}

	var snap store.Snapshotter
	cacheStore := cache.NewStore(cfg.CachePath())
	if err := cacheStore.Init(base); err != nil {
		logger.Warn("Local cache unavailable", "path", cfg.CachePath(), "error", err)
	} else {
		c.Cache = cacheStore
		snap = cacheStore
	}

	c.Auth = store.NewAuthStore(provider, sess, client, c.Validator)
	c.Fields = store.NewFieldStore(client, snap)
	c.Schedules = store.NewScheduleStore(client, snap)
	c.Bookings = store.NewBookingStore(client, c.Fields, c.Schedules, snap)
	return c
}

// Context returns the process context commands run under.
func (c *Context) Context() context.Context {
	if c.base == nil {
		return context.Background()
	}
	return c.base
}

// Close releases the local cache.
func (c *Context) Close() error {
	if c.Cache == nil {
		return nil
	}
	return c.Cache.Close()
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Print(args ...any) {
	fmt.Fprint(c.Out, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// RequireSession restores the signed-in administrator of a previous run.
func (c *Context) RequireSession() (models.User, error) {
	return c.Auth.Restore(c.Context())
}

// Interactive reports whether stdin is a terminal prompts can run on.
func Interactive() bool {
	fi, err := os.Stdin.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// Source tells where listed data came from.
type Source struct {
	Cached    bool
	FetchedAt time.Time
}

// Notice prints a line when data came from the local cache.
func (c *Context) Notice(src Source) {
	if !src.Cached {
		return
	}
	c.Printf("%s\n\n", noticeStyle.Render(fmt.Sprintf("⚠ Sin conexión: datos en caché del %s", src.FetchedAt.Local().Format("2006-01-02 15:04"))))
}

// Unreachable reports whether err means the backend could not be contacted
// at all, as opposed to answering with an error.
func Unreachable(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// LoadFields fetches fields, falling back to the local cache when offline is
// set or the backend is unreachable.
func (c *Context) LoadFields(filter models.FieldFilter, offline bool) ([]models.Field, Source, error) {
	if !offline {
		if _, err := c.RequireSession(); err != nil && !Unreachable(err) {
			return nil, Source{}, err
		}
		fields, err := c.Fields.Fetch(c.Context(), filter)
		if err == nil || !Unreachable(err) {
			return fields, Source{}, err
		}
		logger.Warn("Backend unreachable, using cached fields", "error", err)
	}

	if c.Cache == nil {
		return nil, Source{}, cache.ErrEmpty
	}
	fields, at, err := c.Cache.LoadFields(c.Context())
	if err != nil {
		return nil, Source{}, err
	}
	c.Fields.Seed(fields)
	return filterFields(fields, filter), Source{Cached: true, FetchedAt: at}, nil
}

// LoadBookings fetches bookings with the same fallback as LoadFields. Field
// names are resolved against the known fields, so those are loaded first.
func (c *Context) LoadBookings(offline bool) ([]models.Booking, Source, error) {
	if !offline {
		if _, err := c.RequireSession(); err != nil && !Unreachable(err) {
			return nil, Source{}, err
		}
		if _, err := c.Fields.Fetch(c.Context(), models.FieldFilter{}); err != nil {
			logger.Debug("Could not load fields for booking names", "error", err)
		}
		if _, err := c.Schedules.Fetch(c.Context()); err != nil {
			logger.Debug("Could not load schedules for booking times", "error", err)
		}
		bookings, err := c.Bookings.Fetch(c.Context())
		if err == nil || !Unreachable(err) {
			return bookings, Source{}, err
		}
		logger.Warn("Backend unreachable, using cached bookings", "error", err)
	}

	if c.Cache == nil {
		return nil, Source{}, cache.ErrEmpty
	}
	if fields, _, err := c.Cache.LoadFields(c.Context()); err == nil {
		c.Fields.Seed(fields)
	}
	bookings, at, err := c.Cache.LoadBookings(c.Context(), "")
	if err != nil {
		return nil, Source{}, err
	}
	c.Bookings.Seed(bookings)
	return bookings, Source{Cached: true, FetchedAt: at}, nil
}

// LoadSchedules fetches the slot catalog with the same fallback as LoadFields.
func (c *Context) LoadSchedules(offline bool) ([]models.Schedule, Source, error) {
	if !offline {
		if _, err := c.RequireSession(); err != nil && !Unreachable(err) {
			return nil, Source{}, err
		}
		schedules, err := c.Schedules.Fetch(c.Context())
		if err == nil || !Unreachable(err) {
			return schedules, Source{}, err
		}
		logger.Warn("Backend unreachable, using cached schedules", "error", err)
	}

	if c.Cache == nil {
		return nil, Source{}, cache.ErrEmpty
	}
	schedules, at, err := c.Cache.LoadSchedules(c.Context())
	if err != nil {
		return nil, Source{}, err
	}
	c.Schedules.Seed(schedules)
	return schedules, Source{Cached: true, FetchedAt: at}, nil
}

// ValidationError turns validation failures into a readable report.
func ValidationError(err error) error {
	if errs, ok := validation.AsErrors(err); ok {
		return errors.New(strings.TrimSpace(errs.FormatReport()))
	}
	return err
}

func filterFields(fields []models.Field, filter models.FieldFilter) []models.Field {
	if filter == (models.FieldFilter{}) {
		return fields
	}
	name := strings.ToLower(filter.Name)
	var out []models.Field
	for _, f := range fields {
		if name != "" && !strings.Contains(strings.ToLower(f.Name), name) {
			continue
		}
		if filter.Type != "" && f.Type != filter.Type {
			continue
		}
		out = append(out, f)
	}
	return out
}

var (
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Table renders rows under headers in the common list style.
func Table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}
