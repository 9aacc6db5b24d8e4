package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/b2p/b2p-admin/internal/logger"
	"github.com/b2p/b2p-admin/internal/migration"
	"github.com/b2p/b2p-admin/internal/models"
	"github.com/b2p/b2p-admin/migrations"
)

// ErrEmpty is returned by the Load methods when nothing was ever saved.
var ErrEmpty = errors.New("no hay datos en caché, conéctate al servidor al menos una vez")

// Store is the local snapshot of the last successful fetch of each list. It
// is read only when the backend cannot be reached.
type Store struct {
	path string
	db   *sql.DB
	now  func() time.Time
	log  *log.Logger
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now, log: logger.Named("cache")}
}

func (s *Store) Path() string {
	return s.path
}

// Init opens the database, creating it and its directory when missing, and
// brings the schema up to date.
func (s *Store) Init(ctx context.Context) error {
	if s.db != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}

	if _, err := runner(db).Apply(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to migrate cache: %w", err)
	}

	s.db = db
	return nil
}

func runner(db *sql.DB) *migration.Runner {
	schema, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		// The embedded directory is fixed at build time.
		panic(err)
	}
	return migration.NewRunner(db, schema)
}

// Version reports the applied and the latest known schema versions.
func (s *Store) Version(ctx context.Context) (current, latest int, err error) {
	if s.db == nil {
		return 0, 0, fmt.Errorf("cache not initialized")
	}
	r := runner(s.db)
	if current, err = r.CurrentVersion(ctx); err != nil {
		return 0, 0, err
	}
	if latest, err = r.LatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

// Ping checks that the database answers a query.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("cache not initialized")
	}
	var one int
	return s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) SaveFields(fields []models.Field) error {
	rows := make([]row, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, row{id: f.ID, value: f})
	}
	return s.replace(context.Background(), "fields", rows)
}

func (s *Store) SaveBookings(bookings []models.Booking) error {
	rows := make([]row, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, row{id: b.ID, date: b.Date, value: b})
	}
	return s.replace(context.Background(), "bookings", rows)
}

func (s *Store) SaveSchedules(schedules []models.Schedule) error {
	rows := make([]row, 0, len(schedules))
	for _, sc := range schedules {
		rows = append(rows, row{id: sc.ID, value: sc})
	}
	return s.replace(context.Background(), "schedules", rows)
}

// LoadFields returns the cached fields and when they were fetched.
func (s *Store) LoadFields(ctx context.Context) ([]models.Field, time.Time, error) {
	return load[models.Field](ctx, s, "SELECT payload, fetched_at FROM fields ORDER BY rowid")
}

// LoadBookings returns the cached bookings, only those of date when it is set.
func (s *Store) LoadBookings(ctx context.Context, date string) ([]models.Booking, time.Time, error) {
	if date == "" {
		return load[models.Booking](ctx, s, "SELECT payload, fetched_at FROM bookings ORDER BY rowid")
	}
	return load[models.Booking](ctx, s, "SELECT payload, fetched_at FROM bookings WHERE booking_date = ? ORDER BY rowid", date)
}

func (s *Store) LoadSchedules(ctx context.Context) ([]models.Schedule, time.Time, error) {
	return load[models.Schedule](ctx, s, "SELECT payload, fetched_at FROM schedules ORDER BY rowid")
}

// Clear drops every cached row. The schema is kept.
func (s *Store) Clear(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("cache not initialized")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"fields", "bookings", "schedules"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

type row struct {
	id    string
	date  string
	value any
}

// replace swaps the whole table in one transaction so readers never see a
// half-written snapshot.
func (s *Store) replace(ctx context.Context, table string, rows []row) error {
	if s.db == nil {
		return fmt.Errorf("cache not initialized")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}

	query := "INSERT OR REPLACE INTO " + table + " (id, payload, fetched_at) VALUES (?, ?, ?)"
	if table == "bookings" {
		query = "INSERT OR REPLACE INTO bookings (id, booking_date, payload, fetched_at) VALUES (?, ?, ?, ?)"
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	fetchedAt := s.now().UTC().Format(time.RFC3339)
	for _, r := range rows {
		payload, err := json.Marshal(r.value)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s: %w", table, r.id, err)
		}
		args := []any{r.id, string(payload), fetchedAt}
		if table == "bookings" {
			args = []any{r.id, r.date, string(payload), fetchedAt}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to save %s %s: %w", table, r.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Debug("snapshot saved", "table", table, "rows", len(rows))
	return nil
}

func load[T any](ctx context.Context, s *Store, query string, args ...any) ([]T, time.Time, error) {
	if s.db == nil {
		return nil, time.Time{}, fmt.Errorf("cache not initialized")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer rows.Close()

	var (
		out       []T
		fetchedAt time.Time
	)
	for rows.Next() {
		var payload, stamp string
		if err := rows.Scan(&payload, &stamp); err != nil {
			return nil, time.Time{}, err
		}
		var v T
		if err := json.Unmarshal([]byte(payload), &v); err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to decode cached row: %w", err)
		}
		out = append(out, v)
		if t, err := time.Parse(time.RFC3339, stamp); err == nil {
			fetchedAt = t
		}
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}
	if len(out) == 0 {
		return nil, time.Time{}, ErrEmpty
	}
	return out, fetchedAt, nil
}
