/*
Package sqlite provides SQLite persistence for saved births and charts.

PURPOSE:
  Keeps the things a user wants to come back to: named birth profiles, the
  charts calculated for them, and the engine options the server last ran
  with. The engine itself is stateless; nothing here is consulted during a
  calculation.

KEY TABLES:
  profiles:       A named birth, stored as its request document
  charts:         A calculated chart snapshot for a profile (append-only)
  engine_options: The current option document, one row

STORAGE FORMAT:
  Requests, options and results are stored as the JSON the API speaks
  (factory.RequestJSON, factory.OptionsJSON, saju.Result). The store never
  decodes them, so the engine types can grow without a migration.

CHART SNAPSHOTS:
  A chart row is never updated. Recalculating a profile under new options
  adds a row; the history shows how each option set read the same birth.
  Deleting a profile cascades to its charts.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. The in-memory database is pinned to
  one connection so every query sees the same data.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/saju.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  p, err := store.SaveProfile(ctx, sqlite.ProfileRecord{Name: "Aiko", RequestJSON: doc})

SEE ALSO:
  - factory/request.go: Document shapes stored here
  - api/handlers.go:    Profile and chart endpoints
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// =============================================================================
// ERRORS
// =============================================================================

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a profile or chart does not exist.
var ErrNotFound = errors.New("not found")

// IsNotFound returns true if the record was missing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// =============================================================================
// STORE
// =============================================================================

// Store persists profiles, charts and options.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		request_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_profiles_name
		ON profiles(name);

	-- Chart snapshots (append-only)
	CREATE TABLE IF NOT EXISTS charts (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		pillars TEXT NOT NULL,
		options_json TEXT NOT NULL,
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_charts_profile_date
		ON charts(profile_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS engine_options (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		options_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PROFILE STORE
// =============================================================================

// ProfileRecord is a named birth with its request document.
type ProfileRecord struct {
	ID          string
	Name        string
	RequestJSON string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SaveProfile inserts or updates a profile. An empty ID is assigned a new
// UUID. The stored record is returned.
func (s *Store) SaveProfile(ctx context.Context, p ProfileRecord) (*ProfileRecord, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("profile name is required")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO profiles (id, name, request_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			request_json = excluded.request_json,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(timeLayout)
	if _, err := s.db.ExecContext(ctx, query, p.ID, p.Name, p.RequestJSON, now, now); err != nil {
		return nil, fmt.Errorf("failed to save profile %s: %w", p.ID, err)
	}
	return s.getProfile(ctx, p.ID)
}

// GetProfile retrieves a profile by ID.
func (s *Store) GetProfile(ctx context.Context, id string) (*ProfileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getProfile(ctx, id)
}

func (s *Store) getProfile(ctx context.Context, id string) (*ProfileRecord, error) {
	var p ProfileRecord
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, request_json, created_at, updated_at FROM profiles WHERE id = ?",
		id,
	).Scan(&p.ID, &p.Name, &p.RequestJSON, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	p.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return &p, nil
}

// ListProfiles returns all profiles ordered by name.
func (s *Store) ListProfiles(ctx context.Context) ([]ProfileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, request_json, created_at, updated_at FROM profiles ORDER BY name, created_at",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []ProfileRecord{}
	for rows.Next() {
		var p ProfileRecord
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.RequestJSON, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		p.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// DeleteProfile removes a profile and its charts.
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM profiles WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	return nil
}

// =============================================================================
// CHART STORE
// =============================================================================

// ChartRecord is one calculated chart for a profile.
type ChartRecord struct {
	ID          string
	ProfileID   string
	Pillars     string // year month day hour labels, space separated
	OptionsJSON string
	ResultJSON  string
	CreatedAt   time.Time
}

// AddChart appends a chart snapshot. The profile must exist.
func (s *Store) AddChart(ctx context.Context, c ChartRecord) (*ChartRecord, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles WHERE id = ?", c.ProfileID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("profile %s: %w", c.ProfileID, ErrNotFound)
	}

	query := `
		INSERT INTO charts (id, profile_id, pillars, options_json, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.ProfileID, c.Pillars, c.OptionsJSON, c.ResultJSON,
		c.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save chart for %s: %w", c.ProfileID, err)
	}
	return &c, nil
}

// ListCharts returns the charts of a profile, newest first.
func (s *Store) ListCharts(ctx context.Context, profileID string) ([]ChartRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, profile_id, pillars, options_json, result_json, created_at
		FROM charts
		WHERE profile_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	charts := []ChartRecord{}
	for rows.Next() {
		var c ChartRecord
		var createdAt string
		if err := rows.Scan(&c.ID, &c.ProfileID, &c.Pillars, &c.OptionsJSON, &c.ResultJSON, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		charts = append(charts, c)
	}
	return charts, rows.Err()
}

// =============================================================================
// OPTIONS STORE
// =============================================================================

// SaveOptions replaces the stored option document.
func (s *Store) SaveOptions(ctx context.Context, optionsJSON string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO engine_options (id, options_json, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			options_json = excluded.options_json,
			updated_at = excluded.updated_at
	`, optionsJSON, time.Now().UTC().Format(timeLayout))
	return err
}

// LoadOptions returns the stored option document, or "" if none was saved.
func (s *Store) LoadOptions(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT options_json FROM engine_options WHERE id = 1").Scan(&doc)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return doc, err
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"charts", "profiles", "engine_options"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
