// Package trackstore implements the Track Store (C5): persisted tracks and
// corners, landmark-dataset seeding with direct and cross-simulator track
// translation tables.
package trackstore

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/apexline/telemetry-coach/internal/errs"
	"github.com/apexline/telemetry-coach/internal/logx"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a *sql.DB and serialises landmark-dataset seeding behind an
// exclusive lock while readers (GetTrack, ListCorners, ...) proceed
// concurrently (spec.md §5 "The persisted Track Store is the only shared
// mutable resource").
type Store struct {
	db     *sql.DB
	seedMu sync.Mutex
	log    zerolog.Logger
}

// Open opens (creating if necessary) a SQLite-backed Track Store at dsn and
// applies any pending schema migrations.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errs.New("trackstore.Open", errs.TrackStoreUnavailable, err)
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, errs.New("trackstore.Open", errs.TrackStoreUnavailable, err)
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, errs.New("trackstore.Open", errs.TrackStoreUnavailable, err)
	}
	return &Store{db: db, log: logx.New(nil)}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}
	return nil
}

func migrateUp(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("iofs source: %w", err)
	}
	dbDriver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("sqlite migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// UpsertTrack inserts or updates a track row.
func (s *Store) UpsertTrack(t Track) error {
	const q = `
		INSERT INTO tracks (track_id, name, config, length_meters, track_type, character, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET
			name = excluded.name,
			config = excluded.config,
			length_meters = excluded.length_meters,
			track_type = excluded.track_type,
			character = excluded.character,
			notes = excluded.notes`
	_, err := s.db.Exec(q, t.TrackID, t.Name, t.Config, t.LengthMeters, t.TrackType, t.Character, t.Notes)
	if err != nil {
		return errs.New("trackstore.UpsertTrack", errs.TrackStoreUnavailable, err)
	}
	return nil
}

// GetTrack returns the track row for trackID, or (Track{}, false, nil) if
// absent.
func (s *Store) GetTrack(trackID string) (Track, bool, error) {
	const q = `SELECT track_id, name, config, length_meters, track_type, character, notes
		FROM tracks WHERE track_id = ?`
	var t Track
	err := s.db.QueryRow(q, trackID).Scan(&t.TrackID, &t.Name, &t.Config, &t.LengthMeters, &t.TrackType, &t.Character, &t.Notes)
	if err == sql.ErrNoRows {
		return Track{}, false, nil
	}
	if err != nil {
		return Track{}, false, errs.New("trackstore.GetTrack", errs.TrackStoreUnavailable, err)
	}
	return t, true, nil
}

// UpsertCorner inserts or updates a corner row keyed by (track_id,
// corner_number).
func (s *Store) UpsertCorner(c Corner) error {
	const q = `
		INSERT INTO corners (track_id, corner_number, name, distance_start_meters, distance_end_meters, corner_type, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(track_id, corner_number) DO UPDATE SET
			name = excluded.name,
			distance_start_meters = excluded.distance_start_meters,
			distance_end_meters = excluded.distance_end_meters,
			corner_type = excluded.corner_type,
			notes = excluded.notes`
	_, err := s.db.Exec(q, c.TrackID, c.CornerNumber, c.Name, c.DistanceStartMeters, c.DistanceEndMeters, c.CornerType, c.Notes)
	if err != nil {
		return errs.New("trackstore.UpsertCorner", errs.TrackStoreUnavailable, err)
	}
	return nil
}

// ListCorners returns trackID's corners ordered by distance_start_meters.
func (s *Store) ListCorners(trackID string) ([]Corner, error) {
	const q = `SELECT corner_id, track_id, corner_number, name, distance_start_meters, distance_end_meters, corner_type, notes
		FROM corners WHERE track_id = ? ORDER BY distance_start_meters ASC`
	rows, err := s.db.Query(q, trackID)
	if err != nil {
		return nil, errs.New("trackstore.ListCorners", errs.TrackStoreUnavailable, err)
	}
	defer rows.Close()

	var out []Corner
	for rows.Next() {
		var c Corner
		if err := rows.Scan(&c.CornerID, &c.TrackID, &c.CornerNumber, &c.Name, &c.DistanceStartMeters, &c.DistanceEndMeters, &c.CornerType, &c.Notes); err != nil {
			return nil, errs.New("trackstore.ListCorners", errs.TrackStoreUnavailable, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// HasNamedCorners reports whether trackID already has at least one corner
// with a non-empty name, used by the Analyser to decide whether lazy
// seeding is needed (spec.md §4.5).
func (s *Store) HasNamedCorners(trackID string) (bool, error) {
	const q = `SELECT COUNT(*) FROM corners WHERE track_id = ? AND name <> ''`
	var n int
	if err := s.db.QueryRow(q, trackID).Scan(&n); err != nil {
		return false, errs.New("trackstore.HasNamedCorners", errs.TrackStoreUnavailable, err)
	}
	return n > 0, nil
}
