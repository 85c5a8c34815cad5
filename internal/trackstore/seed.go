package trackstore

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/apexline/telemetry-coach/internal/errs"
)

// SeedFromLandmarksDataset imports dataset into the store: every key it can
// resolve to a native track (direct or cross-sim, spec.md §4.5) gets its
// corners upserted with display-normalised names. Keys that resolve to no
// known track are skipped — that is not an error (spec.md §4.5 "tracks for
// which no dataset entry exists remain unnamed").
//
// Seeding is atomic: the whole import runs in one transaction under an
// exclusive in-process lock, so partial seeds are never visible to readers
// and concurrent seed calls serialise rather than race (spec.md §5).
func (s *Store) SeedFromLandmarksDataset(dataset LandmarksDataset) error {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	txID := uuid.NewString()
	log := s.log.With().Str("seed_tx", txID).Logger()
	log.Info().Int("dataset_keys", len(dataset)).Msg("seeding landmarks dataset")

	tx, err := s.db.Begin()
	if err != nil {
		return errs.New("trackstore.SeedFromLandmarksDataset", errs.SeedingFailed, err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	seededTracks := 0
	for key, corners := range dataset {
		trackID, ok := resolveTrackID(key)
		if !ok {
			log.Debug().Str("dataset_key", key).Msg("no known track for dataset key, skipping")
			continue
		}
		if err := seedTrackCorners(tx, trackID, corners); err != nil {
			return errs.New("trackstore.SeedFromLandmarksDataset", errs.SeedingFailed, err)
		}
		seededTracks++
	}

	if err := tx.Commit(); err != nil {
		return errs.New("trackstore.SeedFromLandmarksDataset", errs.SeedingFailed, err)
	}
	committed = true

	log.Info().Int("tracks_seeded", seededTracks).Msg("seeding committed")
	return nil
}

func seedTrackCorners(tx *sql.Tx, trackID string, corners []LandmarkEntry) error {
	const q = `
		INSERT INTO corners (track_id, corner_number, name, distance_start_meters, distance_end_meters, corner_type, notes)
		VALUES (?, ?, ?, ?, ?, ?, '')
		ON CONFLICT(track_id, corner_number) DO UPDATE SET
			name = excluded.name,
			distance_start_meters = excluded.distance_start_meters,
			distance_end_meters = excluded.distance_end_meters,
			corner_type = excluded.corner_type`
	for i, c := range corners {
		_, err := tx.Exec(q, trackID, i+1, DisplayName(c.Name), c.DistanceStartM, c.DistanceEndM, c.Type)
		if err != nil {
			return fmt.Errorf("seed corner %d for track %s: %w", i+1, trackID, err)
		}
	}
	return nil
}
