// Package storage persists playback snapshots to a single flat JSON file.
// The file holds one top-level array of snapshot objects in the upstream
// API's field casing so it stays easy to inspect and round-trip.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/natefinch/atomic"

	"github.com/opd-ai/go-jf-snapshot/internal/snapshot"
)

// Store is an append-only snapshot collection backed by one JSON file.
// Every write cycle reads the whole array, suppresses duplicates, and
// replaces the file atomically so readers never observe a partial write.
//
// The store itself does not coordinate concurrent writers; at the intended
// single-operator scale overlapping read-modify-write cycles are an accepted
// hazard.
type Store struct {
	path   string
	logger *slog.Logger
}

// New creates a Store backed by the JSON file at path. The file is created
// on first use.
func New(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Load reads all snapshots from disk. A missing or corrupt file is treated
// as an empty store and reinitialized to an empty array on disk. A record
// that fails to decode is skipped with a warning so schema drift in old
// entries never takes down the whole load.
func (s *Store) Load() ([]snapshot.PlaybackSession, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading store file %s: %w", s.path, err)
		}
		s.logger.Info("Store file missing, initializing empty store", "path", s.path)
		return nil, s.reset()
	}

	var rawRecords []json.RawMessage
	if err := json.Unmarshal(data, &rawRecords); err != nil {
		s.logger.Warn("Store file is corrupt, reinitializing empty store",
			"path", s.path,
			"error", err)
		return nil, s.reset()
	}

	sessions := make([]snapshot.PlaybackSession, 0, len(rawRecords))
	for i, raw := range rawRecords {
		var session snapshot.PlaybackSession
		if err := json.Unmarshal(raw, &session); err != nil {
			s.logger.Warn("Skipping unreadable store record",
				"index", i,
				"error", err)
			continue
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

// Append adds a snapshot to the store. The current contents are loaded,
// exact duplicates are dropped (deep field equality, derived timestamp
// included), the new snapshot is appended, and the whole array is written
// back in one atomic file replacement.
func (s *Store) Append(session *snapshot.PlaybackSession) error {
	existing, err := s.Load()
	if err != nil {
		return err
	}

	records := make([]snapshot.PlaybackSession, 0, len(existing)+1)
	for i := range existing {
		if existing[i].Equal(session) || containsEqual(records, &existing[i]) {
			continue
		}
		records = append(records, existing[i])
	}
	records = append(records, *session)

	return s.write(records)
}

// Summaries loads the store and projects each record into its summary view.
func (s *Store) Summaries() ([]snapshot.SnapshotSummary, error) {
	sessions, err := s.Load()
	if err != nil {
		return nil, err
	}

	summaries := make([]snapshot.SnapshotSummary, 0, len(sessions))
	for i := range sessions {
		summaries = append(summaries, snapshot.NewSnapshotSummary(&sessions[i]))
	}

	return summaries, nil
}

// reset replaces the store file with an empty JSON array.
func (s *Store) reset() error {
	if err := s.write([]snapshot.PlaybackSession{}); err != nil {
		return fmt.Errorf("initializing store file %s: %w", s.path, err)
	}
	return nil
}

// write serializes the full record list and atomically replaces the file.
func (s *Store) write(records []snapshot.PlaybackSession) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling store records: %w", err)
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing store file %s: %w", s.path, err)
	}

	return nil
}

func containsEqual(records []snapshot.PlaybackSession, session *snapshot.PlaybackSession) bool {
	for i := range records {
		if records[i].Equal(session) {
			return true
		}
	}
	return false
}
