package snapshot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opd-ai/go-jf-snapshot/internal/jellyfin"
)

// SessionSource lists the currently active playback sessions on the media
// server.
type SessionSource interface {
	GetSessions(ctx context.Context) ([]jellyfin.Session, error)
}

// SnapshotStore persists matched sessions with duplicate suppression.
type SnapshotStore interface {
	Append(session *PlaybackSession) error
}

// Service orchestrates the fetch-match-persist cycle: it pulls the live
// session list, applies the filter, and records the first match.
type Service struct {
	source SessionSource
	store  SnapshotStore
	logger *slog.Logger
}

// NewService creates the orchestration service.
func NewService(source SessionSource, store SnapshotStore, logger *slog.Logger) *Service {
	return &Service{
		source: source,
		store:  store,
		logger: logger,
	}
}

// FindAndRecordMatchingSession fetches the current sessions, restricts them
// to ones with something playing, and returns the first session satisfying
// the filter, persisting it unless dryRun is set.
//
// A fetch failure is logged and treated as "no sessions". A candidate that
// fails model validation is logged and skipped. No match returns (nil, nil);
// a filter-path resolution failure is returned as an error since it is a
// configuration bug, not a data problem.
func (s *Service) FindAndRecordMatchingSession(ctx context.Context, filter SnapshotFilter, dryRun bool) (*PlaybackSession, error) {
	fields := filter.FieldPatterns()

	sessions, err := s.source.GetSessions(ctx)
	if err != nil {
		s.logger.Warn("Unable to retrieve sessions", "error", err)
		return nil, nil
	}

	for i := range sessions {
		raw := &sessions[i]
		if raw.NowPlayingItem == nil {
			continue
		}

		snap, err := NewPlaybackSession(raw)
		if err != nil {
			s.logger.Warn("Skipping session that failed validation",
				"session_id", raw.ID,
				"error", err)
			continue
		}

		match, err := Matches(fields, snap)
		if err != nil {
			return nil, err
		}
		if !match {
			continue
		}

		if snap.LastPausedDate != nil {
			s.logger.Info("Matched a paused session",
				"user_name", snap.UserName,
				"item", snap.NowPlayingItem.Name,
				"path", snap.NowPlayingItem.Path)
		}

		if !dryRun {
			if err := s.store.Append(snap); err != nil {
				return nil, fmt.Errorf("persisting snapshot: %w", err)
			}
			s.logger.Info("Snapshot saved",
				"session_id", snap.ID,
				"playback_timestamp", snap.CurrentPlaybackTimeStamp)
		}

		return snap, nil
	}

	s.logger.Info("No matching playback session found")
	return nil, nil
}

// ListPlaybackSessions returns summaries of the live sessions that carry a
// playing item. Sessions that fail to parse are logged and skipped; partial
// results are always preferred over a total failure.
func (s *Service) ListPlaybackSessions(ctx context.Context) []PlaybackSessionSummary {
	summaries := make([]PlaybackSessionSummary, 0)

	sessions, err := s.source.GetSessions(ctx)
	if err != nil {
		s.logger.Warn("Unable to retrieve sessions", "error", err)
		return summaries
	}

	for i := range sessions {
		raw := &sessions[i]
		if raw.NowPlayingItem == nil {
			continue
		}

		summary, err := NewPlaybackSessionSummary(raw)
		if err != nil {
			s.logger.Warn("Skipping session that failed to parse",
				"session_id", raw.ID,
				"error", err)
			continue
		}

		summaries = append(summaries, *summary)
	}

	return summaries
}
