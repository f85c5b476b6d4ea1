package snapshot

import (
	"fmt"

	"github.com/opd-ai/go-jf-snapshot/internal/jellyfin"
)

// PlaybackSessionSummary is the lightweight live-session view served by
// GET /playback-sessions/.
type PlaybackSessionSummary struct {
	DeviceName        string `json:"device_name"`
	UserName          string `json:"user_name"`
	IsPaused          bool   `json:"is_paused"`
	PlayingItem       Item   `json:"playing_item"`
	PlaybackTimestamp string `json:"playback_timestamp"`
}

// NewPlaybackSessionSummary best-effort-parses a raw session into its summary
// view. Sessions missing the fields the summary needs fail with a
// ValidationError and are skipped by the caller.
func NewPlaybackSessionSummary(raw *jellyfin.Session) (*PlaybackSessionSummary, error) {
	if raw.PlayState == nil {
		return nil, missingField("PlayState")
	}
	if raw.NowPlayingItem == nil {
		return nil, missingField("NowPlayingItem")
	}
	if raw.DeviceName == "" {
		return nil, missingField("DeviceName")
	}
	if raw.UserName == "" {
		return nil, missingField("UserName")
	}

	return &PlaybackSessionSummary{
		DeviceName:        raw.DeviceName,
		UserName:          raw.UserName,
		IsPaused:          raw.PlayState.IsPaused,
		PlayingItem:       ItemFromSession(raw),
		PlaybackTimestamp: SecondsToTimestamp(TicksToSeconds(raw.PlayState.PositionTicks)),
	}, nil
}

// SnapshotSummary is the stored-snapshot view served by GET /snapshots/.
type SnapshotSummary struct {
	DatetimeRecorded  string `json:"datetime_recorded"`
	PlaybackTimestamp string `json:"playback_timestamp"`
	Title             string `json:"title"`
}

// NewSnapshotSummary projects a stored snapshot into its summary view.
// The title assumes series and season are present; a movie record yields a
// degenerate title with "null" segments rather than an error.
func NewSnapshotSummary(s *PlaybackSession) SnapshotSummary {
	title := fmt.Sprintf("%s - %s - %s",
		derefOr(s.NowPlayingItem.SeriesName, "null"),
		derefOr(s.NowPlayingItem.SeasonName, "null"),
		s.NowPlayingItem.Name)

	return SnapshotSummary{
		DatetimeRecorded:  s.LastActivityDate,
		PlaybackTimestamp: s.CurrentPlaybackTimeStamp,
		Title:             title,
	}
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
