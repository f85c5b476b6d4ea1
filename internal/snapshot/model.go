// Package snapshot implements the core of go-jf-snapshot: a validated model
// of a Jellyfin playback session, regex-based field matching, and the summary
// projections served by the HTTP API.
//
// JSON tags throughout the model keep the upstream API's field casing so that
// persisted snapshots round-trip the wire shape and stay easy to inspect.
package snapshot

import (
	"fmt"

	"github.com/opd-ai/go-jf-snapshot/internal/jellyfin"
)

// ValidationError reports a missing or malformed field encountered while
// constructing a model from an upstream session.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid session: field %s: %s", e.Field, e.Reason)
}

// missingField builds the common "required field absent" validation error.
func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "required field is missing"}
}

// PlaybackSession is one observed playback state at one point in time.
// It is immutable after construction and persists only by being appended
// to the snapshot store.
type PlaybackSession struct {
	PlayState           PlayState      `json:"PlayState"`
	RemoteEndPoint      string         `json:"RemoteEndPoint"`
	PlayableMediaTypes  []string       `json:"PlayableMediaTypes"`
	ID                  string         `json:"Id"`
	UserID              string         `json:"UserId"`
	UserName            string         `json:"UserName"`
	Client              string         `json:"Client"`
	LastActivityDate    string         `json:"LastActivityDate"`
	LastPlaybackCheckIn string         `json:"LastPlaybackCheckIn"`
	LastPausedDate      *string        `json:"LastPausedDate"`
	DeviceName          string         `json:"DeviceName"`
	NowPlayingItem      NowPlayingItem `json:"NowPlayingItem"`

	// CurrentPlaybackTimeStamp is derived from PlayState.PositionTicks at
	// construction time, never carried over from the upstream payload.
	CurrentPlaybackTimeStamp string `json:"CurrentPlaybackTimeStamp"`
}

// PlayState mirrors the upstream play state of a session.
type PlayState struct {
	PositionTicks       int64  `json:"PositionTicks"`
	CanSeek             bool   `json:"CanSeek"`
	IsPaused            bool   `json:"IsPaused"`
	IsMuted             bool   `json:"IsMuted"`
	VolumeLevel         *int   `json:"VolumeLevel"`
	AudioStreamIndex    int    `json:"AudioStreamIndex"`
	SubtitleStreamIndex int    `json:"SubtitleStreamIndex"`
	MediaSourceID       string `json:"MediaSourceId"`
	PlayMethod          string `json:"PlayMethod"`
}

// NowPlayingItem is the media currently playing in a session. Series and
// season fields are nil for movies.
type NowPlayingItem struct {
	Name            string            `json:"Name"`
	ServerID        string            `json:"ServerId"`
	ID              string            `json:"Id"`
	ProviderIDs     map[string]string `json:"ProviderIds"`
	VideoStreamInfo VideoStreamInfo   `json:"VideoStreamInfo"`
	SeriesName      *string           `json:"SeriesName"`
	SeasonName      *string           `json:"SeasonName"`
	SeriesID        *string           `json:"SeriesId"`
	SeasonID        *string           `json:"SeasonId"`
	RunTimeTicks    int64             `json:"RunTimeTicks"`
	Path            string            `json:"Path"`
}

// VideoStreamInfo holds the frame rates of the video stream. All fields are
// nil when the upstream payload carries no stream metadata at all.
type VideoStreamInfo struct {
	AverageFrameRate   *float64 `json:"AverageFrameRate"`
	RealFrameRate      *float64 `json:"RealFrameRate"`
	ReferenceFrameRate *float64 `json:"ReferenceFrameRate"`
}

// NewPlaybackSession constructs a validated PlaybackSession from an upstream
// session. Required fields must be present; optional series/season data and
// stream metadata default to nil. Construction performs no network calls.
func NewPlaybackSession(raw *jellyfin.Session) (*PlaybackSession, error) {
	if raw.PlayState == nil {
		return nil, missingField("PlayState")
	}
	if raw.NowPlayingItem == nil {
		return nil, missingField("NowPlayingItem")
	}
	if raw.RemoteEndPoint == "" {
		return nil, missingField("RemoteEndPoint")
	}
	if raw.ID == "" {
		return nil, missingField("Id")
	}
	if raw.UserID == "" {
		return nil, missingField("UserId")
	}
	if raw.UserName == "" {
		return nil, missingField("UserName")
	}
	if raw.Client == "" {
		return nil, missingField("Client")
	}
	if raw.LastActivityDate == "" {
		return nil, missingField("LastActivityDate")
	}
	if raw.LastPlaybackCheckIn == "" {
		return nil, missingField("LastPlaybackCheckIn")
	}
	if raw.DeviceName == "" {
		return nil, missingField("DeviceName")
	}

	item, err := newNowPlayingItem(raw.NowPlayingItem)
	if err != nil {
		return nil, err
	}

	return &PlaybackSession{
		PlayState: PlayState{
			PositionTicks:       raw.PlayState.PositionTicks,
			CanSeek:             raw.PlayState.CanSeek,
			IsPaused:            raw.PlayState.IsPaused,
			IsMuted:             raw.PlayState.IsMuted,
			VolumeLevel:         raw.PlayState.VolumeLevel,
			AudioStreamIndex:    raw.PlayState.AudioStreamIndex,
			SubtitleStreamIndex: raw.PlayState.SubtitleStreamIndex,
			MediaSourceID:       raw.PlayState.MediaSourceID,
			PlayMethod:          raw.PlayState.PlayMethod,
		},
		RemoteEndPoint:           raw.RemoteEndPoint,
		PlayableMediaTypes:       raw.PlayableMediaTypes,
		ID:                       raw.ID,
		UserID:                   raw.UserID,
		UserName:                 raw.UserName,
		Client:                   raw.Client,
		LastActivityDate:         raw.LastActivityDate,
		LastPlaybackCheckIn:      raw.LastPlaybackCheckIn,
		LastPausedDate:           raw.LastPausedDate,
		DeviceName:               raw.DeviceName,
		NowPlayingItem:           *item,
		CurrentPlaybackTimeStamp: SecondsToTimestamp(TicksToSeconds(raw.PlayState.PositionTicks)),
	}, nil
}

// newNowPlayingItem validates the required item fields and resolves the
// stream metadata from whichever of the two upstream shapes is present.
func newNowPlayingItem(raw *jellyfin.NowPlayingItem) (*NowPlayingItem, error) {
	if raw.Name == "" {
		return nil, missingField("NowPlayingItem.Name")
	}
	if raw.ServerID == "" {
		return nil, missingField("NowPlayingItem.ServerId")
	}
	if raw.ID == "" {
		return nil, missingField("NowPlayingItem.Id")
	}

	return &NowPlayingItem{
		Name:            raw.Name,
		ServerID:        raw.ServerID,
		ID:              raw.ID,
		ProviderIDs:     raw.ProviderIDs,
		VideoStreamInfo: newVideoStreamInfo(raw),
		SeriesName:      raw.SeriesName,
		SeasonName:      raw.SeasonName,
		SeriesID:        raw.SeriesID,
		SeasonID:        raw.SeasonID,
		RunTimeTicks:    raw.RunTimeTicks,
		Path:            raw.Path,
	}, nil
}

// newVideoStreamInfo prefers the explicit VideoStreamInfo member, falls back
// to the first MediaStreams entry, and otherwise leaves every rate nil.
// Missing stream metadata is never a construction failure.
func newVideoStreamInfo(raw *jellyfin.NowPlayingItem) VideoStreamInfo {
	source := raw.VideoStreamInfo
	if source == nil && len(raw.MediaStreams) > 0 {
		source = &raw.MediaStreams[0]
	}
	if source == nil {
		return VideoStreamInfo{}
	}

	return VideoStreamInfo{
		AverageFrameRate:   source.AverageFrameRate,
		RealFrameRate:      source.RealFrameRate,
		ReferenceFrameRate: source.ReferenceFrameRate,
	}
}

// Equal reports deep structural equality between two sessions, including the
// derived playback timestamp. The store uses it for duplicate suppression.
func (s *PlaybackSession) Equal(other *PlaybackSession) bool {
	if s == nil || other == nil {
		return s == other
	}

	return s.PlayState.equal(&other.PlayState) &&
		s.RemoteEndPoint == other.RemoteEndPoint &&
		stringSlicesEqual(s.PlayableMediaTypes, other.PlayableMediaTypes) &&
		s.ID == other.ID &&
		s.UserID == other.UserID &&
		s.UserName == other.UserName &&
		s.Client == other.Client &&
		s.LastActivityDate == other.LastActivityDate &&
		s.LastPlaybackCheckIn == other.LastPlaybackCheckIn &&
		stringPtrEqual(s.LastPausedDate, other.LastPausedDate) &&
		s.DeviceName == other.DeviceName &&
		s.NowPlayingItem.equal(&other.NowPlayingItem) &&
		s.CurrentPlaybackTimeStamp == other.CurrentPlaybackTimeStamp
}

func (p *PlayState) equal(other *PlayState) bool {
	return p.PositionTicks == other.PositionTicks &&
		p.CanSeek == other.CanSeek &&
		p.IsPaused == other.IsPaused &&
		p.IsMuted == other.IsMuted &&
		intPtrEqual(p.VolumeLevel, other.VolumeLevel) &&
		p.AudioStreamIndex == other.AudioStreamIndex &&
		p.SubtitleStreamIndex == other.SubtitleStreamIndex &&
		p.MediaSourceID == other.MediaSourceID &&
		p.PlayMethod == other.PlayMethod
}

func (n *NowPlayingItem) equal(other *NowPlayingItem) bool {
	return n.Name == other.Name &&
		n.ServerID == other.ServerID &&
		n.ID == other.ID &&
		stringMapsEqual(n.ProviderIDs, other.ProviderIDs) &&
		floatPtrEqual(n.VideoStreamInfo.AverageFrameRate, other.VideoStreamInfo.AverageFrameRate) &&
		floatPtrEqual(n.VideoStreamInfo.RealFrameRate, other.VideoStreamInfo.RealFrameRate) &&
		floatPtrEqual(n.VideoStreamInfo.ReferenceFrameRate, other.VideoStreamInfo.ReferenceFrameRate) &&
		stringPtrEqual(n.SeriesName, other.SeriesName) &&
		stringPtrEqual(n.SeasonName, other.SeasonName) &&
		stringPtrEqual(n.SeriesID, other.SeriesID) &&
		stringPtrEqual(n.SeasonID, other.SeasonID) &&
		n.RunTimeTicks == other.RunTimeTicks &&
		n.Path == other.Path
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func stringMapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}
