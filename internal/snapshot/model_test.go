package snapshot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-jf-snapshot/internal/jellyfin"
)

func ptr[T any](v T) *T {
	return &v
}

// rawSession returns a complete upstream session in the shape the server
// sends for an episode of a series.
func rawSession() *jellyfin.Session {
	return &jellyfin.Session{
		ID:                  "1c0071e3fa83989a9ddb264af0a23e58",
		UserID:              "f5be1b729aac4ad3a5eea0264d12a524",
		UserName:            "Big Bois",
		Client:              "Jellyfin Media Player",
		DeviceName:          "Alec's MacBook Pro",
		RemoteEndPoint:      "172.21.0.3",
		PlayableMediaTypes:  []string{"Audio", "Video"},
		LastActivityDate:    "2025-02-06T04:16:24.3261024Z",
		LastPlaybackCheckIn: "2025-02-06T04:16:24.3261025Z",
		LastPausedDate:      ptr("2025-02-06T04:16:03.3489325Z"),
		PlayState: &jellyfin.PlayState{
			PositionTicks:       30009100000,
			CanSeek:             true,
			IsPaused:            true,
			IsMuted:             false,
			VolumeLevel:         ptr(82),
			AudioStreamIndex:    1,
			SubtitleStreamIndex: -1,
			MediaSourceID:       "b67f1b7fdf783febee0a45b7dca2efdb",
			PlayMethod:          "DirectPlay",
		},
		NowPlayingItem: &jellyfin.NowPlayingItem{
			Name:     "When It Rains, It Pours",
			ServerID: "7bc43eb3bf2c4266980f3e30ab4d8fa4",
			ID:       "b67f1b7fdf783febee0a45b7dca2efdb",
			ProviderIDs: map[string]string{
				"Tvdb":   "2832681",
				"Imdb":   "tt1635814",
				"TvRage": "1064979918",
			},
			MediaStreams: []jellyfin.MediaStream{
				{
					AverageFrameRate:   ptr(23.976025),
					RealFrameRate:      ptr(23.976025),
					ReferenceFrameRate: ptr(23.976025),
					Type:               "Video",
				},
			},
			SeriesName:   ptr("It's Always Funny"),
			SeasonName:   ptr("Season 2"),
			SeriesID:     ptr("series-1"),
			SeasonID:     ptr("season-2"),
			IndexNumber:  ptr(4),
			RunTimeTicks: 13337000000,
			Path:         "/media/tv/when-it-rains.mkv",
		},
	}
}

func TestNewPlaybackSession(t *testing.T) {
	snap, err := NewPlaybackSession(rawSession())
	require.NoError(t, err)

	assert.Equal(t, "Big Bois", snap.UserName)
	assert.Equal(t, "Alec's MacBook Pro", snap.DeviceName)
	assert.True(t, snap.PlayState.IsPaused)
	assert.Equal(t, int64(30009100000), snap.PlayState.PositionTicks)
	require.NotNil(t, snap.PlayState.VolumeLevel)
	assert.Equal(t, 82, *snap.PlayState.VolumeLevel)

	// Derived, not carried from input.
	assert.Equal(t, "0:50:00", snap.CurrentPlaybackTimeStamp)

	// Stream metadata resolved from the MediaStreams list.
	require.NotNil(t, snap.NowPlayingItem.VideoStreamInfo.AverageFrameRate)
	assert.Equal(t, 23.976025, *snap.NowPlayingItem.VideoStreamInfo.AverageFrameRate)
}

func TestNewPlaybackSessionRequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*jellyfin.Session)
		wantField string
	}{
		{"missing play state", func(s *jellyfin.Session) { s.PlayState = nil }, "PlayState"},
		{"missing now playing item", func(s *jellyfin.Session) { s.NowPlayingItem = nil }, "NowPlayingItem"},
		{"missing remote endpoint", func(s *jellyfin.Session) { s.RemoteEndPoint = "" }, "RemoteEndPoint"},
		{"missing id", func(s *jellyfin.Session) { s.ID = "" }, "Id"},
		{"missing user id", func(s *jellyfin.Session) { s.UserID = "" }, "UserId"},
		{"missing user name", func(s *jellyfin.Session) { s.UserName = "" }, "UserName"},
		{"missing client", func(s *jellyfin.Session) { s.Client = "" }, "Client"},
		{"missing device name", func(s *jellyfin.Session) { s.DeviceName = "" }, "DeviceName"},
		{"missing item name", func(s *jellyfin.Session) { s.NowPlayingItem.Name = "" }, "NowPlayingItem.Name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawSession()
			tt.mutate(raw)

			_, err := NewPlaybackSession(raw)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestNewPlaybackSessionOptionalFields(t *testing.T) {
	raw := rawSession()
	raw.LastPausedDate = nil
	raw.NowPlayingItem.SeriesName = nil
	raw.NowPlayingItem.SeasonName = nil
	raw.NowPlayingItem.SeriesID = nil
	raw.NowPlayingItem.SeasonID = nil

	snap, err := NewPlaybackSession(raw)
	require.NoError(t, err)

	assert.Nil(t, snap.LastPausedDate)
	assert.Nil(t, snap.NowPlayingItem.SeriesName)
	assert.Nil(t, snap.NowPlayingItem.SeasonName)
}

func TestNewVideoStreamInfoShapes(t *testing.T) {
	t.Run("explicit field preferred over media streams", func(t *testing.T) {
		raw := rawSession()
		raw.NowPlayingItem.VideoStreamInfo = &jellyfin.MediaStream{
			AverageFrameRate: ptr(60.0),
		}

		snap, err := NewPlaybackSession(raw)
		require.NoError(t, err)
		require.NotNil(t, snap.NowPlayingItem.VideoStreamInfo.AverageFrameRate)
		assert.Equal(t, 60.0, *snap.NowPlayingItem.VideoStreamInfo.AverageFrameRate)
	})

	t.Run("neither shape present leaves rates nil", func(t *testing.T) {
		raw := rawSession()
		raw.NowPlayingItem.VideoStreamInfo = nil
		raw.NowPlayingItem.MediaStreams = nil

		snap, err := NewPlaybackSession(raw)
		require.NoError(t, err)
		assert.Nil(t, snap.NowPlayingItem.VideoStreamInfo.AverageFrameRate)
		assert.Nil(t, snap.NowPlayingItem.VideoStreamInfo.RealFrameRate)
		assert.Nil(t, snap.NowPlayingItem.VideoStreamInfo.ReferenceFrameRate)
	})
}

func TestPlaybackSessionRoundTrip(t *testing.T) {
	snap, err := NewPlaybackSession(rawSession())
	require.NoError(t, err)

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	// Persisted field names keep the upstream casing.
	assert.Contains(t, string(data), `"UserName"`)
	assert.Contains(t, string(data), `"PlayState"`)
	assert.Contains(t, string(data), `"CurrentPlaybackTimeStamp"`)

	var restored PlaybackSession
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.True(t, snap.Equal(&restored))
}

func TestPlaybackSessionEqual(t *testing.T) {
	a, err := NewPlaybackSession(rawSession())
	require.NoError(t, err)
	b, err := NewPlaybackSession(rawSession())
	require.NoError(t, err)

	assert.True(t, a.Equal(b))

	raw := rawSession()
	raw.PlayState.PositionTicks = 31009100000
	c, err := NewPlaybackSession(raw)
	require.NoError(t, err)

	assert.False(t, a.Equal(c))
}
