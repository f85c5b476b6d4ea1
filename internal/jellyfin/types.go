package jellyfin

// Session is one entry from GET /Sessions, decoded as the server sends it.
// Optional members are pointers so that absence survives decoding and can be
// told apart from zero values during model construction.
type Session struct {
	ID                  string          `json:"Id"`
	UserID              string          `json:"UserId"`
	UserName            string          `json:"UserName"`
	Client              string          `json:"Client"`
	DeviceName          string          `json:"DeviceName"`
	RemoteEndPoint      string          `json:"RemoteEndPoint"`
	PlayableMediaTypes  []string        `json:"PlayableMediaTypes"`
	LastActivityDate    string          `json:"LastActivityDate"`
	LastPlaybackCheckIn string          `json:"LastPlaybackCheckIn"`
	LastPausedDate      *string         `json:"LastPausedDate,omitempty"`
	PlayState           *PlayState      `json:"PlayState,omitempty"`
	NowPlayingItem      *NowPlayingItem `json:"NowPlayingItem,omitempty"`
}

// PlayState describes the playback position and transport flags of a session.
type PlayState struct {
	PositionTicks       int64  `json:"PositionTicks"`
	CanSeek             bool   `json:"CanSeek"`
	IsPaused            bool   `json:"IsPaused"`
	IsMuted             bool   `json:"IsMuted"`
	VolumeLevel         *int   `json:"VolumeLevel,omitempty"`
	AudioStreamIndex    int    `json:"AudioStreamIndex"`
	SubtitleStreamIndex int    `json:"SubtitleStreamIndex"`
	MediaSourceID       string `json:"MediaSourceId"`
	PlayMethod          string `json:"PlayMethod"`
}

// NowPlayingItem is the media unit attached to an active session.
// SeriesName/SeasonName/SeriesId/SeasonId are absent for movies.
type NowPlayingItem struct {
	Name            string            `json:"Name"`
	ServerID        string            `json:"ServerId"`
	ID              string            `json:"Id"`
	ProviderIDs     map[string]string `json:"ProviderIds"`
	VideoStreamInfo *MediaStream      `json:"VideoStreamInfo,omitempty"`
	MediaStreams    []MediaStream     `json:"MediaStreams,omitempty"`
	SeriesName      *string           `json:"SeriesName,omitempty"`
	SeasonName      *string           `json:"SeasonName,omitempty"`
	SeriesID        *string           `json:"SeriesId,omitempty"`
	SeasonID        *string           `json:"SeasonId,omitempty"`
	IndexNumber     *int              `json:"IndexNumber,omitempty"`
	RunTimeTicks    int64             `json:"RunTimeTicks"`
	Path            string            `json:"Path"`
}

// MediaStream carries the video stream metadata we care about. The server
// reports frame rates either on an explicit VideoStreamInfo member or as the
// first entry of MediaStreams; both decode into this shape.
type MediaStream struct {
	AverageFrameRate   *float64 `json:"AverageFrameRate,omitempty"`
	RealFrameRate      *float64 `json:"RealFrameRate,omitempty"`
	ReferenceFrameRate *float64 `json:"ReferenceFrameRate,omitempty"`
	Type               string   `json:"Type,omitempty"`
}

// PublicSystemInfo from GET /System/Info/Public, used as a connectivity probe.
type PublicSystemInfo struct {
	ServerName string `json:"ServerName"`
	Version    string `json:"Version"`
	ID         string `json:"Id"`
}
