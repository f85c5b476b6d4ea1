package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemFromSessionShow(t *testing.T) {
	raw := rawSession()

	item := ItemFromSession(raw)
	require.NotNil(t, item)

	show, ok := item.(ShowItem)
	require.True(t, ok, "session with a season name should yield a show")
	assert.Equal(t, "Show", show.Type)
	assert.Equal(t, "It's Always Funny - Season 2 - 4 - When It Rains, It Pours", show.Title())
	require.NotNil(t, show.ImdbID)
	assert.Equal(t, "tt1635814", *show.ImdbID)
}

func TestItemFromSessionMovie(t *testing.T) {
	raw := rawSession()
	raw.NowPlayingItem.SeriesName = nil
	raw.NowPlayingItem.SeasonName = nil
	raw.NowPlayingItem.Name = "Heat"

	item := ItemFromSession(raw)
	require.NotNil(t, item)

	movie, ok := item.(MovieItem)
	require.True(t, ok, "session without a season name should yield a movie")
	assert.Equal(t, "Movie", movie.Type)
	assert.Equal(t, "Heat", movie.Title())
}

// Season name presence is the sole discriminant: an item with a season name
// but no series name is still classified as a show.
func TestItemFromSessionSeasonNameOnly(t *testing.T) {
	raw := rawSession()
	raw.NowPlayingItem.SeriesName = nil

	item := ItemFromSession(raw)
	show, ok := item.(ShowItem)
	require.True(t, ok)
	assert.Equal(t, "", show.SeriesName)
}

func TestItemFromSessionNothingPlaying(t *testing.T) {
	raw := rawSession()
	raw.NowPlayingItem = nil

	assert.Nil(t, ItemFromSession(raw))
}

func TestItemFromSessionNoImdbID(t *testing.T) {
	raw := rawSession()
	raw.NowPlayingItem.ProviderIDs = map[string]string{"Tvdb": "2832681"}

	show, ok := ItemFromSession(raw).(ShowItem)
	require.True(t, ok)
	assert.Nil(t, show.ImdbID)
}
