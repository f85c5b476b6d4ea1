package snapshot

import (
	"fmt"

	"github.com/opd-ai/go-jf-snapshot/internal/jellyfin"
)

// Item is a simplified view of the playing media used in session summaries,
// polymorphic over shows and movies.
type Item interface {
	Title() string
}

// ShowItem is an episode of a series.
type ShowItem struct {
	Type          string  `json:"type"`
	Name          string  `json:"name"`
	ImdbID        *string `json:"imdb_id"`
	SeriesName    string  `json:"series_name"`
	SeasonName    string  `json:"season_name"`
	EpisodeNumber int     `json:"episode_number"`
}

// Title composes "series - season - episode - name".
func (s ShowItem) Title() string {
	return fmt.Sprintf("%s - %s - %d - %s", s.SeriesName, s.SeasonName, s.EpisodeNumber, s.Name)
}

// MovieItem is a standalone film; its title is just its name.
type MovieItem struct {
	Type   string  `json:"type"`
	Name   string  `json:"name"`
	ImdbID *string `json:"imdb_id"`
}

func (m MovieItem) Title() string {
	return m.Name
}

// ItemFromSession builds the item view from a raw session. A session is a
// show iff its season name is present; this is the sole discriminant, so a
// movie erroneously carrying a season name is classified as a show.
// Returns nil when the session has nothing playing.
func ItemFromSession(raw *jellyfin.Session) Item {
	if raw.NowPlayingItem == nil {
		return nil
	}
	np := raw.NowPlayingItem

	var imdbID *string
	if id, ok := np.ProviderIDs["Imdb"]; ok {
		imdbID = &id
	}

	if np.SeasonName != nil {
		var seriesName string
		if np.SeriesName != nil {
			seriesName = *np.SeriesName
		}
		var episode int
		if np.IndexNumber != nil {
			episode = *np.IndexNumber
		}

		return ShowItem{
			Type:          "Show",
			Name:          np.Name,
			ImdbID:        imdbID,
			SeriesName:    seriesName,
			SeasonName:    *np.SeasonName,
			EpisodeNumber: episode,
		}
	}

	return MovieItem{
		Type:   "Movie",
		Name:   np.Name,
		ImdbID: imdbID,
	}
}
