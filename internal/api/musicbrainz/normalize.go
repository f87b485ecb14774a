package musicbrainz

import (
	"sort"

	"github.com/cargaona/dmx/internal/shared"
)

// Raw MusicBrainz search entities. Only the fields the normalizer consumes.

type artistCredit struct {
	Name   string `json:"name"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
}

func (ac artistCredit) name() string {
	if ac.Name != "" {
		return ac.Name
	}
	return ac.Artist.Name
}

type recording struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Score        int            `json:"score"`
	Length       int            `json:"length"` // milliseconds
	ArtistCredit []artistCredit `json:"artist-credit"`
	Releases     []struct {
		Title string `json:"title"`
	} `json:"releases"`
}

type release struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Score        int            `json:"score"`
	TrackCount   int            `json:"track-count"`
	ArtistCredit []artistCredit `json:"artist-credit"`
}

type artist struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type searchResponse struct {
	Recordings []recording `json:"recordings"`
	Releases   []release   `json:"releases"`
	Artists    []artist    `json:"artists"`
}

const unknown = "Unknown"

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}

// normalize converts a raw search response for one entity type into the
// canonical result shape and ranks it by relevance score, descending. The
// sort is stable so ties keep upstream order.
func normalize(raw searchResponse, entity string) []shared.SearchResult {
	var results []shared.SearchResult

	switch entity {
	case "recording":
		for _, rec := range raw.Recordings {
			artistName := unknown
			if len(rec.ArtistCredit) > 0 {
				artistName = orUnknown(rec.ArtistCredit[0].name())
			}
			albumName := unknown
			if len(rec.Releases) > 0 {
				albumName = orUnknown(rec.Releases[0].Title)
			}
			results = append(results, shared.SearchResult{
				Type:     shared.KindTrack,
				ID:       rec.ID,
				Title:    orUnknown(rec.Title),
				Artist:   artistName,
				Album:    albumName,
				Duration: shared.FormatDuration(rec.Length / 1000),
				URL:      "https://musicbrainz.org/recording/" + rec.ID,
				Score:    rec.Score,
			})
		}
	case "release":
		for _, rel := range raw.Releases {
			artistName := unknown
			if len(rel.ArtistCredit) > 0 {
				artistName = orUnknown(rel.ArtistCredit[0].name())
			}
			results = append(results, shared.SearchResult{
				Type:       shared.KindAlbum,
				ID:         rel.ID,
				Title:      orUnknown(rel.Title),
				Artist:     artistName,
				TrackCount: rel.TrackCount,
				URL:        "https://musicbrainz.org/release/" + rel.ID,
				Score:      rel.Score,
			})
		}
	case "artist":
		for _, art := range raw.Artists {
			results = append(results, shared.SearchResult{
				Type:  shared.KindArtist,
				ID:    art.ID,
				Title: orUnknown(art.Name),
				URL:   "https://musicbrainz.org/artist/" + art.ID,
				Score: art.Score,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
