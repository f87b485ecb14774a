package deezer

import (
	"encoding/json"
	"sort"

	"github.com/cargaona/dmx/internal/shared"
)

// Raw Deezer API entities. IDs are numeric in the wire format.

type rawTrack struct {
	ID       json.Number `json:"id"`
	Title    string      `json:"title"`
	Duration int         `json:"duration"` // seconds
	Artist   struct {
		Name string `json:"name"`
	} `json:"artist"`
	Album struct {
		Title string `json:"title"`
	} `json:"album"`
	Link string `json:"link"`
}

type rawAlbum struct {
	ID     json.Number `json:"id"`
	Title  string      `json:"title"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
	TrackCount int    `json:"nb_tracks"`
	Link       string `json:"link"`
}

type rawArtist struct {
	ID         json.Number `json:"id"`
	Name       string      `json:"name"`
	AlbumCount int         `json:"nb_album"`
	FanCount   int         `json:"nb_fan"`
	Link       string      `json:"link"`
}

const unknown = "Unknown"

func orUnknown(s string) string {
	if s == "" {
		return unknown
	}
	return s
}

func trackURL(id string) string  { return "https://www.deezer.com/track/" + id }
func albumURL(id string) string  { return "https://www.deezer.com/album/" + id }
func artistURL(id string) string { return "https://www.deezer.com/artist/" + id }

func formatTracks(tracks []rawTrack) []shared.SearchResult {
	results := make([]shared.SearchResult, 0, len(tracks))
	for _, t := range tracks {
		id := t.ID.String()
		results = append(results, shared.SearchResult{
			Type:     shared.KindTrack,
			ID:       id,
			Title:    orUnknown(t.Title),
			Artist:   orUnknown(t.Artist.Name),
			Album:    orUnknown(t.Album.Title),
			Duration: shared.FormatDuration(t.Duration),
			URL:      trackURL(id),
		})
	}
	return results
}

func formatAlbums(albums []rawAlbum) []shared.SearchResult {
	results := make([]shared.SearchResult, 0, len(albums))
	for _, a := range albums {
		id := a.ID.String()
		results = append(results, shared.SearchResult{
			Type:       shared.KindAlbum,
			ID:         id,
			Title:      orUnknown(a.Title),
			Artist:     orUnknown(a.Artist.Name),
			TrackCount: a.TrackCount,
			URL:        albumURL(id),
		})
	}
	return results
}

func formatArtist(a rawArtist) shared.SearchResult {
	id := a.ID.String()
	return shared.SearchResult{
		Type:       shared.KindArtist,
		ID:         id,
		Title:      orUnknown(a.Name),
		AlbumCount: a.AlbumCount,
		FanCount:   a.FanCount,
		URL:        artistURL(id),
	}
}

func formatArtists(artists []rawArtist) []shared.SearchResult {
	results := make([]shared.SearchResult, 0, len(artists))
	for _, a := range artists {
		results = append(results, formatArtist(a))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FanCount > results[j].FanCount
	})
	return results
}
