package shared

import "time"

const (
	RequestTimeout = 30 * time.Second
	UserAgent      = "dmx/1.0 (Music Search Client)"
)

// ResultKind discriminates the three normalized result shapes.
type ResultKind string

const (
	KindTrack  ResultKind = "track"
	KindAlbum  ResultKind = "album"
	KindArtist ResultKind = "artist"
)

// SearchResult is the single normalized schema every backend maps into.
// Missing upstream strings become "Unknown" and missing numbers become 0,
// so consumers never have to nil-check.
type SearchResult struct {
	Type       ResultKind `json:"type"`
	ID         string     `json:"id"`
	Title      string     `json:"title"` // track/album title, or artist name
	Artist     string     `json:"artist,omitempty"`
	Album      string     `json:"album,omitempty"`
	Duration   string     `json:"duration,omitempty"` // mm:ss
	TrackCount int        `json:"tracks,omitempty"`
	AlbumCount int        `json:"albums,omitempty"`
	FanCount   int        `json:"fans,omitempty"`
	URL        string     `json:"url"`
	Score      int        `json:"score,omitempty"`
}

// Label returns the display name for a result regardless of its kind.
func (r SearchResult) Label() string {
	if r.Title != "" {
		return r.Title
	}
	return "Unknown"
}

// ArtistProfile is the nested artist sub-view: the artist's own info plus
// top tracks and the full downloadable album list.
type ArtistProfile struct {
	Artist    SearchResult   `json:"artist"`
	TopTracks []SearchResult `json:"top_tracks"`
	Albums    []SearchResult `json:"albums"`
}

// AlbumInfo is the minimal album metadata the downloader needs for its
// existing-content check.
type AlbumInfo struct {
	Title      string
	Artist     string
	TrackCount int
}

// TrackInfo is the minimal track metadata the downloader needs for its
// existing-content check.
type TrackInfo struct {
	Title  string
	Artist string
}

// SupportedQualities are the three accepted quality tiers, lowest first.
var SupportedQualities = []string{"128", "320", "FLAC"}

// IsValidQuality reports whether quality is one of the supported tiers.
func IsValidQuality(quality string) bool {
	for _, q := range SupportedQualities {
		if q == quality {
			return true
		}
	}
	return false
}

// AudioExtensions are the file extensions the downloader treats as audio
// when scanning the output directory.
var AudioExtensions = []string{".mp3", ".flac", ".m4a"}
