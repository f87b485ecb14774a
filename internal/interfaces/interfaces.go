package interfaces

import (
	"context"

	"github.com/cargaona/dmx/internal/shared"
)

// Capabilities describes what a backend can do. The search orchestrator
// selects its primary backend by capability, never by concrete type.
type Capabilities struct {
	Search   bool
	Download bool
}

// SearchBackend is a source of normalized search results.
type SearchBackend interface {
	// Name identifies the backend in status output and logs.
	Name() string

	// Capabilities reports what the backend supports.
	Capabilities() Capabilities

	// Available reports whether the backend was verified reachable.
	Available() bool

	// SearchTracks searches for tracks matching the query.
	SearchTracks(ctx context.Context, query string, limit int) ([]shared.SearchResult, error)

	// SearchAlbums searches for albums matching the query.
	SearchAlbums(ctx context.Context, query string, limit int) ([]shared.SearchResult, error)

	// SearchArtists searches for artists matching the query.
	SearchArtists(ctx context.Context, query string, limit int) ([]shared.SearchResult, error)
}

// ProfileBackend provides the artist drill-down view.
type ProfileBackend interface {
	// GetArtistProfile fetches artist info, top tracks and the full album list.
	GetArtistProfile(ctx context.Context, artistID string) (*shared.ArtistProfile, error)
}

// MetadataLookup resolves the minimal metadata the downloader needs for its
// existing-content checks.
type MetadataLookup interface {
	// GetAlbumInfo returns title, artist and expected track count for an album.
	GetAlbumInfo(ctx context.Context, albumID string) (*shared.AlbumInfo, error)

	// GetTrackInfo returns title and artist for a track.
	GetTrackInfo(ctx context.Context, trackID string) (*shared.TrackInfo, error)
}

// DownloadEngine is the opaque download backend. The orchestrator only
// knows how to ask for a URL at a quality tier and inspect the error.
type DownloadEngine interface {
	// Available reports whether the engine is installed and usable.
	Available() bool

	// Download fetches the content behind url at the given quality tier into
	// the engine's configured output directory. A *shared.QualityError means
	// the tier was rejected and a lower one may succeed.
	Download(ctx context.Context, url string, quality string) error
}
