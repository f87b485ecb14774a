// Package search routes queries to the right backend. The primary backend
// is the download-capable one; when it is unavailable or comes back empty
// the metadata-only fallback answers instead.
package search

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cargaona/dmx/internal/interfaces"
	"github.com/cargaona/dmx/internal/shared"
)

// Orchestrator fans a query out to the primary backend and falls back to
// the secondary when needed. Backend errors never surface to the caller;
// the worst outcome of a search is an empty result set.
type Orchestrator struct {
	primary   interfaces.SearchBackend
	secondary interfaces.SearchBackend
	log       zerolog.Logger
}

// NewOrchestrator wires the two backends. primary should be the
// download-capable one so result URLs feed straight into the downloader.
func NewOrchestrator(primary, secondary interfaces.SearchBackend, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		primary:   primary,
		secondary: secondary,
		log:       log.With().Str("component", "search").Logger(),
	}
}

// PrimaryName returns the name of the primary backend for status output.
func (o *Orchestrator) PrimaryName() string { return o.primary.Name() }

// SecondaryName returns the name of the fallback backend for status output.
func (o *Orchestrator) SecondaryName() string { return o.secondary.Name() }

// PrimaryAvailable reports whether the download-capable backend is usable.
func (o *Orchestrator) PrimaryAvailable() bool { return o.primary.Available() }

type searchFn func(ctx context.Context, backend interfaces.SearchBackend) ([]shared.SearchResult, error)

func (o *Orchestrator) run(ctx context.Context, what string, fn searchFn) []shared.SearchResult {
	if o.primary.Available() {
		results, err := fn(ctx, o.primary)
		if err != nil {
			o.log.Warn().Err(err).Str("backend", o.primary.Name()).Str("entity", what).Msg("primary search failed, trying fallback")
		} else if len(results) > 0 {
			return results
		}
	} else {
		o.log.Debug().Str("backend", o.primary.Name()).Msg("primary backend unavailable")
	}

	results, err := fn(ctx, o.secondary)
	if err != nil {
		o.log.Warn().Err(err).Str("backend", o.secondary.Name()).Str("entity", what).Msg("fallback search failed")
		return nil
	}
	return results
}

// SearchTracks returns track results, primary first with fallback.
func (o *Orchestrator) SearchTracks(ctx context.Context, query string, limit int) []shared.SearchResult {
	return o.run(ctx, "track", func(ctx context.Context, b interfaces.SearchBackend) ([]shared.SearchResult, error) {
		return b.SearchTracks(ctx, query, limit)
	})
}

// SearchAlbums returns album results, primary first with fallback.
func (o *Orchestrator) SearchAlbums(ctx context.Context, query string, limit int) []shared.SearchResult {
	return o.run(ctx, "album", func(ctx context.Context, b interfaces.SearchBackend) ([]shared.SearchResult, error) {
		return b.SearchAlbums(ctx, query, limit)
	})
}

// SearchArtists returns artist results, primary first with fallback.
func (o *Orchestrator) SearchArtists(ctx context.Context, query string, limit int) []shared.SearchResult {
	return o.run(ctx, "artist", func(ctx context.Context, b interfaces.SearchBackend) ([]shared.SearchResult, error) {
		return b.SearchArtists(ctx, query, limit)
	})
}

// Search dispatches by result kind.
func (o *Orchestrator) Search(ctx context.Context, kind shared.ResultKind, query string, limit int) []shared.SearchResult {
	switch kind {
	case shared.KindAlbum:
		return o.SearchAlbums(ctx, query, limit)
	case shared.KindArtist:
		return o.SearchArtists(ctx, query, limit)
	default:
		return o.SearchTracks(ctx, query, limit)
	}
}
