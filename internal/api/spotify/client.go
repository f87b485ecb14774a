// Package spotify resolves Spotify playlist and album URLs into plain
// track/artist pairs so they can be searched and downloaded through the
// regular pipeline.
package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/cargaona/dmx/internal/shared"
)

// Client wraps the Spotify Web API behind client-credentials auth. It is
// only constructed when credentials are present.
type Client struct {
	api *spotify.Client
	log zerolog.Logger
}

// NewClient authenticates with the client-credentials flow. Both ID and
// secret are required.
func NewClient(ctx context.Context, clientID, clientSecret string, log zerolog.Logger) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, &shared.ConfigError{Message: "spotify client ID and secret are required"}
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify authentication failed: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	return &Client{
		api: spotify.New(httpClient),
		log: log.With().Str("component", "spotify").Logger(),
	}, nil
}

// extractID pulls the entity ID out of a Spotify URL or URI.
func extractID(entity, ref string) (spotify.ID, error) {
	// spotify:playlist:<id> URIs
	if strings.HasPrefix(ref, "spotify:") {
		parts := strings.Split(ref, ":")
		if len(parts) == 3 && parts[1] == entity {
			return spotify.ID(parts[2]), nil
		}
		return "", &shared.ValidationError{Field: "url", Message: fmt.Sprintf("not a spotify %s URI: %s", entity, ref)}
	}

	marker := "/" + entity + "/"
	idx := strings.Index(ref, marker)
	if idx < 0 {
		return "", &shared.ValidationError{Field: "url", Message: fmt.Sprintf("not a spotify %s URL: %s", entity, ref)}
	}
	id := ref[idx+len(marker):]
	if cut := strings.IndexAny(id, "?#/"); cut >= 0 {
		id = id[:cut]
	}
	if id == "" {
		return "", &shared.ValidationError{Field: "url", Message: fmt.Sprintf("missing %s ID in %s", entity, ref)}
	}
	return spotify.ID(id), nil
}

// GetPlaylistTracks lists all tracks of a playlist URL or URI, following
// pagination.
func (c *Client) GetPlaylistTracks(ctx context.Context, ref string) ([]shared.TrackInfo, string, error) {
	id, err := extractID("playlist", ref)
	if err != nil {
		return nil, "", err
	}

	playlist, err := c.api.GetPlaylist(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get playlist: %w", err)
	}

	var tracks []shared.TrackInfo
	page, err := c.api.GetPlaylistItems(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get playlist items: %w", err)
	}
	for {
		for _, item := range page.Items {
			if item.Track.Track == nil {
				continue
			}
			t := item.Track.Track
			artist := ""
			if len(t.Artists) > 0 {
				artist = t.Artists[0].Name
			}
			tracks = append(tracks, shared.TrackInfo{Title: t.Name, Artist: artist})
		}
		if err := c.api.NextPage(ctx, page); err == spotify.ErrNoMorePages {
			break
		} else if err != nil {
			return nil, "", fmt.Errorf("failed to page playlist items: %w", err)
		}
	}

	c.log.Debug().Str("playlist", playlist.Name).Int("tracks", len(tracks)).Msg("resolved spotify playlist")
	return tracks, playlist.Name, nil
}

// GetAlbumTracks lists all tracks of an album URL or URI.
func (c *Client) GetAlbumTracks(ctx context.Context, ref string) ([]shared.TrackInfo, string, error) {
	id, err := extractID("album", ref)
	if err != nil {
		return nil, "", err
	}

	album, err := c.api.GetAlbum(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get album: %w", err)
	}

	artist := ""
	if len(album.Artists) > 0 {
		artist = album.Artists[0].Name
	}
	var tracks []shared.TrackInfo
	for _, t := range album.Tracks.Tracks {
		trackArtist := artist
		if len(t.Artists) > 0 {
			trackArtist = t.Artists[0].Name
		}
		tracks = append(tracks, shared.TrackInfo{Title: t.Name, Artist: trackArtist})
	}
	return tracks, album.Name, nil
}
