package deezer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/cargaona/dmx/internal/interfaces"
	"github.com/cargaona/dmx/internal/shared"
)

const (
	defaultBaseURL  = "https://api.deezer.com"
	requestInterval = 200 * time.Millisecond
	profileFetchers = 4 // parallel album-detail lookups in GetArtistProfile
)

// Client talks to the Deezer public API for search, artist profiles and
// entity lookups. It is the search side of the download-capable backend;
// actual downloads go through the engine.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger

	mu        sync.Mutex
	available bool
	verified  bool
}

// NewClient creates a Deezer API client.
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: shared.RequestTimeout},
		limiter:    rate.NewLimiter(rate.Every(requestInterval), 1),
		log:        log.With().Str("component", "deezer").Logger(),
	}
}

// NewClientWithBaseURL creates a client against a custom API root. Used by
// tests to point the client at a local server.
func NewClientWithBaseURL(baseURL string, log zerolog.Logger) *Client {
	c := NewClient(log)
	c.baseURL = baseURL
	return c
}

// Name implements interfaces.SearchBackend.
func (c *Client) Name() string { return "deezer" }

// Capabilities implements interfaces.SearchBackend. Deezer URLs are the
// ones the download engine understands.
func (c *Client) Capabilities() interfaces.Capabilities {
	return interfaces.Capabilities{Search: true, Download: true}
}

// Verify checks reachability of the API once and records the outcome.
// Available reports the recorded state afterwards.
func (c *Client) Verify(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.verified {
		return c.available
	}
	c.verified = true

	_, err := c.get(ctx, "/infos", nil)
	if err != nil {
		c.log.Warn().Err(err).Msg("deezer API not reachable")
		c.available = false
		return false
	}
	c.available = true
	return true
}

// Available implements interfaces.SearchBackend.
func (c *Client) Available() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verified && c.available
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", shared.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &shared.RateLimitError{Message: resp.Status}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &shared.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    shared.TruncateString(string(body), 200),
		}
	}
	return body, nil
}

// SearchTracks implements interfaces.SearchBackend.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]shared.SearchResult, error) {
	body, err := c.get(ctx, "/search/track", searchParams(query, limit))
	if err != nil {
		return nil, fmt.Errorf("deezer track search failed: %w", err)
	}
	var resp struct {
		Data []rawTrack `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode track search response: %w", err)
	}
	return formatTracks(resp.Data), nil
}

// SearchAlbums implements interfaces.SearchBackend.
func (c *Client) SearchAlbums(ctx context.Context, query string, limit int) ([]shared.SearchResult, error) {
	body, err := c.get(ctx, "/search/album", searchParams(query, limit))
	if err != nil {
		return nil, fmt.Errorf("deezer album search failed: %w", err)
	}
	var resp struct {
		Data []rawAlbum `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode album search response: %w", err)
	}
	return formatAlbums(resp.Data), nil
}

// SearchArtists implements interfaces.SearchBackend. Artists are ranked by
// fan count, highest first.
func (c *Client) SearchArtists(ctx context.Context, query string, limit int) ([]shared.SearchResult, error) {
	body, err := c.get(ctx, "/search/artist", searchParams(query, limit))
	if err != nil {
		return nil, fmt.Errorf("deezer artist search failed: %w", err)
	}
	var resp struct {
		Data []rawArtist `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode artist search response: %w", err)
	}
	return formatArtists(resp.Data), nil
}

// GetArtistProfile implements interfaces.ProfileBackend: artist info, top
// tracks and the full album list. Album track counts come from per-album
// lookups, fetched with bounded parallelism.
func (c *Client) GetArtistProfile(ctx context.Context, artistID string) (*shared.ArtistProfile, error) {
	body, err := c.get(ctx, "/artist/"+url.PathEscape(artistID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get artist %s: %w", artistID, err)
	}
	var info rawArtist
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to decode artist response: %w", err)
	}

	profile := &shared.ArtistProfile{Artist: formatArtist(info)}

	if body, err := c.get(ctx, "/artist/"+url.PathEscape(artistID)+"/top", url.Values{"limit": {"10"}}); err == nil {
		var top struct {
			Data []rawTrack `json:"data"`
		}
		if err := json.Unmarshal(body, &top); err == nil {
			profile.TopTracks = formatTracks(top.Data)
		}
	} else {
		c.log.Warn().Err(err).Str("artist", artistID).Msg("failed to fetch top tracks")
	}

	body, err = c.get(ctx, "/artist/"+url.PathEscape(artistID)+"/albums", url.Values{"limit": {"500"}})
	if err != nil {
		c.log.Warn().Err(err).Str("artist", artistID).Msg("failed to fetch albums")
		return profile, nil
	}
	var albumsResp struct {
		Data []rawAlbum `json:"data"`
	}
	if err := json.Unmarshal(body, &albumsResp); err != nil {
		return profile, nil
	}

	albums := formatAlbums(albumsResp.Data)

	// The album listing omits track counts; fill them in from per-album
	// lookups without hammering the API.
	var wg sync.WaitGroup
	sem := semaphore.NewWeighted(profileFetchers)
	for i := range albums {
		if albums[i].TrackCount > 0 {
			continue
		}
		wg.Add(1)
		go func(album *shared.SearchResult) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)
			if detail, err := c.GetAlbumInfo(ctx, album.ID); err == nil {
				album.TrackCount = detail.TrackCount
			}
		}(&albums[i])
	}
	wg.Wait()

	profile.Albums = albums
	return profile, nil
}

// GetAlbumInfo implements interfaces.MetadataLookup.
func (c *Client) GetAlbumInfo(ctx context.Context, albumID string) (*shared.AlbumInfo, error) {
	body, err := c.get(ctx, "/album/"+url.PathEscape(albumID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get album %s: %w", albumID, err)
	}
	var raw rawAlbum
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode album response: %w", err)
	}
	return &shared.AlbumInfo{
		Title:      orUnknown(raw.Title),
		Artist:     orUnknown(raw.Artist.Name),
		TrackCount: raw.TrackCount,
	}, nil
}

// GetTrackInfo implements interfaces.MetadataLookup.
func (c *Client) GetTrackInfo(ctx context.Context, trackID string) (*shared.TrackInfo, error) {
	body, err := c.get(ctx, "/track/"+url.PathEscape(trackID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get track %s: %w", trackID, err)
	}
	var raw rawTrack
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode track response: %w", err)
	}
	return &shared.TrackInfo{
		Title:  orUnknown(raw.Title),
		Artist: orUnknown(raw.Artist.Name),
	}, nil
}

func searchParams(query string, limit int) url.Values {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	return params
}
