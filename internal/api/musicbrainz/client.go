package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/cargaona/dmx/internal/interfaces"
	"github.com/cargaona/dmx/internal/shared"
)

const (
	defaultBaseURL        = "https://musicbrainz.org/ws/2/"
	defaultTimeout        = 30 * time.Second
	defaultRequestsPerSec = 5.0
	defaultBurstSize      = 10
	defaultCooldown       = 1 * time.Second
	defaultMaxRetries     = 3
	defaultInitialDelay   = 2 * time.Second
	defaultMaxDelay       = 30 * time.Second
)

// Config holds configuration for the MusicBrainz client.
type Config struct {
	BaseURL        string
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	RequestsPerSec float64
	BurstSize      int
	Cooldown       time.Duration
	CacheDir       string
	CacheTTL       time.Duration
	MaxCacheSize   int
}

// DefaultConfig returns sensible defaults for the MusicBrainz client.
func DefaultConfig() Config {
	return Config{
		BaseURL:        defaultBaseURL,
		UserAgent:      shared.UserAgent,
		Timeout:        defaultTimeout,
		MaxRetries:     defaultMaxRetries,
		InitialDelay:   defaultInitialDelay,
		MaxDelay:       defaultMaxDelay,
		RequestsPerSec: defaultRequestsPerSec,
		BurstSize:      defaultBurstSize,
		Cooldown:       defaultCooldown,
		CacheTTL:       time.Hour,
		MaxCacheSize:   1000,
	}
}

// Client is the metadata-only fallback backend: a MusicBrainz search client
// with request pacing and a time-boxed on-disk cache. It needs no
// credentials.
type Client struct {
	httpClient *http.Client
	config     Config
	limiter    *rate.Limiter
	cache      *diskCache
	log        zerolog.Logger

	mu          sync.Mutex
	burstCount  int
	lastRequest time.Time
}

// NewClient creates a MusicBrainz client with default configuration.
func NewClient(log zerolog.Logger) *Client {
	return NewClientWithConfig(DefaultConfig(), log)
}

// NewClientWithConfig creates a MusicBrainz client with custom configuration.
func NewClientWithConfig(config Config, log zerolog.Logger) *Client {
	var cache *diskCache
	if config.CacheDir != "" {
		cache = newDiskCache(config.CacheDir, config.CacheTTL, config.MaxCacheSize, log)
	}
	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSec), 1),
		cache:      cache,
		log:        log.With().Str("component", "musicbrainz").Logger(),
	}
}

// Name implements interfaces.SearchBackend.
func (c *Client) Name() string { return "musicbrainz" }

// Capabilities implements interfaces.SearchBackend. MusicBrainz is
// metadata-only: its URLs are not downloadable.
func (c *Client) Capabilities() interfaces.Capabilities {
	return interfaces.Capabilities{Search: true}
}

// Available implements interfaces.SearchBackend. MusicBrainz requires no
// setup, so the client is always considered available.
func (c *Client) Available() bool { return true }

// waitTurn applies both rate-limiting layers: the burst counter with its
// cooldown window, and the minimum inter-request interval.
func (c *Client) waitTurn(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	if now.Sub(c.lastRequest) > c.config.Cooldown {
		c.burstCount = 0
	}
	var cooldownWait time.Duration
	if c.burstCount >= c.config.BurstSize {
		cooldownWait = c.config.Cooldown - now.Sub(c.lastRequest)
		c.burstCount = 0
	}
	c.mu.Unlock()

	if cooldownWait > 0 {
		c.log.Debug().Dur("wait", cooldownWait).Msg("burst limit reached, cooling down")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cooldownWait):
		}
	}

	// Suspends until the minimum inter-request interval has elapsed.
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	c.mu.Lock()
	c.burstCount++
	c.lastRequest = time.Now()
	c.mu.Unlock()
	return nil
}

// get fetches endpoint with params, consulting the cache first. Successful
// responses are written back to the cache.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	key := cacheKey(endpoint, params)
	if c.cache != nil {
		if data, ok := c.cache.read(key); ok {
			c.log.Debug().Str("endpoint", endpoint).Msg("cache hit")
			return data, nil
		}
	}

	if err := c.waitTurn(ctx); err != nil {
		return nil, err
	}

	body, err := c.fetch(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.write(key, body)
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL, err := url.Parse(c.config.BaseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, &shared.HTTPError{
				StatusCode: http.StatusGatewayTimeout,
				Status:     "Gateway Timeout",
				Message:    err.Error(),
			}
		}
		return nil, err
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
		message := string(body)
		if len(message) > 200 {
			message = message[:200] + "..."
		}
		return nil, &shared.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    message,
		}
	}

	return body, nil
}

// search queries one MusicBrainz entity type and returns normalized results.
func (c *Client) search(ctx context.Context, entity, query string, limit int) ([]shared.SearchResult, error) {
	if limit > 100 {
		limit = 100
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", fmt.Sprintf("%d", limit))

	var body []byte
	err := shared.RetryWithBackoff(ctx, c.config.MaxRetries, c.config.InitialDelay, c.config.MaxDelay, func() error {
		var err error
		body, err = c.get(ctx, entity, params)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("musicbrainz %s search failed: %w", entity, err)
	}

	var raw searchResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode %s search response: %w", entity, err)
	}
	return normalize(raw, entity), nil
}

// SearchTracks implements interfaces.SearchBackend.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]shared.SearchResult, error) {
	return c.search(ctx, "recording", query, limit)
}

// SearchAlbums implements interfaces.SearchBackend.
func (c *Client) SearchAlbums(ctx context.Context, query string, limit int) ([]shared.SearchResult, error) {
	return c.search(ctx, "release", query, limit)
}

// SearchArtists implements interfaces.SearchBackend.
func (c *Client) SearchArtists(ctx context.Context, query string, limit int) ([]shared.SearchResult, error) {
	return c.search(ctx, "artist", query, limit)
}

// Cleanup removes expired cache entries, then evicts the oldest entries
// until the cache is back under its size cap.
func (c *Client) Cleanup() {
	if c.cache != nil {
		c.cache.cleanup()
	}
}

// Invalidate drops every cache entry.
func (c *Client) Invalidate() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.invalidate()
}
