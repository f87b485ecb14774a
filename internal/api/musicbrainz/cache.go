package musicbrainz

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// diskCache is a time-boxed on-disk cache of raw response payloads. Each
// entry is one JSON file named by the request's cache key; the file
// modification time drives TTL expiry. Read failures of any kind are
// treated as misses.
type diskCache struct {
	dir        string
	ttl        time.Duration
	maxEntries int
	log        zerolog.Logger
}

func newDiskCache(dir string, ttl time.Duration, maxEntries int, log zerolog.Logger) *diskCache {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("failed to create cache directory")
	}
	return &diskCache{
		dir:        dir,
		ttl:        ttl,
		maxEntries: maxEntries,
		log:        log.With().Str("component", "cache").Logger(),
	}
}

// cacheKey derives a deterministic key from the endpoint and its sorted,
// serialized parameters.
func cacheKey(endpoint string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sorted := make(map[string]string, len(keys))
	for _, k := range keys {
		sorted[k] = params.Get(k)
	}
	serialized, _ := json.Marshal(sorted)

	sum := md5.Sum([]byte(endpoint + ":" + string(serialized)))
	return hex.EncodeToString(sum[:])
}

func (dc *diskCache) path(key string) string {
	return filepath.Join(dc.dir, key+".json")
}

// read returns the cached payload if the entry exists and is younger than
// the TTL. Any I/O or decode problem counts as a miss, never an error.
func (dc *diskCache) read(key string) ([]byte, bool) {
	file := dc.path(key)
	info, err := os.Stat(file)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) >= dc.ttl {
		return nil, false
	}

	data, err := os.ReadFile(file)
	if err != nil {
		dc.log.Warn().Err(err).Str("key", key).Msg("failed to read cache entry")
		return nil, false
	}
	if !json.Valid(data) {
		dc.log.Warn().Str("key", key).Msg("corrupt cache entry, treating as miss")
		return nil, false
	}
	return data, true
}

func (dc *diskCache) write(key string, data []byte) {
	if err := os.WriteFile(dc.path(key), data, 0644); err != nil {
		dc.log.Warn().Err(err).Str("key", key).Msg("failed to write cache entry")
	}
}

// cleanup deletes expired entries first, then the oldest remaining entries
// until the count is at or under the configured maximum.
func (dc *diskCache) cleanup() {
	entries, err := filepath.Glob(filepath.Join(dc.dir, "*.json"))
	if err != nil {
		return
	}

	type cacheFile struct {
		path    string
		modTime time.Time
	}
	var remaining []cacheFile

	now := time.Now()
	for _, path := range entries {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > dc.ttl {
			if err := os.Remove(path); err == nil {
				dc.log.Debug().Str("file", path).Msg("removed expired cache entry")
			}
			continue
		}
		remaining = append(remaining, cacheFile{path: path, modTime: info.ModTime()})
	}

	if len(remaining) <= dc.maxEntries {
		return
	}

	sort.Slice(remaining, func(i, j int) bool {
		return remaining[i].modTime.Before(remaining[j].modTime)
	})
	for _, f := range remaining[:len(remaining)-dc.maxEntries] {
		if err := os.Remove(f.path); err == nil {
			dc.log.Debug().Str("file", f.path).Msg("evicted old cache entry")
		}
	}
}

// invalidate removes all cache entries.
func (dc *diskCache) invalidate() error {
	entries, err := filepath.Glob(filepath.Join(dc.dir, "*.json"))
	if err != nil {
		return err
	}
	for _, path := range entries {
		if err := os.Remove(path); err != nil {
			return err
		}
	}
	return nil
}
