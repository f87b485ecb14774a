package shared

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// ErrorKind buckets errors for the session status report.
type ErrorKind string

const (
	ErrKindValidation ErrorKind = "validation"
	ErrKindNetwork    ErrorKind = "network"
	ErrKindConfig     ErrorKind = "config"
	ErrKindDownload   ErrorKind = "download"
)

// ValidationError reports bad user input (empty query, malformed selection,
// out-of-range index).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s - %s", e.StatusCode, e.Status, e.Message)
}

// RateLimitError is the distinct error for 429 responses.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded: %s", e.Message)
}

// ConfigError reports missing or invalid configuration.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// QualityError is returned by the download engine when a request fails for
// a quality/bitrate-related reason. The downloader treats it as a signal to
// fall through to the next tier; any other error aborts the attempt.
type QualityError struct {
	Tier    string
	Message string
}

func (e *QualityError) Error() string {
	return fmt.Sprintf("quality %s unavailable: %s", e.Tier, e.Message)
}

// IsQualityError reports whether err is a quality-related rejection.
func IsQualityError(err error) bool {
	var qe *QualityError
	return errors.As(err, &qe)
}

// DownloadError reports a failed download with a user-facing reason.
type DownloadError struct {
	URL     string
	Message string
}

func (e *DownloadError) Error() string {
	return e.Message
}

// IsRetryableHTTPError checks if an HTTP error should be retried
func IsRetryableHTTPError(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusServiceUnavailable,
			http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusGatewayTimeout:
			return true
		}
	}
	var rateErr *RateLimitError
	return errors.As(err, &rateErr)
}

// ErrorReporter counts errors by kind and logs them. One reporter is
// created per session and passed into each component instead of any global
// state.
type ErrorReporter struct {
	mu     sync.Mutex
	counts map[ErrorKind]int
	log    zerolog.Logger
}

// NewErrorReporter creates a reporter that logs through the given logger.
func NewErrorReporter(log zerolog.Logger) *ErrorReporter {
	return &ErrorReporter{
		counts: make(map[ErrorKind]int),
		log:    log,
	}
}

// Report records an error under the given kind and logs it with its
// operation context.
func (r *ErrorReporter) Report(kind ErrorKind, operation string, err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	r.counts[kind]++
	r.mu.Unlock()
	r.log.Warn().Str("operation", operation).Str("kind", string(kind)).Err(err).Msg("error reported")
}

// Stats returns a copy of the per-kind error counts.
func (r *ErrorReporter) Stats() map[ErrorKind]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := make(map[ErrorKind]int, len(r.counts))
	for k, v := range r.counts {
		stats[k] = v
	}
	return stats
}

// Kinds returns the kinds with recorded errors, sorted for stable output.
func (r *ErrorReporter) Kinds() []ErrorKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]ErrorKind, 0, len(r.counts))
	for k := range r.counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
