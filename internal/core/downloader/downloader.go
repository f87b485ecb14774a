// Package downloader decides whether and how to download a Deezer URL:
// skip work that already exists on disk, walk the quality ladder when a
// tier is rejected, and verify that the engine actually produced files.
package downloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cargaona/dmx/internal/interfaces"
	"github.com/cargaona/dmx/internal/shared"
)

// minimum fraction of an album's tracks already on disk for the album to
// count as downloaded
const existingAlbumThreshold = 0.8

// settle time between the engine returning and the verification scan, so
// file writes flushed by the engine become visible
var verifyGrace = 2 * time.Second

// Orchestrator runs downloads through the engine with skip checks and
// quality fallback.
type Orchestrator struct {
	engine    interfaces.DownloadEngine
	metadata  interfaces.MetadataLookup
	outputDir string
	quality   string
	hasARL    bool
	log       zerolog.Logger
}

// NewOrchestrator builds a download orchestrator. quality is the preferred
// tier; lower tiers are tried when the engine rejects it.
func NewOrchestrator(engine interfaces.DownloadEngine, metadata interfaces.MetadataLookup, outputDir, quality string, hasARL bool, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		engine:    engine,
		metadata:  metadata,
		outputDir: outputDir,
		quality:   quality,
		hasARL:    hasARL,
		log:       log.With().Str("component", "downloader").Logger(),
	}
}

// Ready reports whether downloads can run at all, with a reason when not.
func (o *Orchestrator) Ready() (bool, string) {
	if !o.engine.Available() {
		return false, "deemix not installed - cannot download without proper setup"
	}
	if !o.hasARL {
		return false, "no ARL token configured - run 'dmx config set arl <token>'"
	}
	return true, ""
}

// Download fetches the content behind a Deezer track or album URL into the
// output directory. Content already on disk is a success without touching
// the engine.
func (o *Orchestrator) Download(ctx context.Context, url string) error {
	if ready, reason := o.Ready(); !ready {
		return &shared.DownloadError{URL: url, Message: reason}
	}

	kind, id, err := parseDeezerURL(url)
	if err != nil {
		return err
	}

	if o.alreadyDownloaded(ctx, kind, id) {
		o.log.Info().Str("url", url).Msg("content already downloaded, skipping")
		return nil
	}

	if err := shared.CreateDirIfNotExists(o.outputDir); err != nil {
		return &shared.DownloadError{URL: url, Message: fmt.Sprintf("cannot create output directory: %v", err)}
	}

	return o.downloadWithFallback(ctx, url)
}

// qualityLadder returns the tiers to try, preferred first, then the
// standard descent, without repeats.
func (o *Orchestrator) qualityLadder() []string {
	ladder := []string{o.quality, "320", "128"}
	seen := make(map[string]bool, len(ladder))
	var tiers []string
	for _, tier := range ladder {
		if seen[tier] {
			continue
		}
		seen[tier] = true
		tiers = append(tiers, tier)
	}
	return tiers
}

// downloadWithFallback walks the quality ladder. A tier succeeds only when
// the filesystem shows new audio afterwards; the engine can exit cleanly
// without fetching anything, so its exit status alone proves nothing. A
// tier that is quality-rejected or produces no files falls through to the
// next one; any other engine error aborts the whole attempt.
func (o *Orchestrator) downloadWithFallback(ctx context.Context, url string) error {
	var lastErr error
	for _, tier := range o.qualityLadder() {
		attemptStart := time.Now()
		err := o.engine.Download(ctx, url, tier)
		if err != nil {
			lastErr = err
			if !shared.IsQualityError(err) {
				return err
			}
			o.log.Warn().Str("url", url).Str("quality", tier).Msg("quality tier rejected, trying lower tier")
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(verifyGrace):
		}
		if o.newFilesSince(attemptStart) {
			return nil
		}
		o.log.Warn().Str("url", url).Str("quality", tier).Msg("engine reported success but no files appeared, trying lower tier")
	}

	diagnostic := "no quality tier produced files"
	if lastErr != nil {
		diagnostic = fmt.Sprintf("no quality tier produced files (last error: %v)", lastErr)
	}
	return &shared.DownloadError{
		URL:     url,
		Message: diagnostic + "; likely causes: ARL lacks entitlement for this content, region restriction, or limited token scope",
	}
}

// parseDeezerURL extracts the entity kind and ID from a Deezer URL. Only
// track and album URLs are downloadable.
func parseDeezerURL(url string) (shared.ResultKind, string, error) {
	for _, kind := range []shared.ResultKind{shared.KindAlbum, shared.KindTrack} {
		marker := "/" + string(kind) + "/"
		idx := strings.Index(url, marker)
		if idx < 0 {
			continue
		}
		id := url[idx+len(marker):]
		if cut := strings.IndexAny(id, "?#/"); cut >= 0 {
			id = id[:cut]
		}
		if id == "" {
			break
		}
		return kind, id, nil
	}
	return "", "", &shared.ValidationError{Field: "url", Message: fmt.Sprintf("not a downloadable track or album URL: %s", url)}
}

func (o *Orchestrator) alreadyDownloaded(ctx context.Context, kind shared.ResultKind, id string) bool {
	switch kind {
	case shared.KindAlbum:
		return o.albumExists(ctx, id)
	case shared.KindTrack:
		return o.trackExists(ctx, id)
	}
	return false
}

// albumExists looks for the album's folder under the output directory and
// counts its audio files against the expected track count. Partial albums
// below the threshold are re-downloaded.
func (o *Orchestrator) albumExists(ctx context.Context, albumID string) bool {
	info, err := o.metadata.GetAlbumInfo(ctx, albumID)
	if err != nil || info.TrackCount <= 0 {
		return false
	}

	dir := filepath.Join(o.outputDir, shared.SanitizeFileName(info.Artist+" - "+info.Title))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}

	found := 0
	for _, entry := range entries {
		if entry.IsDir() || !shared.IsAudioFile(entry.Name()) {
			continue
		}
		fi, err := entry.Info()
		if err != nil || fi.Size() == 0 {
			continue
		}
		found++
	}
	return float64(found) >= existingAlbumThreshold*float64(info.TrackCount)
}

// trackExists scans the output tree for a non-empty audio file whose name
// mentions both the track title and the artist, case-insensitively.
func (o *Orchestrator) trackExists(ctx context.Context, trackID string) bool {
	info, err := o.metadata.GetTrackInfo(ctx, trackID)
	if err != nil || info.Title == "" {
		return false
	}
	title := strings.ToLower(info.Title)
	artist := strings.ToLower(info.Artist)

	found := false
	filepath.WalkDir(o.outputDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || found || d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		if !shared.IsAudioFile(name) {
			return nil
		}
		if !strings.Contains(name, title) || (artist != "" && !strings.Contains(name, artist)) {
			return nil
		}
		fi, err := d.Info()
		if err == nil && fi.Size() > 0 {
			found = true
		}
		return nil
	})
	return found
}

// newFilesSince reports whether any non-empty audio file under the output
// directory was modified after the given time.
func (o *Orchestrator) newFilesSince(since time.Time) bool {
	found := false
	filepath.WalkDir(o.outputDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || found || d.IsDir() {
			return nil
		}
		if !shared.IsAudioFile(d.Name()) {
			return nil
		}
		fi, err := d.Info()
		if err == nil && fi.Size() > 0 && fi.ModTime().After(since) {
			found = true
		}
		return nil
	})
	return found
}
