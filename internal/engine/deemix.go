// Package engine wraps the external deemix command-line tool. The rest of
// the system treats it as an opaque download capability: give it a URL and
// a quality tier, get back success or a classified error.
package engine

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cargaona/dmx/internal/shared"
)

// Deemix shells out to the deemix CLI for downloads.
type Deemix struct {
	binary    string
	arl       string
	outputDir string
	configDir string
	log       zerolog.Logger
}

// NewDeemix locates the deemix binary and prepares an engine writing into
// outputDir. The ARL credential is staged into the engine's config dir,
// which is where deemix reads it from.
func NewDeemix(arl, outputDir, configDir string, log zerolog.Logger) *Deemix {
	binary, err := exec.LookPath("deemix")
	if err != nil {
		binary = ""
	}
	return &Deemix{
		binary:    binary,
		arl:       arl,
		outputDir: outputDir,
		configDir: configDir,
		log:       log.With().Str("component", "engine").Logger(),
	}
}

// Available implements interfaces.DownloadEngine.
func (e *Deemix) Available() bool {
	return e.binary != ""
}

// quality-related failure markers in deemix output; any of these means the
// tier was rejected and a lower one may work.
var qualityMarkers = []string{"bitrate", "quality", "stream", "desired"}

func bitrateArg(quality string) string {
	if quality == "FLAC" {
		return "flac"
	}
	return quality
}

// workDir is the engine's portable working directory; deemix reads its
// credentials from ./config/.arl relative to it.
func (e *Deemix) workDir() string {
	return filepath.Join(e.configDir, "deemix")
}

func (e *Deemix) stageARL() error {
	if e.arl == "" {
		return &shared.ConfigError{Message: "no ARL token configured"}
	}
	dir := filepath.Join(e.workDir(), "config")
	if err := shared.CreateDirIfNotExists(dir); err != nil {
		return fmt.Errorf("failed to create engine config dir: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, ".arl"), []byte(e.arl), 0600)
}

// Download implements interfaces.DownloadEngine.
func (e *Deemix) Download(ctx context.Context, url string, quality string) error {
	if e.binary == "" {
		return &shared.DownloadError{URL: url, Message: "deemix not installed - cannot download without proper setup"}
	}
	if err := e.stageARL(); err != nil {
		return err
	}

	args := []string{
		"--portable",
		"-b", bitrateArg(quality),
		"-p", e.outputDir,
		url,
	}
	e.log.Debug().Str("url", url).Str("quality", quality).Msg("invoking deemix")

	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Dir = e.workDir()
	output, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.ToLower(string(output))
		for _, marker := range qualityMarkers {
			if strings.Contains(msg, marker) {
				return &shared.QualityError{Tier: quality, Message: shared.TruncateString(strings.TrimSpace(string(output)), 200)}
			}
		}
		return &shared.DownloadError{URL: url, Message: fmt.Sprintf("deemix failed: %v: %s", err, shared.TruncateString(strings.TrimSpace(string(output)), 200))}
	}
	return nil
}
