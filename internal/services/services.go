// Package services wires the application together: one container owns the
// configured clients, the engine and the orchestrators, and every command
// pulls what it needs from there.
package services

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/cargaona/dmx/internal/api/deezer"
	"github.com/cargaona/dmx/internal/api/musicbrainz"
	"github.com/cargaona/dmx/internal/config"
	"github.com/cargaona/dmx/internal/core/downloader"
	"github.com/cargaona/dmx/internal/core/search"
	"github.com/cargaona/dmx/internal/engine"
	"github.com/cargaona/dmx/internal/shared"
)

// Container holds all constructed services for one run.
type Container struct {
	Config      *config.Config
	Log         zerolog.Logger
	Reporter    *shared.ErrorReporter
	Deezer      *deezer.Client
	MusicBrainz *musicbrainz.Client
	Engine      *engine.Deemix
	Search      *search.Orchestrator
	Downloader  *downloader.Orchestrator
}

// New builds the full service graph from the configuration. The Deezer
// backend is verified once here so availability is settled before any
// command runs.
func New(ctx context.Context, cfg *config.Config) *Container {
	log := newLogger(cfg.Debug)
	reporter := shared.NewErrorReporter(log)

	dz := deezer.NewClient(log)
	dz.Verify(ctx)

	mbConfig := musicbrainz.DefaultConfig()
	mbConfig.CacheDir = cfg.CacheDir()
	mbConfig.CacheTTL = time.Duration(cfg.CacheTTLSeconds) * time.Second
	mb := musicbrainz.NewClientWithConfig(mbConfig, log)

	eng := engine.NewDeemix(cfg.ARL, cfg.OutputDir, cfg.ConfigDir(), log)

	return &Container{
		Config:      cfg,
		Log:         log,
		Reporter:    reporter,
		Deezer:      dz,
		MusicBrainz: mb,
		Engine:      eng,
		Search:      search.NewOrchestrator(dz, mb, log),
		Downloader:  downloader.NewOrchestrator(eng, dz, cfg.OutputDir, cfg.Quality, cfg.ARL != "", log),
	}
}

func newLogger(debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
