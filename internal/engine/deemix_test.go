package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cargaona/dmx/internal/shared"
)

func TestBitrateArg(t *testing.T) {
	tests := map[string]string{
		"128":  "128",
		"320":  "320",
		"FLAC": "flac",
	}
	for quality, want := range tests {
		if got := bitrateArg(quality); got != want {
			t.Errorf("bitrateArg(%q) = %q, want %q", quality, got, want)
		}
	}
}

func TestDownloadWithoutBinary(t *testing.T) {
	e := &Deemix{log: zerolog.Nop()}

	if e.Available() {
		t.Error("expected unavailable without binary")
	}
	err := e.Download(context.Background(), "https://www.deezer.com/track/1", "320")
	if err == nil {
		t.Fatal("expected error")
	}
	var de *shared.DownloadError
	if !errors.As(err, &de) {
		t.Errorf("expected DownloadError, got %T", err)
	}
}
