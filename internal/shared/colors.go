package shared

import "github.com/fatih/color"

func init() {
	// Piped or redirected output gets plain text.
	color.NoColor = !IsTTY()
}

// Package-level color variables
var (
	ColorInfo    = color.New(color.FgCyan)
	ColorSuccess = color.New(color.FgGreen)
	ColorWarning = color.New(color.FgYellow)
	ColorError   = color.New(color.FgRed)
	ColorPrompt  = color.New(color.FgBlue, color.Bold)
	ColorTracks  = color.New(color.FgGreen)
	ColorAlbums  = color.New(color.FgBlue)
	ColorArtists = color.New(color.FgMagenta)
)

// ModeColor returns the prompt color for a session mode.
func ModeColor(mode ResultKind) *color.Color {
	switch mode {
	case KindAlbum:
		return ColorAlbums
	case KindArtist:
		return ColorArtists
	default:
		return ColorTracks
	}
}
