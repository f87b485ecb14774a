// Package session implements the interactive prompt loop: searching,
// switching modes, drilling into artists and kicking off downloads.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cargaona/dmx/internal/config"
	"github.com/cargaona/dmx/internal/interfaces"
	"github.com/cargaona/dmx/internal/shared"
)

// Searcher is the slice of the search orchestrator the session uses.
type Searcher interface {
	Search(ctx context.Context, kind shared.ResultKind, query string, limit int) []shared.SearchResult
	PrimaryName() string
	SecondaryName() string
	PrimaryAvailable() bool
}

// Downloader is the slice of the download orchestrator the session uses.
type Downloader interface {
	Download(ctx context.Context, url string) error
	Ready() (bool, string)
}

// Session holds the state of one interactive run. Input and output are
// injected so tests can drive the loop with scripted input.
type Session struct {
	in         *bufio.Scanner
	out        io.Writer
	searcher   Searcher
	downloader Downloader
	profiles   interfaces.ProfileBackend
	cfg        *config.Config
	reporter   *shared.ErrorReporter
	log        zerolog.Logger

	mode    shared.ResultKind
	results []shared.SearchResult
	profile *shared.ArtistProfile
	history []string

	lines       chan string
	interrupted chan os.Signal
}

// New creates a session in track mode reading from in and writing to out.
func New(in io.Reader, out io.Writer, searcher Searcher, downloader Downloader, profiles interfaces.ProfileBackend, cfg *config.Config, reporter *shared.ErrorReporter, log zerolog.Logger) *Session {
	return &Session{
		in:          bufio.NewScanner(in),
		out:         out,
		searcher:    searcher,
		downloader:  downloader,
		profiles:    profiles,
		cfg:         cfg,
		reporter:    reporter,
		log:         log.With().Str("component", "session").Logger(),
		mode:        shared.KindTrack,
		lines:       make(chan string),
		interrupted: make(chan os.Signal, 1),
	}
}

// Run starts the prompt loop. An optional initial query is executed before
// the first prompt. Run returns when the user quits, input ends or the
// context is cancelled.
func (s *Session) Run(ctx context.Context, initialQuery string) error {
	signal.Notify(s.interrupted, os.Interrupt)
	defer signal.Stop(s.interrupted)

	// Input is pumped through a channel so the loop can react to signals
	// and cancellation while the scanner is blocked on a read.
	go func() {
		defer close(s.lines)
		for s.in.Scan() {
			s.lines <- strings.TrimSpace(s.in.Text())
		}
	}()

	s.printWelcome()

	if query := strings.TrimSpace(initialQuery); query != "" {
		s.doSearch(ctx, query)
	}

	for {
		s.printPrompt()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.interrupted:
			fmt.Fprintln(s.out)
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		case line, ok := <-s.lines:
			if !ok {
				fmt.Fprintln(s.out)
				return s.in.Err()
			}
			if line == "" {
				continue
			}
			if quit := s.handleCommand(ctx, line); quit {
				return nil
			}
		}
	}
}

// readLine reads one trimmed line of input. ok is false at end of input.
func (s *Session) readLine() (string, bool) {
	line, ok := <-s.lines
	return line, ok
}

// handleCommand dispatches one input line. It returns true when the
// session should end.
func (s *Session) handleCommand(ctx context.Context, line string) bool {
	// Numeric selections take priority over everything else.
	max := len(s.results)
	if s.profile != nil {
		max = len(s.profile.Albums)
	}
	if indices, ok := shared.ParseSelection(line, max); ok {
		s.handleSelection(ctx, indices)
		return false
	}

	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])
	rest := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

	switch cmd {
	case "q", "quit", "exit":
		s.printStatus()
		fmt.Fprintln(s.out, "Goodbye!")
		return true
	case "h", "help":
		s.printHelp()
	case "m", "mode":
		s.switchMode(rest)
	case "s", "sa", "st":
		// s searches tracks, sa albums, st artists.
		kind := shared.KindTrack
		switch cmd {
		case "sa":
			kind = shared.KindAlbum
		case "st":
			kind = shared.KindArtist
		}
		if rest == "" {
			shared.ColorError.Fprintf(s.out, "Usage: %s <query>\n", cmd)
			return false
		}
		s.mode = kind
		s.doSearch(ctx, rest)
	case "l", "list":
		s.printResults()
	case "b", "back":
		if s.profile == nil {
			shared.ColorWarning.Fprintln(s.out, "Not in an artist view")
			return false
		}
		s.profile = nil
		s.printResults()
	case "status":
		s.printStatus()
	default:
		// Bare text is a search in the current mode.
		s.doSearch(ctx, line)
	}
	return false
}

func (s *Session) switchMode(arg string) {
	switch strings.ToLower(arg) {
	case "tracks", "track", "t":
		s.mode = shared.KindTrack
	case "albums", "album", "a":
		s.mode = shared.KindAlbum
	case "artists", "artist", "ar":
		s.mode = shared.KindArtist
	case "":
		shared.ModeColor(s.mode).Fprintf(s.out, "Current mode: %s\n", s.mode)
		return
	default:
		shared.ColorError.Fprintf(s.out, "Unknown mode %q (tracks, albums, artists)\n", arg)
		return
	}
	s.profile = nil
	shared.ModeColor(s.mode).Fprintf(s.out, "Switched to %s mode\n", s.mode)
}

func (s *Session) doSearch(ctx context.Context, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		shared.ColorError.Fprintln(s.out, "Search query cannot be empty")
		s.reporter.Report(shared.ErrKindValidation, "search", &shared.ValidationError{Field: "query", Message: "empty query"})
		return
	}

	s.profile = nil
	s.history = append(s.history, query)
	shared.ColorInfo.Fprintf(s.out, "Searching %s for %q...\n", s.mode, query)

	s.results = s.searcher.Search(ctx, s.mode, query, s.cfg.SearchLimit)
	if len(s.results) == 0 {
		shared.ColorWarning.Fprintln(s.out, "No results found")
		return
	}
	s.printResults()
}

// handleSelection routes a parsed selection to the right action for the
// current view.
func (s *Session) handleSelection(ctx context.Context, indices []int) {
	if s.profile != nil {
		s.downloadProfileAlbums(ctx, indices)
		return
	}

	if len(s.results) == 0 {
		shared.ColorWarning.Fprintln(s.out, "No results to select from; search first")
		return
	}

	if s.mode == shared.KindArtist {
		if len(indices) != 1 {
			shared.ColorError.Fprintln(s.out, "Select a single artist to view their profile")
			s.reporter.Report(shared.ErrKindValidation, "selection", &shared.ValidationError{Field: "selection", Message: "multiple artists selected"})
			return
		}
		s.openArtistProfile(ctx, indices[0])
		return
	}

	s.downloadSelection(ctx, indices, s.results)
}

func (s *Session) openArtistProfile(ctx context.Context, index int) {
	if index < 1 || index > len(s.results) {
		shared.ColorError.Fprintf(s.out, "Invalid selection: %d (valid range is 1-%d)\n", index, len(s.results))
		s.reporter.Report(shared.ErrKindValidation, "selection", &shared.ValidationError{Field: "selection", Message: "index out of range"})
		return
	}
	artist := s.results[index-1]
	shared.ColorInfo.Fprintf(s.out, "Loading profile for %s...\n", artist.Label())

	profile, err := s.profiles.GetArtistProfile(ctx, artist.ID)
	if err != nil {
		shared.ColorError.Fprintf(s.out, "Failed to load artist profile: %v\n", err)
		s.reporter.Report(shared.ErrKindNetwork, "artist profile", err)
		return
	}
	s.profile = profile
	s.printProfile()
}

func (s *Session) downloadProfileAlbums(ctx context.Context, indices []int) {
	if len(s.profile.Albums) == 0 {
		shared.ColorWarning.Fprintln(s.out, "No albums to select from")
		return
	}
	s.downloadSelection(ctx, indices, s.profile.Albums)
}
