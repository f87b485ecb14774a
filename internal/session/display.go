package session

import (
	"fmt"

	"github.com/cargaona/dmx/internal/shared"
)

const (
	titleWidth  = 40
	artistWidth = 25
)

func (s *Session) printWelcome() {
	shared.ColorInfo.Fprintln(s.out, "dmx - interactive music search")
	fmt.Fprintln(s.out, "Type a query to search, 'h' for help, 'q' to quit.")
	fmt.Fprintln(s.out)
}

func (s *Session) printPrompt() {
	if s.profile != nil {
		shared.ColorArtists.Fprintf(s.out, "[%s] > ", s.profile.Artist.Label())
		return
	}
	shared.ModeColor(s.mode).Fprintf(s.out, "[%s] > ", s.mode)
}

func (s *Session) printResults() {
	if s.profile != nil {
		s.printProfile()
		return
	}
	if len(s.results) == 0 {
		shared.ColorWarning.Fprintln(s.out, "No results to show")
		return
	}

	fmt.Fprintln(s.out)
	for i, r := range s.results {
		s.printResult(i+1, r)
	}
	fmt.Fprintln(s.out)
}

func (s *Session) printResult(index int, r shared.SearchResult) {
	title := shared.TruncateString(r.Label(), titleWidth)
	switch r.Type {
	case shared.KindTrack:
		artist := shared.TruncateString(r.Artist, artistWidth)
		fmt.Fprintf(s.out, "%3d. %-*s %-*s %s\n", index, titleWidth, title, artistWidth, artist, r.Duration)
	case shared.KindAlbum:
		artist := shared.TruncateString(r.Artist, artistWidth)
		fmt.Fprintf(s.out, "%3d. %-*s %-*s %d tracks\n", index, titleWidth, title, artistWidth, artist, r.TrackCount)
	case shared.KindArtist:
		extra := ""
		if r.FanCount > 0 {
			extra = fmt.Sprintf("%d fans", r.FanCount)
		}
		fmt.Fprintf(s.out, "%3d. %-*s %d albums %s\n", index, titleWidth, title, r.AlbumCount, extra)
	}
}

func (s *Session) printProfile() {
	p := s.profile
	fmt.Fprintln(s.out)
	shared.ColorArtists.Fprintf(s.out, "%s\n", p.Artist.Label())
	if p.Artist.FanCount > 0 {
		fmt.Fprintf(s.out, "%d fans, %d albums\n", p.Artist.FanCount, p.Artist.AlbumCount)
	}

	if len(p.TopTracks) > 0 {
		fmt.Fprintln(s.out)
		shared.ColorInfo.Fprintln(s.out, "Top tracks:")
		for _, t := range p.TopTracks {
			fmt.Fprintf(s.out, "     %-*s %s\n", titleWidth, shared.TruncateString(t.Label(), titleWidth), t.Duration)
		}
	}

	fmt.Fprintln(s.out)
	shared.ColorInfo.Fprintln(s.out, "Albums (select to download):")
	for i, a := range p.Albums {
		fmt.Fprintf(s.out, "%3d. %-*s %d tracks\n", i+1, titleWidth, shared.TruncateString(a.Label(), titleWidth), a.TrackCount)
	}
	fmt.Fprintln(s.out)
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.out, `
Commands:
  <query>          search in the current mode
  s / sa / st      search tracks / albums / artists
  m [mode]         switch mode (tracks, albums, artists); no arg shows current
  1  1,3  1-5 all  select results; downloads tracks/albums,
                   opens the profile in artist mode
  b, back          leave the artist view
  l, list          show the current results again
  status           show session status and error counts
  h, help          this help
  q, quit          exit`)
	fmt.Fprintln(s.out)
}

func (s *Session) printStatus() {
	fmt.Fprintln(s.out)
	shared.ColorInfo.Fprintln(s.out, "Session status")
	fmt.Fprintf(s.out, "  mode:     %s\n", s.mode)
	fmt.Fprintf(s.out, "  backend:  %s", s.searcher.PrimaryName())
	if !s.searcher.PrimaryAvailable() {
		shared.ColorWarning.Fprintf(s.out, " (unavailable, using %s)", s.searcher.SecondaryName())
	}
	fmt.Fprintln(s.out)
	if ready, reason := s.downloader.Ready(); ready {
		fmt.Fprintln(s.out, "  downloads: ready")
	} else {
		fmt.Fprintf(s.out, "  downloads: %s\n", reason)
	}
	if len(s.history) > 0 {
		fmt.Fprintf(s.out, "  searches: %d (last: %q)\n", len(s.history), s.history[len(s.history)-1])
	}

	stats := s.reporter.Stats()
	if len(stats) == 0 {
		return
	}
	shared.ColorWarning.Fprintln(s.out, "  errors:")
	for _, kind := range s.reporter.Kinds() {
		fmt.Fprintf(s.out, "    %-12s %d\n", kind, stats[kind])
	}
	fmt.Fprintln(s.out)
}
