package session

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cargaona/dmx/internal/config"
	"github.com/cargaona/dmx/internal/shared"
)

func init() {
	batchPause = time.Millisecond
}

type fakeSearcher struct {
	results map[shared.ResultKind][]shared.SearchResult
	queries []string
	kinds   []shared.ResultKind
}

func (f *fakeSearcher) Search(ctx context.Context, kind shared.ResultKind, query string, limit int) []shared.SearchResult {
	f.queries = append(f.queries, query)
	f.kinds = append(f.kinds, kind)
	return f.results[kind]
}
func (f *fakeSearcher) PrimaryName() string    { return "primary" }
func (f *fakeSearcher) SecondaryName() string  { return "secondary" }
func (f *fakeSearcher) PrimaryAvailable() bool { return true }

type fakeDownloader struct {
	urls    []string
	failing map[string]bool
	ready   bool
	reason  string
}

func (f *fakeDownloader) Ready() (bool, string) {
	if f.ready {
		return true, ""
	}
	return false, f.reason
}

func (f *fakeDownloader) Download(ctx context.Context, url string) error {
	f.urls = append(f.urls, url)
	if f.failing[url] {
		return errors.New("download failed")
	}
	return nil
}

type fakeProfiles struct {
	profile *shared.ArtistProfile
	err     error
	ids     []string
}

func (f *fakeProfiles) GetArtistProfile(ctx context.Context, id string) (*shared.ArtistProfile, error) {
	f.ids = append(f.ids, id)
	return f.profile, f.err
}

func track(id, title string) shared.SearchResult {
	return shared.SearchResult{
		Type: shared.KindTrack, ID: id, Title: title, Artist: "Band",
		URL: "https://www.deezer.com/track/" + id,
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Load(t.TempDir())
	cfg.OutputDir = t.TempDir()
	return cfg
}

// runScript drives a session with scripted input lines and returns the
// transcript.
func runScript(t *testing.T, s *fakeSearcher, d *fakeDownloader, p *fakeProfiles, lines ...string) string {
	t.Helper()
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer

	sess := New(in, &out, s, d, p, testConfig(t), shared.NewErrorReporter(zerolog.Nop()), zerolog.Nop())
	if err := sess.Run(context.Background(), ""); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func defaultSearcher() *fakeSearcher {
	return &fakeSearcher{results: map[shared.ResultKind][]shared.SearchResult{
		shared.KindTrack: {
			track("1", "First"), track("2", "Second"), track("3", "Third"),
			track("4", "Fourth"), track("5", "Fifth"),
		},
	}}
}

func TestBareTextSearches(t *testing.T) {
	searcher := defaultSearcher()
	out := runScript(t, searcher, &fakeDownloader{ready: true}, &fakeProfiles{}, "some query", "q")

	if len(searcher.queries) != 1 || searcher.queries[0] != "some query" {
		t.Errorf("queries = %v", searcher.queries)
	}
	if !strings.Contains(out, "First") {
		t.Error("expected results in output")
	}
}

func TestSearchCommandsSetMode(t *testing.T) {
	searcher := defaultSearcher()
	out := runScript(t, searcher, &fakeDownloader{ready: true}, &fakeProfiles{},
		"st band", "sa greatest hits", "s song", "sa", "q")

	wantKinds := []shared.ResultKind{shared.KindArtist, shared.KindAlbum, shared.KindTrack}
	if len(searcher.kinds) != len(wantKinds) {
		t.Fatalf("kinds = %v, want %v", searcher.kinds, wantKinds)
	}
	for i := range wantKinds {
		if searcher.kinds[i] != wantKinds[i] {
			t.Fatalf("kinds = %v, want %v", searcher.kinds, wantKinds)
		}
	}
	if searcher.queries[1] != "greatest hits" {
		t.Errorf("query = %q, want multi-word argument intact", searcher.queries[1])
	}
	// Bare search command prints usage instead of searching.
	if !strings.Contains(out, "Usage: sa <query>") {
		t.Error("expected usage line for bare sa")
	}
}

func TestSelectionDownloadsAndDeduplicates(t *testing.T) {
	searcher := defaultSearcher()
	dl := &fakeDownloader{ready: true, failing: map[string]bool{"https://www.deezer.com/track/4": true}}
	out := runScript(t, searcher, dl, &fakeProfiles{}, "query", "2,4,2", "q")

	want := []string{"https://www.deezer.com/track/2", "https://www.deezer.com/track/4"}
	if len(dl.urls) != 2 || dl.urls[0] != want[0] || dl.urls[1] != want[1] {
		t.Errorf("urls = %v, want %v", dl.urls, want)
	}
	if !strings.Contains(out, "1 succeeded, 1 failed") {
		t.Errorf("expected batch summary, got:\n%s", out)
	}
	// Both outcomes are enumerated by index and label.
	if !strings.Contains(out, "downloaded: 2. Second") {
		t.Errorf("expected success listed by index and label, got:\n%s", out)
	}
	if !strings.Contains(out, "failed: 4. Fourth") {
		t.Errorf("expected failure listed by index and label, got:\n%s", out)
	}
}

func TestOutOfRangeSelectionAborts(t *testing.T) {
	searcher := defaultSearcher()
	dl := &fakeDownloader{ready: true}
	out := runScript(t, searcher, dl, &fakeProfiles{}, "query", "2,99", "q")

	if len(dl.urls) != 0 {
		t.Errorf("no downloads expected, got %v", dl.urls)
	}
	if !strings.Contains(out, "99") {
		t.Error("expected bad index in the error message")
	}
}

func TestLargeBatchNeedsConfirmation(t *testing.T) {
	searcher := defaultSearcher()

	// Declined: nothing downloads. BatchConfirmThreshold defaults to 5 and
	// "all" selects 5, so use a lower threshold via a range over everything.
	dl := &fakeDownloader{ready: true}
	in := strings.NewReader("query\nall\nn\nq\n")
	var out bytes.Buffer
	cfg := testConfig(t)
	cfg.BatchConfirmThreshold = 2
	sess := New(in, &out, searcher, dl, &fakeProfiles{}, cfg, shared.NewErrorReporter(zerolog.Nop()), zerolog.Nop())
	if err := sess.Run(context.Background(), ""); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(dl.urls) != 0 {
		t.Errorf("declined batch must not download, got %v", dl.urls)
	}
	if !strings.Contains(out.String(), "cancelled") {
		t.Error("expected cancellation notice")
	}

	// Confirmed with "y": all five download.
	dl = &fakeDownloader{ready: true}
	in = strings.NewReader("query\nall\ny\nq\n")
	out.Reset()
	sess = New(in, &out, searcher, dl, &fakeProfiles{}, cfg, shared.NewErrorReporter(zerolog.Nop()), zerolog.Nop())
	if err := sess.Run(context.Background(), ""); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(dl.urls) != 5 {
		t.Errorf("confirmed batch should download all 5, got %d", len(dl.urls))
	}
}

func TestDownloaderNotReady(t *testing.T) {
	searcher := defaultSearcher()
	dl := &fakeDownloader{ready: false, reason: "no ARL token configured"}
	out := runScript(t, searcher, dl, &fakeProfiles{}, "query", "1", "q")

	if len(dl.urls) != 0 {
		t.Errorf("no downloads expected, got %v", dl.urls)
	}
	if !strings.Contains(out, "no ARL token configured") {
		t.Error("expected readiness reason in output")
	}
}

func TestArtistModeOpensProfile(t *testing.T) {
	searcher := &fakeSearcher{results: map[shared.ResultKind][]shared.SearchResult{
		shared.KindArtist: {
			{Type: shared.KindArtist, ID: "a1", Title: "Band", AlbumCount: 2},
		},
	}}
	profiles := &fakeProfiles{profile: &shared.ArtistProfile{
		Artist: shared.SearchResult{Type: shared.KindArtist, ID: "a1", Title: "Band", FanCount: 10},
		Albums: []shared.SearchResult{
			{Type: shared.KindAlbum, ID: "al1", Title: "LP One", TrackCount: 10, URL: "https://www.deezer.com/album/al1"},
			{Type: shared.KindAlbum, ID: "al2", Title: "LP Two", TrackCount: 8, URL: "https://www.deezer.com/album/al2"},
		},
	}}
	dl := &fakeDownloader{ready: true}

	out := runScript(t, searcher, dl, profiles, "m artists", "band", "1", "2", "q")

	if len(profiles.ids) != 1 || profiles.ids[0] != "a1" {
		t.Fatalf("profile fetches = %v, want [a1]", profiles.ids)
	}
	if !strings.Contains(out, "LP One") {
		t.Error("expected albums in profile view")
	}
	// The second selection targets the profile's album list.
	if len(dl.urls) != 1 || dl.urls[0] != "https://www.deezer.com/album/al2" {
		t.Errorf("urls = %v, want the second album", dl.urls)
	}
}

func TestArtistModeRejectsMultiSelection(t *testing.T) {
	searcher := &fakeSearcher{results: map[shared.ResultKind][]shared.SearchResult{
		shared.KindArtist: {
			{Type: shared.KindArtist, ID: "a1", Title: "One"},
			{Type: shared.KindArtist, ID: "a2", Title: "Two"},
		},
	}}
	profiles := &fakeProfiles{}
	out := runScript(t, searcher, &fakeDownloader{ready: true}, profiles, "m artists", "band", "1,2", "q")

	if len(profiles.ids) != 0 {
		t.Errorf("no profile fetch expected, got %v", profiles.ids)
	}
	if !strings.Contains(out, "single artist") {
		t.Error("expected multi-selection rejection message")
	}
}

func TestBackLeavesProfile(t *testing.T) {
	searcher := &fakeSearcher{results: map[shared.ResultKind][]shared.SearchResult{
		shared.KindArtist: {{Type: shared.KindArtist, ID: "a1", Title: "Band"}},
	}}
	profiles := &fakeProfiles{profile: &shared.ArtistProfile{
		Artist: shared.SearchResult{Type: shared.KindArtist, ID: "a1", Title: "Band"},
	}}

	out := runScript(t, searcher, &fakeDownloader{ready: true}, profiles, "m artists", "band", "1", "back", "q")
	if !strings.Contains(out, "Band") {
		t.Error("expected artist name in output")
	}
}

func TestModeSwitching(t *testing.T) {
	searcher := defaultSearcher()
	out := runScript(t, searcher, &fakeDownloader{ready: true}, &fakeProfiles{},
		"m albums", "m", "m artists", "m tracks", "m bogus", "q")

	if !strings.Contains(out, "Switched to album mode") {
		t.Error("expected album mode switch")
	}
	if !strings.Contains(out, "Current mode: album") {
		t.Error("expected bare m to report the current mode")
	}
	if !strings.Contains(out, "Unknown mode") {
		t.Error("expected rejection of bogus mode")
	}
}

func TestStatusReportsErrors(t *testing.T) {
	searcher := &fakeSearcher{results: map[shared.ResultKind][]shared.SearchResult{}}
	out := runScript(t, searcher, &fakeDownloader{ready: true}, &fakeProfiles{},
		"", "query", "status", "q")

	if !strings.Contains(out, "No results found") {
		t.Error("expected empty search notice")
	}
	if !strings.Contains(out, "Session status") {
		t.Error("expected status output")
	}
}

// stuckReader blocks on Read until unblocked, like a terminal with no
// keystrokes pending.
type stuckReader struct {
	unblock chan struct{}
}

func (r *stuckReader) Read(p []byte) (int, error) {
	<-r.unblock
	return 0, errors.New("closed")
}

func TestInterruptAtIdlePromptExits(t *testing.T) {
	in := &stuckReader{unblock: make(chan struct{})}
	defer close(in.unblock)
	var out bytes.Buffer

	sess := New(in, &out, defaultSearcher(), &fakeDownloader{ready: true}, &fakeProfiles{},
		testConfig(t), shared.NewErrorReporter(zerolog.Nop()), zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- sess.Run(context.Background(), "") }()

	sess.interrupted <- os.Interrupt

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after an interrupt while waiting for input")
	}
	if !strings.Contains(out.String(), "Goodbye!") {
		t.Error("expected farewell on interrupt")
	}
}

func TestSelectionWithoutResults(t *testing.T) {
	searcher := &fakeSearcher{results: map[shared.ResultKind][]shared.SearchResult{}}
	dl := &fakeDownloader{ready: true}
	out := runScript(t, searcher, dl, &fakeProfiles{}, "3", "q")

	if len(dl.urls) != 0 {
		t.Errorf("no downloads expected, got %v", dl.urls)
	}
	if !strings.Contains(out, "search first") {
		t.Error("expected guidance to search first")
	}
}
