package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cargaona/dmx/internal/api/spotify"
	"github.com/cargaona/dmx/internal/shared"
)

var playlistCmd = &cobra.Command{
	Use:   "playlist <spotify-url>",
	Short: "Import a Spotify playlist or album and download the matches",
	Long: `Resolves every track of a Spotify playlist or album, searches each
one on the primary backend and downloads the best match.

Spotify credentials are read from the SPOTIFY_ID and SPOTIFY_SECRET
environment variables.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := newContainer(ctx)
		defer svc.MusicBrainz.Cleanup()

		if ready, reason := svc.Downloader.Ready(); !ready {
			return &shared.ConfigError{Message: reason}
		}

		sp, err := spotify.NewClient(ctx, os.Getenv("SPOTIFY_ID"), os.Getenv("SPOTIFY_SECRET"), svc.Log)
		if err != nil {
			return err
		}

		ref := args[0]
		var tracks []shared.TrackInfo
		var name string
		if strings.Contains(ref, "album") {
			tracks, name, err = sp.GetAlbumTracks(ctx, ref)
		} else {
			tracks, name, err = sp.GetPlaylistTracks(ctx, ref)
		}
		if err != nil {
			return err
		}
		if len(tracks) == 0 {
			shared.ColorWarning.Fprintln(os.Stdout, "No tracks found")
			return nil
		}
		shared.ColorInfo.Fprintf(os.Stdout, "Importing %q (%d tracks)\n", name, len(tracks))

		matched, failed := 0, 0
		for _, t := range tracks {
			query := fmt.Sprintf("%s %s", t.Artist, t.Title)
			results := svc.Search.SearchTracks(ctx, query, 1)
			if len(results) == 0 {
				failed++
				shared.ColorWarning.Fprintf(os.Stdout, "No match: %s - %s\n", t.Artist, t.Title)
				continue
			}
			match := results[0]
			shared.ColorInfo.Fprintf(os.Stdout, "Downloading %s - %s...\n", match.Artist, match.Label())
			if err := svc.Downloader.Download(ctx, match.URL); err != nil {
				failed++
				shared.ColorError.Fprintf(os.Stdout, "Failed: %v\n", err)
				svc.Reporter.Report(shared.ErrKindDownload, "playlist download", err)
				continue
			}
			matched++
		}

		shared.ColorInfo.Fprintf(os.Stdout, "Playlist import complete: %d downloaded, %d failed\n", matched, failed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playlistCmd)
}
