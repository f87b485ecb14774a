package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cargaona/dmx/internal/shared"
)

var searchMode string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a one-shot search and print the results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := newContainer(ctx)
		defer svc.MusicBrainz.Cleanup()

		kind := shared.KindTrack
		switch strings.ToLower(searchMode) {
		case "tracks", "track":
		case "albums", "album":
			kind = shared.KindAlbum
		case "artists", "artist":
			kind = shared.KindArtist
		default:
			return fmt.Errorf("unknown mode %q (tracks, albums, artists)", searchMode)
		}

		query := strings.Join(args, " ")
		results := svc.Search.Search(ctx, kind, query, svc.Config.SearchLimit)
		if len(results) == 0 {
			shared.ColorWarning.Fprintln(os.Stdout, "No results found")
			return nil
		}

		for i, r := range results {
			switch r.Type {
			case shared.KindTrack:
				fmt.Printf("%3d. %s - %s (%s) %s\n", i+1, r.Artist, r.Label(), r.Duration, r.URL)
			case shared.KindAlbum:
				fmt.Printf("%3d. %s - %s (%d tracks) %s\n", i+1, r.Artist, r.Label(), r.TrackCount, r.URL)
			case shared.KindArtist:
				fmt.Printf("%3d. %s (%d albums) %s\n", i+1, r.Label(), r.AlbumCount, r.URL)
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchMode, "mode", "m", "tracks", "search mode: tracks, albums or artists")
	rootCmd.AddCommand(searchCmd)
}
