package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cargaona/dmx/internal/shared"
)

var downloadCmd = &cobra.Command{
	Use:   "download <url> [url...]",
	Short: "Download one or more Deezer track or album URLs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := newContainer(ctx)

		if ready, reason := svc.Downloader.Ready(); !ready {
			return &shared.ConfigError{Message: reason}
		}

		failed := 0
		for _, url := range args {
			shared.ColorInfo.Fprintf(os.Stdout, "Downloading %s...\n", url)
			if err := svc.Downloader.Download(ctx, url); err != nil {
				failed++
				shared.ColorError.Fprintf(os.Stdout, "Failed: %v\n", err)
				svc.Reporter.Report(shared.ErrKindDownload, "download", err)
				continue
			}
			shared.ColorSuccess.Fprintln(os.Stdout, "Done")
		}
		if failed > 0 {
			shared.ColorWarning.Fprintf(os.Stdout, "%d of %d downloads failed\n", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}
