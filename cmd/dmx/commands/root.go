// Package commands defines the dmx command-line interface.
package commands

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cargaona/dmx/internal/config"
	"github.com/cargaona/dmx/internal/services"
	"github.com/cargaona/dmx/internal/session"
)

var (
	flagConfigDir string
	flagDebug     bool
)

var rootCmd = &cobra.Command{
	Use:   "dmx [query]",
	Short: "Search and download music from the terminal",
	Long: `dmx is an interactive music search and download tool.

Run it without arguments to start the interactive session, or pass a
query to search immediately. Subcommands cover one-shot searches,
direct downloads and configuration.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := newContainer(ctx)

		s := session.New(os.Stdin, os.Stdout, svc.Search, svc.Downloader, svc.Deezer, svc.Config, svc.Reporter, svc.Log)
		defer svc.MusicBrainz.Cleanup()

		return s.Run(ctx, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.config/dmx)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.SilenceUsage = true
}

// newContainer loads the configuration and wires the service graph.
func newContainer(ctx context.Context) *services.Container {
	cfg := config.Load(flagConfigDir)
	if flagDebug {
		cfg.Debug = true
	}
	return services.New(ctx, cfg)
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
