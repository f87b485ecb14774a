package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cargaona/dmx/internal/config"
	"github.com/cargaona/dmx/internal/shared"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage dmx configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(flagConfigDir)

		arl := "(not set)"
		if cfg.ARL != "" {
			arl = maskToken(cfg.ARL)
		}
		fmt.Printf("config file:   %s\n", cfg.FilePath())
		fmt.Printf("arl:           %s\n", arl)
		fmt.Printf("quality:       %s\n", cfg.Quality)
		fmt.Printf("output:        %s\n", cfg.OutputDir)
		fmt.Printf("search_limit:  %d\n", cfg.SearchLimit)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key (arl, quality, output, search_limit)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(flagConfigDir)
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		shared.ColorSuccess.Fprintf(os.Stdout, "Set %s\n", args[0])
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(flagConfigDir)

		cfg.ARL = shared.GetUserInput("Deezer ARL token", cfg.ARL)
		quality := shared.GetUserInput("Quality (128, 320, FLAC)", cfg.Quality)
		if err := cfg.Set("quality", quality); err != nil {
			return err
		}
		output := shared.GetUserInput("Output directory", cfg.OutputDir)
		if err := cfg.Set("output", output); err != nil {
			return err
		}

		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		shared.ColorSuccess.Fprintf(os.Stdout, "Configuration written to %s\n", cfg.FilePath())
		return nil
	},
}

// maskToken hides all but the edges of a credential.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
