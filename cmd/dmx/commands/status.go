package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend and engine availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := newContainer(ctx)

		primary := "unavailable"
		if svc.Search.PrimaryAvailable() {
			primary = "available"
		}
		fmt.Printf("search backend:   %s (%s)\n", svc.Search.PrimaryName(), primary)
		fmt.Printf("fallback backend: %s (available)\n", svc.Search.SecondaryName())

		if ready, reason := svc.Downloader.Ready(); ready {
			fmt.Println("downloads:        ready")
		} else {
			fmt.Printf("downloads:        %s\n", reason)
		}

		if err := svc.Config.Validate(); err != nil {
			fmt.Printf("config:           %v\n", err)
		} else {
			fmt.Println("config:           ok")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
