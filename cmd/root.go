package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Axewc/reverse-geocoding/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "revgeo",
	Short: "Address cleaning, completion, and enrichment toolkit",
	Long:  "Cleans, completes, and enriches address lists through the OpenCage Geocoding API, reverse-geocodes coordinate lists, and extracts placemarks from KML files.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
