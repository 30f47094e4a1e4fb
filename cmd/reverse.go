package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Axewc/reverse-geocoding/internal/enhance"
	"github.com/Axewc/reverse-geocoding/internal/export"
	"github.com/Axewc/reverse-geocoding/internal/fetcher"
)

var (
	reverseOutput      string
	reverseFormat      string
	reverseLanguage    string
	reverseCountryCode string
	reverseDelay       float64
	reverseClean       bool
	reverseAggressive  bool
)

var reverseCmd = &cobra.Command{
	Use:   "reverse <coordinates.csv|coordinates.txt>",
	Short: "Reverse-geocode a list of coordinates",
	Long:  "Reads latitude/longitude pairs from a CSV (with column auto-detection) or plain text file and resolves each to an address.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		inputFile := args[0]

		if reverseAggressive {
			reverseClean = true
		}
		format, err := export.ParseFormat(reverseFormat)
		if err != nil {
			return err
		}

		geo, st, cleanup, err := newGeocoder(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		coords, err := fetcher.ReadCoordinates(ctx, inputFile)
		if err != nil {
			return err
		}
		if len(coords) == 0 {
			return eris.Errorf("no coordinates found in %s", inputFile)
		}
		fmt.Fprintf(os.Stderr, "Found %d coordinates to process\n", len(coords))

		run := journalStart(ctx, st, "reverse", inputFile)

		language := reverseLanguage
		if language == "" {
			language = cfg.Batch.Language
		}
		delay := reverseDelay
		if delay < 0 {
			delay = cfg.Batch.DelaySecs
		}

		bar := newProgressBar(len(coords), "Reverse geocoding")
		rows := enhance.New(geo).ReverseBatch(ctx, coords, enhance.ReverseOptions{
			Delay:       time.Duration(delay * float64(time.Second)),
			Language:    language,
			CountryBias: reverseCountryCode,
			Clean:       reverseClean,
			Aggressive:  reverseAggressive,
			Progress:    func(done, _ int) { _ = bar.Set(done) },
		})

		if err := export.WriteFile(reverseOutput, format, rows); err != nil {
			return err
		}
		journalFinish(ctx, st, run, reverseOutput, len(rows), 0)

		zap.L().Info("reverse geocoding complete",
			zap.Int("processed", len(rows)),
			zap.String("output", reverseOutput),
		)
		fmt.Fprintf(os.Stderr, "Processed %d coordinates, results in %s\n", len(rows), reverseOutput)
		return nil
	},
}

func init() {
	reverseCmd.Flags().StringVarP(&reverseOutput, "output", "o", "geocoding_results.csv", "output file")
	reverseCmd.Flags().StringVar(&reverseFormat, "format", "csv", "output format (csv, json, xlsx)")
	reverseCmd.Flags().StringVar(&reverseLanguage, "language", "", "result language (default from config)")
	reverseCmd.Flags().StringVar(&reverseCountryCode, "country-code", "", "bias results toward a country (e.g. es)")
	reverseCmd.Flags().Float64Var(&reverseDelay, "delay", -1, "seconds between provider requests (default from config)")
	reverseCmd.Flags().BoolVar(&reverseClean, "clean", false, "strip special characters from results")
	reverseCmd.Flags().BoolVar(&reverseAggressive, "aggressive", false, "also fold accented characters (implies --clean)")
	rootCmd.AddCommand(reverseCmd)
}
