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
	enhanceOutput     string
	enhanceFormat     string
	enhanceLanguage   string
	enhanceDelay      float64
	enhanceClean      bool
	enhanceAggressive bool
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance <addresses.csv>",
	Short: "Clean, complete, and enrich an address list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		inputFile := args[0]

		if enhanceAggressive {
			enhanceClean = true
		}
		format, err := export.ParseFormat(enhanceFormat)
		if err != nil {
			return err
		}

		geo, st, cleanup, err := newGeocoder(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		records, err := fetcher.ReadAddressFile(ctx, inputFile)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return eris.Errorf("no addresses found in %s", inputFile)
		}
		fmt.Fprintf(os.Stderr, "Found %d addresses to process\n", len(records))

		run := journalStart(ctx, st, "enhance", inputFile)

		language := enhanceLanguage
		if language == "" {
			language = cfg.Batch.Language
		}
		delay := enhanceDelay
		if delay < 0 {
			delay = cfg.Batch.DelaySecs
		}

		bar := newProgressBar(len(records), "Processing addresses")
		out := enhance.New(geo).ProcessBatch(ctx, records, enhance.BatchOptions{
			Delay:      time.Duration(delay * float64(time.Second)),
			Language:   language,
			Clean:      enhanceClean,
			Aggressive: enhanceAggressive,
			Progress:   func(done, _ int) { _ = bar.Set(done) },
		})

		failed := 0
		for _, rec := range out {
			if rec.ProcessingError != "" {
				failed++
			}
		}

		if err := export.WriteFile(enhanceOutput, format, out); err != nil {
			return err
		}
		journalFinish(ctx, st, run, enhanceOutput, len(out), failed)

		zap.L().Info("enhancement complete",
			zap.Int("processed", len(out)),
			zap.Int("failed", failed),
			zap.String("output", enhanceOutput),
		)
		fmt.Fprintf(os.Stderr, "Processed %d addresses (%d failed), results in %s\n", len(out), failed, enhanceOutput)
		return nil
	},
}

func init() {
	enhanceCmd.Flags().StringVarP(&enhanceOutput, "output", "o", "enhanced_addresses.csv", "output file")
	enhanceCmd.Flags().StringVar(&enhanceFormat, "format", "csv", "output format (csv, json, xlsx)")
	enhanceCmd.Flags().StringVar(&enhanceLanguage, "language", "", "result language (default from config)")
	enhanceCmd.Flags().Float64Var(&enhanceDelay, "delay", -1, "seconds between provider requests (default from config)")
	enhanceCmd.Flags().BoolVar(&enhanceClean, "clean", false, "strip special characters from results")
	enhanceCmd.Flags().BoolVar(&enhanceAggressive, "aggressive", false, "also fold accented characters (implies --clean)")
	rootCmd.AddCommand(enhanceCmd)
}
