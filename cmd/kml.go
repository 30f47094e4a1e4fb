package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Axewc/reverse-geocoding/internal/export"
	"github.com/Axewc/reverse-geocoding/internal/fetcher"
)

var (
	kmlCSVOutput  string
	kmlJSONOutput string
	kmlWorkers    int
)

var kmlCmd = &cobra.Command{
	Use:   "kml <file.kml> [more.kml ...]",
	Short: "Extract placemark coordinates and ids from KML files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		extractions := make([]*fetcher.KMLExtraction, len(args))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(kmlWorkers)
		for i, path := range args {
			i, path := i, path
			g.Go(func() error {
				out, err := fetcher.ExtractKMLFile(gctx, path)
				if err != nil {
					return eris.Wrapf(err, "extract %s", path)
				}
				extractions[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		var placemarks []fetcher.Placemark
		for i, out := range extractions {
			printKMLSummary(args[i], out)
			placemarks = append(placemarks, out.Placemarks...)
		}

		if kmlCSVOutput != "" {
			if err := export.WriteFile(kmlCSVOutput, export.FormatCSV, placemarks); err != nil {
				return err
			}
			zap.L().Info("kml placemarks written", zap.String("output", kmlCSVOutput))
		}
		if kmlJSONOutput != "" {
			if err := export.WriteFile(kmlJSONOutput, export.FormatJSON, placemarks); err != nil {
				return err
			}
			zap.L().Info("kml placemarks written", zap.String("output", kmlJSONOutput))
		}
		return nil
	},
}

func printKMLSummary(path string, out *fetcher.KMLExtraction) {
	fmt.Printf("\n=== %s ===\n", filepath.Base(path))
	fmt.Printf("Placemarks kept: %d\n", len(out.Placemarks))
	fmt.Printf("With id: %d\n", out.CountWithID())
	fmt.Printf("With coordinates: %d\n", out.CountWithCoordinates())
	fmt.Printf("With address: %d\n", out.CountWithAddress())
	if out.Bounds != nil {
		fmt.Printf("Extent: lng [%f, %f], lat [%f, %f]\n",
			out.Bounds.Min(0), out.Bounds.Max(0),
			out.Bounds.Min(1), out.Bounds.Max(1),
		)
	}

	limit := min(len(out.Placemarks), 5)
	for _, p := range out.Placemarks[:limit] {
		parts := []string{fmt.Sprintf("#%d", p.PlacemarkIndex)}
		if p.ID != "" {
			parts = append(parts, "id="+p.ID)
		}
		if p.Longitude != nil {
			parts = append(parts, fmt.Sprintf("(%f, %f)", *p.Longitude, *p.Latitude))
		}
		if p.Address != "" {
			parts = append(parts, p.Address)
		}
		fmt.Println("  " + strings.Join(parts, " "))
	}
	if len(out.Placemarks) > limit {
		fmt.Fprintln(os.Stdout, "  ...")
	}
}

func init() {
	kmlCmd.Flags().StringVar(&kmlCSVOutput, "csv", "", "write placemarks to a CSV file")
	kmlCmd.Flags().StringVar(&kmlJSONOutput, "json", "", "write placemarks to a JSON file")
	kmlCmd.Flags().IntVar(&kmlWorkers, "workers", 4, "concurrent file extractions")
	rootCmd.AddCommand(kmlCmd)
}
