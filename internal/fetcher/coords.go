package fetcher

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Axewc/reverse-geocoding/internal/model"
)

var (
	latColumnNames = map[string]bool{"lat": true, "latitude": true}
	lngColumnNames = map[string]bool{"lng": true, "longitude": true, "lon": true}
)

// ReadCoordinates loads a coordinate list from a file, choosing the parser by
// extension: .csv gets header-aware column detection, everything else is
// treated as plain text.
func ReadCoordinates(ctx context.Context, path string) ([]model.Coordinates, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open coordinate file %s", path)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ReadCoordinatesCSV(ctx, f)
	}
	return ReadCoordinatesTXT(f)
}

// ReadCoordinatesCSV parses lat/lng pairs out of a CSV stream. The header row
// is matched against the usual latitude and longitude column names in any
// case; when neither name is found the first two columns are assumed. Rows
// that do not parse as two floats are skipped with a warning.
func ReadCoordinatesCSV(ctx context.Context, r io.Reader) ([]model.Coordinates, error) {
	rows, err := collectCSV(ctx, r, CSVOptions{TrimSpace: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, eris.New("fetcher: empty coordinate csv")
	}

	header := rows[0]
	latCol, lngCol := -1, -1
	for i, name := range header {
		switch key := strings.ToLower(strings.TrimSpace(name)); {
		case latColumnNames[key]:
			latCol = i
		case lngColumnNames[key]:
			lngCol = i
		}
	}
	if latCol < 0 || lngCol < 0 {
		if len(header) < 2 {
			return nil, eris.New("fetcher: could not identify latitude and longitude columns")
		}
		latCol, lngCol = 0, 1
	}

	coords := make([]model.Coordinates, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if latCol >= len(row) || lngCol >= len(row) {
			zap.L().Warn("fetcher: skipping short row", zap.Int("row", i+2))
			continue
		}
		lat, latErr := strconv.ParseFloat(row[latCol], 64)
		lng, lngErr := strconv.ParseFloat(row[lngCol], 64)
		if latErr != nil || lngErr != nil {
			zap.L().Warn("fetcher: skipping row with invalid coordinates",
				zap.Int("row", i+2),
				zap.String("lat", row[latCol]),
				zap.String("lng", row[lngCol]),
			)
			continue
		}
		coords = append(coords, model.Coordinates{Lat: lat, Lng: lng})
	}
	return coords, nil
}

// ReadCoordinatesTXT parses "lat,lng" or "lat lng" lines. Blank lines and
// lines starting with '#' are skipped; malformed lines are skipped with a
// warning.
func ReadCoordinatesTXT(r io.Reader) ([]model.Coordinates, error) {
	var coords []model.Coordinates

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var parts []string
		if strings.Contains(line, ",") {
			parts = strings.Split(line, ",")
		} else {
			parts = strings.Fields(line)
		}
		if len(parts) < 2 {
			zap.L().Warn("fetcher: skipping line with insufficient data",
				zap.Int("line", lineNum),
				zap.String("text", line),
			)
			continue
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if latErr != nil || lngErr != nil {
			zap.L().Warn("fetcher: skipping line with invalid format",
				zap.Int("line", lineNum),
				zap.String("text", line),
			)
			continue
		}
		coords = append(coords, model.Coordinates{Lat: lat, Lng: lng})
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "fetcher: read coordinate text")
	}
	return coords, nil
}
