package fetcher

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Axewc/reverse-geocoding/internal/model"
)

// ReadAddressFile loads an address table from a CSV file on disk.
func ReadAddressFile(ctx context.Context, path string) ([]*model.AddressRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open address file %s", path)
	}
	defer f.Close()
	return ReadAddresses(ctx, f)
}

// ReadAddresses parses a header-mapped address CSV into pipeline input
// records. Recognized columns (any case): id, address, lat/latitude,
// lng/longitude/lon. An address column is required; coordinate cells that do
// not parse are left unset with a warning. Rows with neither an address nor
// coordinates are dropped.
func ReadAddresses(ctx context.Context, r io.Reader) ([]*model.AddressRecord, error) {
	rows, err := collectCSV(ctx, r, CSVOptions{TrimSpace: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, eris.New("fetcher: empty address csv")
	}

	idCol, addrCol, latCol, lngCol := -1, -1, -1, -1
	for i, name := range rows[0] {
		switch key := strings.ToLower(strings.TrimSpace(name)); {
		case key == "id":
			idCol = i
		case key == "address":
			addrCol = i
		case latColumnNames[key]:
			latCol = i
		case lngColumnNames[key]:
			lngCol = i
		}
	}
	if addrCol < 0 {
		return nil, eris.New("fetcher: address column not found")
	}

	cell := func(row []string, col int) string {
		if col < 0 || col >= len(row) {
			return ""
		}
		return row[col]
	}

	records := make([]*model.AddressRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		addr := cell(row, addrCol)
		// An unquoted comma inside the address splits the row into extra
		// fields. When address is the last header column those fields can
		// only belong to it, so rejoin them.
		if addrCol == len(rows[0])-1 && len(row) > len(rows[0]) {
			addr = strings.Join(row[addrCol:], ", ")
		}

		rec := &model.AddressRecord{
			ID:      cell(row, idCol),
			Address: addr,
		}

		if raw := cell(row, latCol); raw != "" {
			if lat, err := strconv.ParseFloat(raw, 64); err == nil {
				rec.Lat = &lat
			} else {
				zap.L().Warn("fetcher: ignoring invalid latitude",
					zap.Int("row", i+2),
					zap.String("value", raw),
				)
			}
		}
		if raw := cell(row, lngCol); raw != "" {
			if lng, err := strconv.ParseFloat(raw, 64); err == nil {
				rec.Lng = &lng
			} else {
				zap.L().Warn("fetcher: ignoring invalid longitude",
					zap.Int("row", i+2),
					zap.String("value", raw),
				)
			}
		}

		// Coordinates only count as present when both halves parsed.
		if rec.Lat == nil || rec.Lng == nil {
			rec.Lat, rec.Lng = nil, nil
		}

		if rec.Address == "" && rec.Lat == nil {
			zap.L().Warn("fetcher: dropping row with no address and no coordinates",
				zap.Int("row", i+2),
			)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
