package fetcher

import (
	"context"
	"encoding/xml"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
)

// kmlPlacemark is the decode target for one <Placemark>. Tag matching is on
// local names, so the KML namespace (and BatchGeo's variations on it) is
// irrelevant.
type kmlPlacemark struct {
	Address      string `xml:"address"`
	Coordinates  string `xml:"Point>coordinates"`
	ExtendedData struct {
		Data []struct {
			Name  string `xml:"name,attr"`
			Value string `xml:"value"`
		} `xml:"Data"`
	} `xml:"ExtendedData"`
}

// Placemark is one extracted KML placemark. Longitude, Latitude and Altitude
// are nil when the placemark carried no parsable coordinates.
type Placemark struct {
	PlacemarkIndex int      `json:"placemark_index"`
	ID             string   `json:"id,omitempty"`
	Address        string   `json:"address,omitempty"`
	Longitude      *float64 `json:"longitude"`
	Latitude       *float64 `json:"latitude"`
	Altitude       *float64 `json:"altitude"`
	CoordinatesRaw string   `json:"coordinates_raw,omitempty"`
}

// KMLExtraction is the result of scanning one KML file.
type KMLExtraction struct {
	Placemarks []Placemark
	Bounds     *geom.Bounds // extent of all placemark points, nil when none had coordinates
}

// CountWithID reports how many placemarks carry an ExtendedData id.
func (x *KMLExtraction) CountWithID() int {
	n := 0
	for _, p := range x.Placemarks {
		if p.ID != "" {
			n++
		}
	}
	return n
}

// CountWithCoordinates reports how many placemarks carry parsed coordinates.
func (x *KMLExtraction) CountWithCoordinates() int {
	n := 0
	for _, p := range x.Placemarks {
		if p.Longitude != nil {
			n++
		}
	}
	return n
}

// CountWithAddress reports how many placemarks carry an address.
func (x *KMLExtraction) CountWithAddress() int {
	n := 0
	for _, p := range x.Placemarks {
		if p.Address != "" {
			n++
		}
	}
	return n
}

// ExtractKMLFile extracts placemarks from a KML file on disk.
func ExtractKMLFile(ctx context.Context, path string) (*KMLExtraction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open kml file %s", path)
	}
	defer f.Close()
	return ExtractKML(ctx, f)
}

// ExtractKML streams placemarks out of a KML document. Each placemark keeps
// its 1-based document position; placemarks with neither coordinates nor an
// id are dropped. The extent bounds cover every point that parsed.
func ExtractKML(ctx context.Context, r io.Reader) (*KMLExtraction, error) {
	markCh, errCh := streamPlacemarks(ctx, r)

	out := &KMLExtraction{}
	bounds := geom.NewBounds(geom.XY)
	index := 0
	for raw := range markCh {
		index++
		p := Placemark{
			PlacemarkIndex: index,
			ID:             extendedDataID(raw),
			Address:        strings.TrimSpace(raw.Address),
		}

		if coordText := strings.TrimSpace(raw.Coordinates); coordText != "" {
			p.CoordinatesRaw = coordText
			if pt := parseKMLCoordinates(coordText); pt != nil {
				lng, lat := pt.X(), pt.Y()
				alt := pt.Z()
				p.Longitude = &lng
				p.Latitude = &lat
				p.Altitude = &alt
				bounds.Extend(pt)
			}
		}

		if p.Longitude == nil && p.ID == "" {
			zap.L().Debug("fetcher: dropping placemark without coordinates or id",
				zap.Int("index", index),
			)
			continue
		}
		out.Placemarks = append(out.Placemarks, p)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}

	zap.L().Info("fetcher: kml extraction complete",
		zap.Int("placemarks", index),
		zap.Int("kept", len(out.Placemarks)),
	)
	if !bounds.IsEmpty() {
		out.Bounds = bounds
	}
	return out, nil
}

// streamPlacemarks decodes every <Placemark> element and sends it to a
// channel. Both channels close when the document ends. Non-UTF8 encodings
// declared in the XML prolog are handled via htmlindex.
func streamPlacemarks(ctx context.Context, r io.Reader) (<-chan kmlPlacemark, <-chan error) {
	markCh := make(chan kmlPlacemark, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(markCh)
		defer close(errCh)

		decoder := xml.NewDecoder(r)
		decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
			enc, err := htmlindex.Get(charset)
			if err != nil {
				return nil, eris.Wrapf(err, "fetcher: unsupported kml charset %q", charset)
			}
			return enc.NewDecoder().Reader(input), nil
		}

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "fetcher: kml context cancelled")
				return
			}

			tok, err := decoder.Token()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "fetcher: read kml token")
				return
			}

			se, ok := tok.(xml.StartElement)
			if !ok || se.Name.Local != "Placemark" {
				continue
			}

			var mark kmlPlacemark
			if err := decoder.DecodeElement(&mark, &se); err != nil {
				errCh <- eris.Wrap(err, "fetcher: decode placemark")
				return
			}

			select {
			case markCh <- mark:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "fetcher: kml context cancelled")
				return
			}
		}
	}()

	return markCh, errCh
}

func extendedDataID(mark kmlPlacemark) string {
	for _, d := range mark.ExtendedData.Data {
		if d.Name == "id" && strings.TrimSpace(d.Value) != "" {
			return strings.TrimSpace(d.Value)
		}
	}
	return ""
}

// parseKMLCoordinates parses the KML "lon,lat[,alt]" coordinate form into a
// point. Altitude defaults to 0 when absent.
func parseKMLCoordinates(text string) *geom.Point {
	parts := strings.Split(strings.TrimSpace(text), ",")
	if len(parts) < 2 {
		zap.L().Warn("fetcher: malformed kml coordinates", zap.String("text", text))
		return nil
	}

	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if lngErr != nil || latErr != nil {
		zap.L().Warn("fetcher: malformed kml coordinates", zap.String("text", text))
		return nil
	}

	alt := 0.0
	if len(parts) > 2 {
		if v, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64); err == nil {
			alt = v
		}
	}
	return geom.NewPointFlat(geom.XYZ, []float64{lng, lat, alt})
}
