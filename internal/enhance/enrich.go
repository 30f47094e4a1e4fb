package enhance

import (
	"context"
	"time"

	"github.com/Axewc/reverse-geocoding/internal/model"
	"github.com/Axewc/reverse-geocoding/pkg/opencage"
)

// Enrich attaches timezone, administrative hierarchy, and geographic
// annotations to a record. Coordinates resolve in priority order: the
// explicit argument, then a forward lookup on the record's raw address, else
// enrichment is skipped. A provider failure sets EnrichmentError but keeps
// whatever was computed before it; the timestamp and version are stamped in
// every case.
func (e *Enhancer) Enrich(ctx context.Context, rec *model.AddressRecord, coords *model.Coordinates, opts Options) {
	if err := e.enrich(ctx, rec, coords, opts); err != nil {
		rec.EnrichmentError = err.Error()
	}
	rec.EnrichmentTimestamp = time.Now().Format(time.RFC3339)
	rec.EnrichmentVersion = enrichmentVersion
}

func (e *Enhancer) enrich(ctx context.Context, rec *model.AddressRecord, coords *model.Coordinates, opts Options) error {
	if coords == nil && rec.Address != "" {
		candidates, err := e.geo.Forward(ctx, rec.Address, opencage.LookupOptions{})
		if err != nil {
			return err
		}
		if len(candidates) > 0 {
			g := candidates[0].Geometry
			coords = &model.Coordinates{Lat: g.Lat, Lng: g.Lng}
			rec.Coordinates = coords
		}
	}
	if coords == nil {
		return nil
	}

	candidates, err := e.geo.Reverse(ctx, coords.Lat, coords.Lng, opencage.LookupOptions{
		SuppressAnnotations: opts.Clean,
	})
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return nil
	}

	top := candidates[0]
	components := top.Components
	if opts.Clean {
		components = cleanComponents(components, opts.Aggressive)
	}

	ann := top.Annotations
	if ann == nil {
		ann = &opencage.Annotations{}
	}

	tz := &model.TimezoneInfo{}
	if ann.Timezone != nil {
		tz.Name = ann.Timezone.Name
		tz.OffsetSec = ann.Timezone.OffsetSec
		tz.OffsetString = ann.Timezone.OffsetString
	}
	rec.Timezone = tz

	rec.AdministrativeLevels = &model.AdministrativeLevels{
		Country:       stringComponent(components, "country"),
		CountryCode:   stringComponent(components, "country_code"),
		State:         stringComponent(components, "state"),
		StateCode:     stringComponent(components, "state_code"),
		Province:      stringComponent(components, "province"),
		County:        stringComponent(components, "county"),
		City:          stringComponent(components, "city"),
		Town:          stringComponent(components, "town"),
		Village:       stringComponent(components, "village"),
		Suburb:        stringComponent(components, "suburb"),
		Neighbourhood: stringComponent(components, "neighbourhood"),
	}

	rec.GeographicInfo = &model.GeographicInfo{
		Postcode:    stringComponent(components, "postcode"),
		Continent:   ann.Continent,
		Currency:    ann.Currency,
		CallingCode: ann.CallingCode,
		Flag:        ann.Flag,
		Geohash:     ann.Geohash,
		What3Words:  ann.What3Words,
	}

	rec.QualityInfo = &model.QualityInfo{
		MGRS:       ann.MGRS,
		Maidenhead: ann.Maidenhead,
		Mercator:   ann.Mercator,
		OSM:        ann.OSM,
		UNM49:      ann.UNM49,
	}

	// Only attached when the provider reports degrees-minutes-seconds.
	if ann.DMS != nil {
		rec.CoordinateSystems = &model.CoordinateSystems{
			DMS:        ann.DMS,
			MGRS:       ann.MGRS,
			Maidenhead: ann.Maidenhead,
		}
	}

	return nil
}
