// api/store/geo.go
package store

import (
	"math/rand"
	"sort"

	"olistdash/api/models"
)

// MaxMapPoints caps how many markers the customer map renders.
const MaxMapPoints = 3000

// sampleSeed fixes the sampling RNG so the same filtered dataset always maps
// to the same marker set.
const sampleSeed = 42

// MapSample extracts the coordinate points for the customer map. Rows missing
// either coordinate are dropped; when more than MaxMapPoints remain, a
// deterministic uniform sample of exactly MaxMapPoints is taken. The centroid
// of the final point set centers the map. When no row carries both
// coordinates the sample is marked unavailable and everything else on the
// dashboard still renders.
func MapSample(rows []models.OrderRecord) models.MapSample {
	pts := make([]models.GeoPoint, 0, len(rows))
	for _, r := range rows {
		if r.GeoLat == nil || r.GeoLng == nil {
			continue
		}
		pts = append(pts, models.GeoPoint{Lat: *r.GeoLat, Lng: *r.GeoLng})
	}

	if len(pts) == 0 {
		return models.MapSample{
			Available: false,
			Message:   "Geolocation columns are missing or empty. Run the geolocation join upstream to enable the map.",
		}
	}

	total := len(pts)
	sampled := false
	if len(pts) > MaxMapPoints {
		rng := rand.New(rand.NewSource(sampleSeed))
		idx := rng.Perm(len(pts))[:MaxMapPoints]
		sort.Ints(idx)
		picked := make([]models.GeoPoint, 0, MaxMapPoints)
		for _, i := range idx {
			picked = append(picked, pts[i])
		}
		pts = picked
		sampled = true
	}

	var sumLat, sumLng float64
	for _, p := range pts {
		sumLat += p.Lat
		sumLng += p.Lng
	}
	center := models.GeoPoint{
		Lat: sumLat / float64(len(pts)),
		Lng: sumLng / float64(len(pts)),
	}

	return models.MapSample{
		Available: true,
		Center:    &center,
		Points:    pts,
		Sampled:   sampled,
		TotalRows: total,
	}
}
