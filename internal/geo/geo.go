// Package geo implements the proximity filter used by listing search.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius in kilometers.
const EarthRadiusKm = 6371

// Distance returns the approximate distance in kilometers from the search
// center (centerLat, centerLng) to the point (lat, lng).
//
// This is a flat-earth planar approximation: the latitude and longitude
// deltas are converted to kilometers (longitude scaled by the cosine of the
// center latitude) and combined with the Euclidean norm. It is accurate
// enough for the small radii used in local search and must not be swapped
// for a great-circle formula, since that would change which listings match
// a given radius.
func Distance(centerLat, centerLng, lat, lng float64) float64 {
	dx := (lat - centerLat) * EarthRadiusKm * math.Pi / 180
	dy := (lng - centerLng) * EarthRadiusKm * math.Pi / 180 * math.Cos(centerLat*math.Pi/180)
	return math.Sqrt(dx*dx + dy*dy)
}
