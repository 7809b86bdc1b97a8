// Package geo computes the geofence distance used to validate check-ins.
package geo

import "math"

const metersPerDegree = 111 * 1000

// DistanceMeters returns the approximate distance between two WGS84 points:
// the Euclidean distance in degrees scaled by ~111km per degree. This matches
// the production behavior this service replaces; it is not a haversine
// great-circle distance and loses accuracy away from the equator.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat1 - lat2
	dLon := lon1 - lon2

	return math.Sqrt(dLat*dLat+dLon*dLon) * metersPerDegree
}
