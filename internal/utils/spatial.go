package utils

import "math"

const earthRadiusKm = 6371.0

// HaversineDistance calculates the distance in meters between two points
// using the Haversine formula.
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLng := (lng2 - lng1) * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180.0)*math.Cos(lat2*math.Pi/180.0)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000
}

// MetersPerDegreeLatitude is the approximate north-south ground distance of
// one degree of latitude.
func MetersPerDegreeLatitude() float64 {
	return 111320.0
}

// MetersPerDegreeLongitude is the approximate east-west ground distance of
// one degree of longitude at the given latitude.
func MetersPerDegreeLongitude(lat float64) float64 {
	m := 111320.0 * math.Cos(lat*math.Pi/180.0)
	if m < 1.0 {
		// Degenerate near the poles; avoid dividing drift by ~zero.
		return 1.0
	}
	return m
}

// NormalizeLongitude wraps a longitude into [0, 360).
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon, 360.0)
	if lon < 0 {
		lon += 360.0
	}
	return lon
}

// DisplayLongitude converts a [0, 360) longitude to the [-180, 180] range
// used by mapping formats.
func DisplayLongitude(lon float64) float64 {
	if lon > 180.0 {
		return lon - 360.0
	}
	return lon
}
