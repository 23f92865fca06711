package route

import (
	"context"
	"math"
)

const (
	EarthRadiusMiles = 3959.0
	AverageSpeedMPH  = 30.0
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CoordinateLookup resolves a postal code to a coordinate pair.
type CoordinateLookup interface {
	CoordinatesFor(ctx context.Context, postalCode string) (Coordinate, error)
}

// DistanceMiles is the great-circle distance between a and b.
func DistanceMiles(a, b Coordinate) float64 {
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return EarthRadiusMiles * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// TravelMinutes converts a distance into driving minutes at the average speed.
func TravelMinutes(miles float64) float64 {
	return miles / AverageSpeedMPH * 60
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
