package geobattle

import "math"

const earthRadiusKm = 6371

// Score converts a guess distance in kilometers into points:
// max(0, round(1000 - distance*20)). Zero from 50 km onward.
func Score(distanceKm float64) int {
	return int(math.Max(0, math.Round(1000-distanceKm*20)))
}

// Distance returns the great-circle distance in kilometers between two
// points, using the haversine formula.
func Distance(aLat, aLng, bLat, bLng float64) float64 {
	la1 := aLat * math.Pi / 180
	la2 := bLat * math.Pi / 180
	dLat := (bLat - aLat) * math.Pi / 180
	dLng := (bLng - aLng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
