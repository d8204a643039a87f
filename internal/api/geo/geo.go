package geo

import "math"

const earthRadiusKm = 6371.0

// Distance calculates the great-circle distance between two coordinates
// using the Haversine formula. Returns kilometers.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	dlat := lat2Rad - lat1Rad
	dlon := lon2Rad - lon1Rad

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// TravelTimeMinutes estimates door-to-door travel time in minutes between two
// coordinates. Tiered average speeds for the Busan city area: under 2km is
// walkable, under 5km is bus/taxi with a 10 minute wait, beyond that is
// metro/intercity with a 15 minute wait. An estimator, not a routed path.
func TravelTimeMinutes(lat1, lon1, lat2, lon2 float64) int {
	distance := Distance(lat1, lon1, lat2, lon2)

	switch {
	case distance < 2:
		return int(distance / 15 * 60)
	case distance < 5:
		return int(distance/25*60) + 10
	default:
		return int(distance/35*60) + 15
	}
}
