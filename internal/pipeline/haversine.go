package pipeline

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0 // Earth's radius in kilometers

// Distance returns the great-circle distance in kilometers between two
// latitude/longitude points, using the Haversine formula on a spherical
// Earth. NaN or out-of-range coordinates yield NaN rather than an error;
// callers filter invalid rows beforehand if they need strictness.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	if !inRange(lat1, lon1) || !inRange(lat2, lon2) {
		return math.NaN()
	}

	// Convert latitude and longitude from degrees to radians
	rlat1 := degreesToRadians(lat1)
	rlon1 := degreesToRadians(lon1)
	rlat2 := degreesToRadians(lat2)
	rlon2 := degreesToRadians(lon2)

	// Haversine formula
	dlat := rlat2 - rlat1
	dlon := rlon2 - rlon1
	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(rlat1)*math.Cos(rlat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Distances is the column form of Distance: it computes the distance for
// every index of four equal-length coordinate columns in a single pass with
// one output allocation. Delivery sets run to thousands of points per
// restaurant, so the whole column is processed at once instead of going
// through a per-row call chain. A length mismatch is a programmer error and
// returns an error; bad values inside the columns propagate as NaN.
func Distances(lat1, lon1, lat2, lon2 []float64) ([]float64, error) {
	n := len(lat1)
	if len(lon1) != n || len(lat2) != n || len(lon2) != n {
		return nil, fmt.Errorf("coordinate columns must have equal length: %d, %d, %d, %d",
			len(lat1), len(lon1), len(lat2), len(lon2))
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = Distance(lat1[i], lon1[i], lat2[i], lon2[i])
	}
	return out, nil
}

func inRange(lat, lon float64) bool {
	// NaN fails every comparison, so it falls through to false as well.
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
