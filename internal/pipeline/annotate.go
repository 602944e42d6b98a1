package pipeline

import (
	"math"

	"github.com/chrisdamba/deliverymap/internal/models"
)

// AnnotateDistances computes DistanceKm for every row by broadcasting the
// restaurant coordinate against the delivery coordinate column, rounded to
// two decimal places. Rows with missing coordinates come through with NaN;
// the display layer decides whether to drop them. The input slice is left
// untouched and a new slice is returned.
func AnnotateDistances(rows []models.DeliveryRelation) []models.DeliveryRelation {
	lat1 := make([]float64, len(rows))
	lon1 := make([]float64, len(rows))
	lat2 := make([]float64, len(rows))
	lon2 := make([]float64, len(rows))
	for i, row := range rows {
		lat1[i] = row.RestaurantLocation.Lat
		lon1[i] = row.RestaurantLocation.Lon
		lat2[i] = row.DeliveryLocation.Lat
		lon2[i] = row.DeliveryLocation.Lon
	}

	// Lengths match by construction, the error path is unreachable here.
	distances, _ := Distances(lat1, lon1, lat2, lon2)

	out := make([]models.DeliveryRelation, len(rows))
	copy(out, rows)
	for i := range out {
		out[i].DistanceKm = round2(distances[i])
	}
	return out
}

// round2 rounds to two decimal places. NaN stays NaN.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
