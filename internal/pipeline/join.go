package pipeline

import "github.com/chrisdamba/deliverymap/internal/models"

// Join performs an inner join of orders onto restaurants on
// orders.BranchID == restaurants.ID. Orders without a matching restaurant
// are silently dropped; partial reference data is expected, not an error.
func Join(restaurants []models.Restaurant, orders []models.Order) []models.DeliveryRelation {
	byID := make(map[string]models.Restaurant, len(restaurants))
	for _, r := range restaurants {
		byID[r.ID] = r
	}

	rows := make([]models.DeliveryRelation, 0, len(orders))
	for _, o := range orders {
		r, ok := byID[o.BranchID]
		if !ok {
			continue
		}
		rows = append(rows, models.DeliveryRelation{
			OrderID:            o.ID,
			RestaurantID:       r.ID,
			RestaurantName:     r.Name,
			Zone:               r.Zone,
			RestaurantLocation: r.Location,
			DeliveryLocation:   o.Delivery,
			PlacedAt:           o.PlacedAt,
			DistanceKm:         nan,
		})
	}
	return rows
}
