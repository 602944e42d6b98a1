package models

import "time"

// DeliveryRelation is one joined restaurant/order row. DistanceKm is derived
// by the annotation stage and is NaN until then, or when delivery coordinates
// are missing.
type DeliveryRelation struct {
	OrderID            string    `json:"order_id"`
	RestaurantID       string    `json:"restaurant_id"`
	RestaurantName     string    `json:"restaurant_name"`
	Zone               string    `json:"zone_name"`
	RestaurantLocation Location  `json:"restaurant_location"`
	DeliveryLocation   Location  `json:"delivery_location"`
	PlacedAt           time.Time `json:"order_date"`
	DistanceKm         float64   `json:"distance_km"`
}

// DailyOrders is the order count for one calendar date that actually appears
// in the data. Dates with zero orders are never synthesized.
type DailyOrders struct {
	Date   time.Time `json:"date"`
	Orders int       `json:"orders"`
}

// DailySummary is the per-day order series, sorted ascending by date, plus
// the mean of the per-day counts (0 when the series is empty).
type DailySummary struct {
	Days           []DailyOrders `json:"days"`
	AvgDailyOrders float64       `json:"avg_daily_orders"`
}
