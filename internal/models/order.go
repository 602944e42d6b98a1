package models

import "time"

// Order is one row of the order/delivery table. BranchID references a
// Restaurant.ID; orders without a matching restaurant are dropped at join
// time. Delivery coordinates may be NaN and PlacedAt may be the zero time
// when the source data is malformed.
type Order struct {
	ID       string    `json:"order_id"`
	BranchID string    `json:"branch_id"`
	Delivery Location  `json:"delivery_location"`
	PlacedAt time.Time `json:"order_date"`
}
