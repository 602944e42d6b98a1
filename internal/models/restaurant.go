package models

// Restaurant is one row of the restaurant reference table.
type Restaurant struct {
	ID       string   `json:"id"`
	Name     string   `json:"restaurant_name"`
	Zone     string   `json:"zone_name"`
	Location Location `json:"location"`
}
