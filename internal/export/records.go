package export

import (
	"math"
	"time"

	"github.com/chrisdamba/deliverymap/internal/models"
)

// Topics written by Publish. One message per row.
const (
	TopicRelations = "delivery_relations"
	TopicDaily     = "daily_orders"
	TopicSummary   = "daily_summary"
)

// RelationRecord is the wire form of one annotated row. Coordinates and the
// distance are pointers because JSON has no NaN; a missing value serializes
// as null.
type RelationRecord struct {
	OrderID        string   `json:"order_id"`
	RestaurantID   string   `json:"restaurant_id"`
	RestaurantName string   `json:"restaurant_name"`
	Zone           string   `json:"zone_name"`
	RestaurantLat  *float64 `json:"restaurant_lat"`
	RestaurantLon  *float64 `json:"restaurant_lon"`
	DeliveryLat    *float64 `json:"delivery_lat"`
	DeliveryLon    *float64 `json:"delivery_lon"`
	OrderDate      string   `json:"order_date,omitempty"`
	DistanceKm     *float64 `json:"distance_km"`
}

// DailyRecord is one point of the daily order trend.
type DailyRecord struct {
	Date   string `json:"date"`
	Orders int    `json:"orders"`
}

// SummaryRecord carries the scalar average over the daily series.
type SummaryRecord struct {
	AvgDailyOrders float64 `json:"avg_daily_orders"`
	Days           int     `json:"days"`
	Orders         int     `json:"orders"`
}

// Relations converts annotated rows to their wire form.
func Relations(rows []models.DeliveryRelation) []RelationRecord {
	records := make([]RelationRecord, len(rows))
	for i, row := range rows {
		records[i] = RelationRecord{
			OrderID:        row.OrderID,
			RestaurantID:   row.RestaurantID,
			RestaurantName: row.RestaurantName,
			Zone:           row.Zone,
			RestaurantLat:  jsonFloat(row.RestaurantLocation.Lat),
			RestaurantLon:  jsonFloat(row.RestaurantLocation.Lon),
			DeliveryLat:    jsonFloat(row.DeliveryLocation.Lat),
			DeliveryLon:    jsonFloat(row.DeliveryLocation.Lon),
			OrderDate:      formatDate(row.PlacedAt),
			DistanceKm:     jsonFloat(row.DistanceKm),
		}
	}
	return records
}

// Daily converts the aggregate series to its wire form.
func Daily(summary models.DailySummary) ([]DailyRecord, SummaryRecord) {
	records := make([]DailyRecord, len(summary.Days))
	orders := 0
	for i, day := range summary.Days {
		records[i] = DailyRecord{
			Date:   day.Date.Format("2006-01-02"),
			Orders: day.Orders,
		}
		orders += day.Orders
	}
	return records, SummaryRecord{
		AvgDailyOrders: summary.AvgDailyOrders,
		Days:           len(summary.Days),
		Orders:         orders,
	}
}

func jsonFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
