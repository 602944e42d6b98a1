package pipeline

import (
	"sort"
	"time"

	"github.com/chrisdamba/deliverymap/internal/models"
)

// AggregateDaily groups the rows by the calendar date of the order timestamp
// and counts orders per day. Only dates actually present in the data appear
// in the series; it is sorted ascending by date because the trend line is
// rendered straight from it. Rows whose timestamp failed to parse (zero
// time) are left out of the series, the same way a NaT group falls out of a
// date grouping. The average is the mean of the per-day counts, defined as 0
// for an empty table.
func AggregateDaily(rows []models.DeliveryRelation) models.DailySummary {
	counts := make(map[time.Time]int)
	for _, row := range rows {
		if row.PlacedAt.IsZero() {
			continue
		}
		y, m, d := row.PlacedAt.UTC().Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		counts[day]++
	}

	days := make([]models.DailyOrders, 0, len(counts))
	total := 0
	for day, n := range counts {
		days = append(days, models.DailyOrders{Date: day, Orders: n})
		total += n
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

	summary := models.DailySummary{Days: days}
	if len(days) > 0 {
		summary.AvgDailyOrders = float64(total) / float64(len(days))
	}
	return summary
}
