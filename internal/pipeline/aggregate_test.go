package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/deliverymap/internal/models"
)

func relationAt(ts time.Time) models.DeliveryRelation {
	return models.DeliveryRelation{PlacedAt: ts}
}

func TestAggregateDailyCountsAndAverage(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 20, 15, 0, 0, time.UTC)

	rows := []models.DeliveryRelation{
		relationAt(day1),
		relationAt(day1.Add(2 * time.Hour)), // same calendar date
		relationAt(day1.Add(5 * time.Hour)),
		relationAt(day2),
	}

	summary := AggregateDaily(rows)

	require.Len(t, summary.Days, 2)
	assert.Equal(t, 3, summary.Days[0].Orders)
	assert.Equal(t, 1, summary.Days[1].Orders)

	// Sum of per-day counts equals the row count; average is that sum
	// over the number of distinct days.
	total := 0
	for _, day := range summary.Days {
		total += day.Orders
	}
	assert.Equal(t, len(rows), total)
	assert.InDelta(t, 2.0, summary.AvgDailyOrders, 1e-9)
}

func TestAggregateDailySortedAscending(t *testing.T) {
	rows := []models.DeliveryRelation{
		relationAt(time.Date(2024, 3, 5, 1, 0, 0, 0, time.UTC)),
		relationAt(time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)),
		relationAt(time.Date(2024, 3, 3, 1, 0, 0, 0, time.UTC)),
	}

	summary := AggregateDaily(rows)

	require.Len(t, summary.Days, 3)
	for i := 1; i < len(summary.Days); i++ {
		assert.True(t, summary.Days[i-1].Date.Before(summary.Days[i].Date))
	}
}

func TestAggregateDailyNoZeroFill(t *testing.T) {
	// March 2nd has no orders; the series must not synthesize it.
	rows := []models.DeliveryRelation{
		relationAt(time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)),
		relationAt(time.Date(2024, 3, 3, 1, 0, 0, 0, time.UTC)),
	}

	summary := AggregateDaily(rows)

	require.Len(t, summary.Days, 2)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), summary.Days[0].Date)
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), summary.Days[1].Date)
}

func TestAggregateDailyEmptyTable(t *testing.T) {
	summary := AggregateDaily(nil)

	assert.Empty(t, summary.Days)
	assert.Equal(t, 0.0, summary.AvgDailyOrders)
}

func TestAggregateDailySkipsUnparseableDates(t *testing.T) {
	rows := []models.DeliveryRelation{
		relationAt(time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)),
		relationAt(time.Time{}), // date failed to parse
		relationAt(time.Time{}),
	}

	summary := AggregateDaily(rows)

	require.Len(t, summary.Days, 1)
	assert.Equal(t, 1, summary.Days[0].Orders)
	assert.InDelta(t, 1.0, summary.AvgDailyOrders, 1e-9)
}
