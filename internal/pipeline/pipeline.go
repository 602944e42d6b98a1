// Package pipeline implements the restaurant-to-delivery computation core:
// an inner join of orders onto restaurants, zone/restaurant filtering,
// vectorized Haversine distance annotation, and daily order aggregation.
// Every stage is a pure function over immutable inputs, so a full pass is
// deterministic and safe to recompute on every selection change.
package pipeline

import (
	"math"

	"github.com/chrisdamba/deliverymap/internal/models"
)

var nan = math.NaN()

// Result is everything the presentation layer consumes for one selection:
// the annotated row set and the daily order summary.
type Result struct {
	Rows    []models.DeliveryRelation `json:"rows"`
	Summary models.DailySummary       `json:"summary"`
}

// Run executes the full pass from raw tables and a selection to a Result.
// Re-running on unchanged inputs produces identical output.
func Run(restaurants []models.Restaurant, orders []models.Order, sel Selection) Result {
	return RunJoined(Join(restaurants, orders), sel)
}

// RunJoined is Run starting from an already-joined table, for callers that
// memoize the join across selection changes.
func RunJoined(joined []models.DeliveryRelation, sel Selection) Result {
	rows := Filter(joined, sel)
	return Result{
		Rows:    AnnotateDistances(rows),
		Summary: AggregateDaily(rows),
	}
}
