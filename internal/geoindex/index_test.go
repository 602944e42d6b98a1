package geoindex

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/deliverymap/internal/models"
	"github.com/chrisdamba/deliverymap/internal/pipeline"
)

func relations() []models.DeliveryRelation {
	center := models.Location{Lat: 12.90, Lon: 77.60}
	return []models.DeliveryRelation{
		{OrderID: "near", RestaurantLocation: center, DeliveryLocation: models.Location{Lat: 12.905, Lon: 77.605}},    // < 1 km
		{OrderID: "mid", RestaurantLocation: center, DeliveryLocation: models.Location{Lat: 12.93, Lon: 77.62}},       // ~4 km
		{OrderID: "far", RestaurantLocation: center, DeliveryLocation: models.Location{Lat: 13.10, Lon: 77.80}},       // > 20 km
		{OrderID: "bad", RestaurantLocation: center, DeliveryLocation: models.Location{Lat: math.NaN(), Lon: 77.60}},  // unindexable
	}
}

func TestFromRelationsSkipsInvalidCoordinates(t *testing.T) {
	ix := FromRelations(relations())
	assert.Equal(t, 3, ix.Size())
}

func TestWithinRadius(t *testing.T) {
	rows := relations()
	ix := FromRelations(rows)

	refs := ix.WithinRadius(12.90, 77.60, 5.0)
	require.Len(t, refs, 2)

	got := map[string]bool{}
	for _, ref := range refs {
		got[rows[ref].OrderID] = true
	}
	assert.True(t, got["near"])
	assert.True(t, got["mid"])
	assert.False(t, got["far"])
}

func TestWithinRadiusTight(t *testing.T) {
	rows := relations()
	ix := FromRelations(rows)

	refs := ix.WithinRadius(12.90, 77.60, 1.0)
	require.Len(t, refs, 1)
	assert.Equal(t, "near", rows[refs[0]].OrderID)
}

func TestWithinRadiusNoMatches(t *testing.T) {
	ix := FromRelations(relations())
	assert.Empty(t, ix.WithinRadius(50.0, 10.0, 5.0))
}

// A longitude degree spans only 111·cos(lat) km, so a point a few km due
// east at high latitude sits further out in degrees than the same distance
// in kilometres suggests. The candidate box must widen accordingly or the
// point never reaches the exact-distance check.
func TestWithinRadiusHighLatitude(t *testing.T) {
	center := models.Location{Lat: 51.5074, Lon: -0.1278}
	lonOffset := 4.6 / (111.19 * math.Cos(center.Lat*math.Pi/180))
	east := models.Location{Lat: center.Lat, Lon: center.Lon + lonOffset}

	require.Less(t, pipeline.Distance(center.Lat, center.Lon, east.Lat, east.Lon), 5.0)

	rows := []models.DeliveryRelation{
		{OrderID: "east", RestaurantLocation: center, DeliveryLocation: east},
	}
	ix := FromRelations(rows)

	refs := ix.WithinRadius(center.Lat, center.Lon, 5.0)
	require.Len(t, refs, 1)
	assert.Equal(t, "east", rows[refs[0]].OrderID)
}

func TestWithinRadiusNearPole(t *testing.T) {
	center := models.Location{Lat: 89.9, Lon: 0}
	rows := []models.DeliveryRelation{
		{OrderID: "polar", RestaurantLocation: center, DeliveryLocation: models.Location{Lat: 89.9, Lon: 90}},
	}
	ix := FromRelations(rows)

	// At 89.9° the whole parallel is ~70 km around, so a point a quarter
	// of the way round is still inside a 20 km radius.
	refs := ix.WithinRadius(center.Lat, center.Lon, 20.0)
	require.Len(t, refs, 1)
	assert.Equal(t, 0, refs[0])
}
