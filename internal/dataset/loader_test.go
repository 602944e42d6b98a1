package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRestaurants(t *testing.T) {
	path := writeFile(t, "restaurants.csv",
		"id,restaurant_name,Latitude,Longitude,ZoneName\n"+
			"r1,Spice Route,12.93,77.62,Koramangala\n"+
			"r2,Dosa Corner,12.94,77.63,Koramangala\n")

	restaurants, err := LoadRestaurants(path)
	require.NoError(t, err)
	require.Len(t, restaurants, 2)

	assert.Equal(t, "r1", restaurants[0].ID)
	assert.Equal(t, "Spice Route", restaurants[0].Name)
	assert.Equal(t, "Koramangala", restaurants[0].Zone)
	assert.InDelta(t, 12.93, restaurants[0].Location.Lat, 1e-9)
	assert.InDelta(t, 77.62, restaurants[0].Location.Lon, 1e-9)
}

func TestLoadRestaurantsOriginalHeaders(t *testing.T) {
	path := writeFile(t, "restaurants.csv",
		"id,primaryrestautantname,lat,lon,zone\n"+
			"r1,Spice Route,12.93,77.62,Koramangala\n")

	restaurants, err := LoadRestaurants(path)
	require.NoError(t, err)
	require.Len(t, restaurants, 1)
	assert.Equal(t, "Spice Route", restaurants[0].Name)
	assert.Equal(t, "Koramangala", restaurants[0].Zone)
}

func TestLoadRestaurantsMissingIDColumn(t *testing.T) {
	path := writeFile(t, "restaurants.csv",
		"restaurant_name,Latitude,Longitude,ZoneName\n"+
			"Spice Route,12.93,77.62,Koramangala\n")

	_, err := LoadRestaurants(path)
	require.Error(t, err)
}

func TestLoadRestaurantsMalformedCoordinatesBecomeNaN(t *testing.T) {
	path := writeFile(t, "restaurants.csv",
		"id,restaurant_name,Latitude,Longitude,ZoneName\n"+
			"r1,Spice Route,not-a-number,77.62,Koramangala\n")

	restaurants, err := LoadRestaurants(path)
	require.NoError(t, err)
	require.Len(t, restaurants, 1)
	assert.True(t, math.IsNaN(restaurants[0].Location.Lat))
	assert.InDelta(t, 77.62, restaurants[0].Location.Lon, 1e-9)
}

func TestLoadRestaurantsDropsAllEmptyColumns(t *testing.T) {
	// The Latitude column is empty across every row and must be dropped,
	// letting the populated lat alias take over.
	path := writeFile(t, "restaurants.csv",
		"id,restaurant_name,Latitude,lat,Longitude,ZoneName\n"+
			"r1,Spice Route,,12.93,77.62,Koramangala\n"+
			"r2,Dosa Corner,,12.94,77.63,Koramangala\n")

	restaurants, err := LoadRestaurants(path)
	require.NoError(t, err)
	require.Len(t, restaurants, 2)
	assert.InDelta(t, 12.93, restaurants[0].Location.Lat, 1e-9)
	assert.InDelta(t, 12.94, restaurants[1].Location.Lat, 1e-9)
}

func TestLoadOrders(t *testing.T) {
	path := writeFile(t, "orders.csv",
		"OrderId,BranchId,DeliveryLat,DeliveryLong,order_date\n"+
			"o1,r1,12.935,77.625,2024-03-01 12:00:00\n"+
			"o2,r2,12.945,77.635,2024-03-02\n")

	orders, err := LoadOrders(path)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "o1", orders[0].ID)
	assert.Equal(t, "r1", orders[0].BranchID)
	assert.InDelta(t, 12.935, orders[0].Delivery.Lat, 1e-9)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), orders[0].PlacedAt)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), orders[1].PlacedAt)
}

func TestLoadOrdersMissingBranchColumn(t *testing.T) {
	path := writeFile(t, "orders.csv",
		"OrderId,DeliveryLat,DeliveryLong,order_date\n"+
			"o1,12.935,77.625,2024-03-01\n")

	_, err := LoadOrders(path)
	require.Error(t, err)
}

func TestLoadOrdersMalformedDateBecomesZeroTime(t *testing.T) {
	path := writeFile(t, "orders.csv",
		"OrderId,BranchId,DeliveryLat,DeliveryLong,order_date\n"+
			"o1,r1,12.935,77.625,soon\n")

	orders, err := LoadOrders(path)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].PlacedAt.IsZero())
}

func TestLoadOrdersBadRowDoesNotAbortOthers(t *testing.T) {
	path := writeFile(t, "orders.csv",
		"OrderId,BranchId,DeliveryLat,DeliveryLong,order_date\n"+
			"o1,r1,garbage,garbage,garbage\n"+
			"o2,r1,12.945,77.635,2024-03-02\n")

	orders, err := LoadOrders(path)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.True(t, math.IsNaN(orders[0].Delivery.Lat))
	assert.InDelta(t, 12.945, orders[1].Delivery.Lat, 1e-9)
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.csv", "")
	_, err := LoadRestaurants(path)
	require.Error(t, err)
}
