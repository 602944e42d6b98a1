// Package dataset loads the restaurant and order tables from CSV files and
// memoizes the joined result across requests. Data-quality problems degrade
// to NaN coordinates or zero timestamps instead of failing the load; only a
// missing join-key column is treated as a contract violation.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/chrisdamba/deliverymap/internal/models"
)

// Header aliases accepted for each logical column. The first alias found in
// the file wins. These cover the original export formats of both tables.
var (
	restaurantIDAliases   = []string{"id", "Id", "ID"}
	restaurantNameAliases = []string{"primaryrestautantname", "restaurant_name", "Name", "name"}
	zoneAliases           = []string{"ZoneName", "zone_name", "zone"}
	latAliases            = []string{"Latitude", "lat", "latitude"}
	lonAliases            = []string{"Longitude", "lon", "lng", "longitude"}

	orderIDAliases     = []string{"OrderId", "order_id", "id"}
	branchIDAliases    = []string{"BranchId", "branch_id"}
	deliveryLatAliases = []string{"DeliveryLat", "delivery_lat", "Latitude", "lat"}
	deliveryLonAliases = []string{"DeliveryLong", "delivery_long", "Longitude", "lon"}
	orderDateAliases   = []string{"order_date", "OrderDate", "date"}
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// table is a header-indexed raw CSV table.
type table struct {
	header []string
	index  map[string]int
	rows   [][]string
}

func readTable(path string) (*table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s is empty", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	t := &table{header: header}
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		t.rows = append(t.rows, fields)
	}

	t.dropEmptyColumns()
	return t, nil
}

// dropEmptyColumns removes columns that are empty across every row, the same
// cleaning applied to both input tables before the join.
func (t *table) dropEmptyColumns() {
	keep := make([]bool, len(t.header))
	for _, row := range t.rows {
		for i := range t.header {
			if i < len(row) && row[i] != "" {
				keep[i] = true
			}
		}
	}

	var header []string
	var mapping []int
	for i, name := range t.header {
		if keep[i] {
			header = append(header, name)
			mapping = append(mapping, i)
		}
	}

	rows := make([][]string, len(t.rows))
	for r, row := range t.rows {
		fields := make([]string, len(mapping))
		for c, src := range mapping {
			if src < len(row) {
				fields[c] = row[src]
			}
		}
		rows[r] = fields
	}

	t.header = header
	t.rows = rows
	t.index = make(map[string]int, len(header))
	for i, name := range header {
		t.index[name] = i
	}
}

// column returns the index of the first alias present in the header.
func (t *table) column(aliases []string) (int, bool) {
	for _, name := range aliases {
		if i, ok := t.index[name]; ok {
			return i, true
		}
	}
	return 0, false
}

func (t *table) value(row []string, idx int, ok bool) string {
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// LoadRestaurants reads the restaurant reference table. The id column is the
// join key and must be present; every other column degrades gracefully when
// absent or malformed.
func LoadRestaurants(path string) ([]models.Restaurant, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}

	idIdx, ok := t.column(restaurantIDAliases)
	if !ok {
		return nil, fmt.Errorf("restaurant table %s has no id column", path)
	}
	nameIdx, hasName := t.column(restaurantNameAliases)
	zoneIdx, hasZone := t.column(zoneAliases)
	latIdx, hasLat := t.column(latAliases)
	lonIdx, hasLon := t.column(lonAliases)

	restaurants := make([]models.Restaurant, 0, len(t.rows))
	for _, row := range t.rows {
		id := t.value(row, idIdx, true)
		if id == "" {
			continue
		}
		restaurants = append(restaurants, models.Restaurant{
			ID:   id,
			Name: t.value(row, nameIdx, hasName),
			Zone: t.value(row, zoneIdx, hasZone),
			Location: models.Location{
				Lat: parseFloat(t.value(row, latIdx, hasLat)),
				Lon: parseFloat(t.value(row, lonIdx, hasLon)),
			},
		})
	}
	return restaurants, nil
}

// LoadOrders reads the order/delivery table. BranchId is the join key and
// must be present; coordinates degrade to NaN and dates to the zero time.
func LoadOrders(path string) ([]models.Order, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}

	branchIdx, ok := t.column(branchIDAliases)
	if !ok {
		return nil, fmt.Errorf("order table %s has no BranchId column", path)
	}
	idIdx, hasID := t.column(orderIDAliases)
	latIdx, hasLat := t.column(deliveryLatAliases)
	lonIdx, hasLon := t.column(deliveryLonAliases)
	dateIdx, hasDate := t.column(orderDateAliases)

	orders := make([]models.Order, 0, len(t.rows))
	for _, row := range t.rows {
		orders = append(orders, models.Order{
			ID:       t.value(row, idIdx, hasID),
			BranchID: t.value(row, branchIdx, true),
			Delivery: models.Location{
				Lat: parseFloat(t.value(row, latIdx, hasLat)),
				Lon: parseFloat(t.value(row, lonIdx, hasLon)),
			},
			PlacedAt: parseDate(t.value(row, dateIdx, hasDate)),
		})
	}
	return orders, nil
}

// parseFloat turns a malformed or missing value into NaN so a single bad row
// propagates instead of aborting the whole computation.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseDate tries the known timestamp layouts and returns the zero time when
// none match, the NaT analogue for this pipeline.
func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
