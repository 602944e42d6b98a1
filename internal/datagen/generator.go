// Package datagen produces sample restaurant and order CSV files shaped like
// the real exports, for local development and demos.
package datagen

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
	"github.com/schollz/progressbar/v3"

	"github.com/chrisdamba/deliverymap/internal/models"
)

type Generator struct {
	cfg   *models.Config
	fake  faker.Faker
	rng   *rand.Rand
	zones []string
}

func New(cfg *models.Config) *Generator {
	seed := int64(cfg.Seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Generator{
		cfg:  cfg,
		fake: faker.NewWithSeed(rand.NewSource(seed)),
		rng:  rand.New(rand.NewSource(seed)),
	}
	g.zones = g.makeZones(cfg.ZoneCount)
	return g
}

func (g *Generator) makeZones(n int) []string {
	if n <= 0 {
		n = 5
	}
	seen := make(map[string]struct{}, n)
	zones := make([]string, 0, n)
	for len(zones) < n {
		zone := g.fake.Address().City()
		if _, ok := seen[zone]; ok {
			continue
		}
		seen[zone] = struct{}{}
		zones = append(zones, zone)
	}
	return zones
}

// Restaurants scatters n restaurants around the configured city centre.
func (g *Generator) Restaurants(n int) []models.Restaurant {
	restaurants := make([]models.Restaurant, n)
	for i := range restaurants {
		restaurants[i] = models.Restaurant{
			ID:       cuid.New(),
			Name:     g.fake.Company().Name(),
			Zone:     g.zones[g.rng.Intn(len(g.zones))],
			Location: g.scatter(models.Location{Lat: g.cfg.CityLat, Lon: g.cfg.CityLon}, g.cfg.UrbanRadius),
		}
	}
	return restaurants
}

// Orders spreads n orders over the configured date range, each with a
// delivery point near its restaurant.
func (g *Generator) Orders(restaurants []models.Restaurant, n int) []models.Order {
	if len(restaurants) == 0 || n <= 0 {
		return nil
	}

	window := g.cfg.EndDate.Sub(g.cfg.StartDate)
	if window <= 0 {
		window = 30 * 24 * time.Hour
	}

	orders := make([]models.Order, n)
	for i := range orders {
		restaurant := restaurants[g.rng.Intn(len(restaurants))]
		orders[i] = models.Order{
			ID:       cuid.New(),
			BranchID: restaurant.ID,
			Delivery: g.scatter(restaurant.Location, g.cfg.DeliveryRadius),
			PlacedAt: g.cfg.StartDate.Add(time.Duration(g.rng.Int63n(int64(window)))),
		}
	}
	return orders
}

// scatter picks a point within radiusKm of the centre, using the degrees-per
// -kilometre approximation that narrows longitude with latitude.
func (g *Generator) scatter(center models.Location, radiusKm float64) models.Location {
	if radiusKm <= 0 {
		radiusKm = 3.0
	}
	latRange := radiusKm / 111.0
	lonRange := latRange / math.Cos(center.Lat*math.Pi/180.0)

	return models.Location{
		Lat: center.Lat + (g.rng.Float64()*2-1)*latRange,
		Lon: center.Lon + (g.rng.Float64()*2-1)*lonRange,
	}
}

// WriteRestaurantsCSV writes the restaurant reference table in the column
// layout the loader expects.
func WriteRestaurantsCSV(path string, restaurants []models.Restaurant) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"id", "restaurant_name", "Latitude", "Longitude", "ZoneName"}); err != nil {
		return err
	}
	for _, r := range restaurants {
		record := []string{
			r.ID,
			r.Name,
			formatCoord(r.Location.Lat),
			formatCoord(r.Location.Lon),
			r.Zone,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteOrdersCSV writes the order table. Order volumes run large, so a
// progress bar tracks the write.
func WriteOrdersCSV(path string, orders []models.Order) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"OrderId", "BranchId", "DeliveryLat", "DeliveryLong", "order_date"}); err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(orders)), "writing orders")
	for _, o := range orders {
		record := []string{
			o.ID,
			o.BranchID,
			formatCoord(o.Delivery.Lat),
			formatCoord(o.Delivery.Lon),
			o.PlacedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(record); err != nil {
			return err
		}
		_ = bar.Add(1)
	}
	w.Flush()
	return w.Error()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
