// Package server exposes the relation pipeline over a small HTTP API: zone
// and restaurant listings for the selection dropdowns, and the computed
// relation (annotated rows plus daily summary) for a selection. The joined
// table is immutable after startup; every request recomputes the
// selection-dependent stages from it.
package server

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/chrisdamba/deliverymap/internal/export"
	"github.com/chrisdamba/deliverymap/internal/geoindex"
	"github.com/chrisdamba/deliverymap/internal/models"
	"github.com/chrisdamba/deliverymap/internal/pipeline"
)

type Server struct {
	rows []models.DeliveryRelation
}

func New(rows []models.DeliveryRelation) *Server {
	return &Server{rows: rows}
}

// App builds the fiber application with all routes registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "deliverymap API",
	})
	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/healthz", s.handleHealth)

	api := app.Group("/api")
	api.Get("/zones", s.handleZones)
	api.Get("/zones/:zone/restaurants", s.handleRestaurants)
	api.Get("/relation", s.handleRelation)

	return app
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "rows": len(s.rows)})
}

func (s *Server) handleZones(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"zones": pipeline.Zones(s.rows)})
}

func (s *Server) handleRestaurants(c *fiber.Ctx) error {
	zone, err := url.QueryUnescape(c.Params("zone"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid zone"})
	}
	return c.JSON(fiber.Map{
		"zone":        zone,
		"restaurants": pipeline.RestaurantsInZone(s.rows, zone),
	})
}

type relationResponse struct {
	Rows    []export.RelationRecord `json:"rows"`
	Summary summaryResponse         `json:"summary"`
	Message string                  `json:"message,omitempty"`
}

type summaryResponse struct {
	Days           []export.DailyRecord `json:"days"`
	AvgDailyOrders float64              `json:"avg_daily_orders"`
}

func (s *Server) handleRelation(c *fiber.Ctx) error {
	sel := pipeline.Selection{
		Zone:       c.Query("zone"),
		Restaurant: c.Query("restaurant"),
	}

	result := pipeline.RunJoined(s.rows, sel)

	if maxKm := c.QueryFloat("max_km"); maxKm > 0 {
		rows := narrowByRadius(result.Rows, maxKm)
		result = pipeline.Result{Rows: rows, Summary: pipeline.AggregateDaily(rows)}
	}

	daily, summary := export.Daily(result.Summary)
	resp := relationResponse{
		Rows: export.Relations(result.Rows),
		Summary: summaryResponse{
			Days:           daily,
			AvgDailyOrders: summary.AvgDailyOrders,
		},
	}
	if len(result.Rows) == 0 {
		resp.Message = "No data available for the selected filters."
	}
	return c.JSON(resp)
}

// narrowByRadius keeps rows whose delivery point lies within maxKm of its
// own restaurant, using the spatial index to avoid a full scan per
// restaurant when a zone spans many of them.
func narrowByRadius(rows []models.DeliveryRelation, maxKm float64) []models.DeliveryRelation {
	ix := geoindex.FromRelations(rows)
	keep := make([]bool, len(rows))
	seen := make(map[models.Location]struct{})

	for _, row := range rows {
		center := row.RestaurantLocation
		if !center.Valid() {
			continue
		}
		if _, ok := seen[center]; ok {
			continue
		}
		seen[center] = struct{}{}

		for _, ref := range ix.WithinRadius(center.Lat, center.Lon, maxKm) {
			if rows[ref].RestaurantLocation == center {
				keep[ref] = true
			}
		}
	}

	out := make([]models.DeliveryRelation, 0, len(rows))
	for i, row := range rows {
		if keep[i] {
			out = append(out, row)
		}
	}
	return out
}
