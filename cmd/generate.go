package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/chrisdamba/deliverymap/internal/datagen"
	"github.com/chrisdamba/deliverymap/internal/models"
	"github.com/chrisdamba/deliverymap/internal/repositories/postgres"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates sample restaurant and order CSV files",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		restaurantCount, _ := cmd.Flags().GetInt("restaurants")
		orderCount, _ := cmd.Flags().GetInt("orders")
		seedPostgres, _ := cmd.Flags().GetBool("seed-postgres")
		if restaurantCount <= 0 {
			restaurantCount = cfg.InitialRestaurants
		}
		if orderCount <= 0 {
			orderCount = cfg.InitialOrders
		}

		g := datagen.New(cfg)
		restaurants := g.Restaurants(restaurantCount)
		orders := g.Orders(restaurants, orderCount)

		if err := datagen.WriteRestaurantsCSV(cfg.RestaurantFile, restaurants); err != nil {
			log.Fatalf("Failed to write restaurants: %v", err)
		}
		if err := datagen.WriteOrdersCSV(cfg.OrderFile, orders); err != nil {
			log.Fatalf("Failed to write orders: %v", err)
		}
		log.Printf("Wrote %d restaurants to %s and %d orders to %s",
			len(restaurants), cfg.RestaurantFile, len(orders), cfg.OrderFile)

		if seedPostgres {
			if err := seedDatabase(cfg, restaurants, orders); err != nil {
				log.Fatalf("Failed to seed postgres: %v", err)
			}
			log.Printf("Seeded postgres at %s", cfg.PostgresDSN)
		}
	},
}

func seedDatabase(cfg *models.Config, restaurants []models.Restaurant, orders []models.Order) error {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()

	restaurantRepo := postgres.NewRestaurantRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)

	if err := orderRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}
	if err := restaurantRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear restaurants: %w", err)
	}
	if err := restaurantRepo.BulkCreate(ctx, restaurants); err != nil {
		return fmt.Errorf("failed to insert restaurants: %w", err)
	}
	if err := orderRepo.BulkCreate(ctx, orders); err != nil {
		return fmt.Errorf("failed to insert orders: %w", err)
	}
	return nil
}

func init() {
	generateCmd.Flags().Int("restaurants", 100, "Number of restaurants to generate")
	generateCmd.Flags().Int("orders", 10000, "Number of orders to generate")
	generateCmd.Flags().Bool("seed-postgres", false, "Also bulk-insert the generated data into postgres")

	rootCmd.AddCommand(generateCmd)
}
