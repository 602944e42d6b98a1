package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chrisdamba/deliverymap/internal/dataset"
	"github.com/chrisdamba/deliverymap/internal/models"
	"github.com/chrisdamba/deliverymap/internal/pipeline"
	"github.com/chrisdamba/deliverymap/internal/repositories/postgres"
	"github.com/chrisdamba/deliverymap/internal/server"
)

var cfgFile string

var joinCache dataset.JoinCache

var rootCmd = &cobra.Command{
	Use:   "deliverymap",
	Short: "Serves restaurant-to-delivery relation analytics",
	Long: `deliverymap joins a restaurant reference table with an order table,
computes great-circle distances between each restaurant and its delivery
points, and serves daily order trends for dashboard frontends.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		rows, err := loadJoined(cfg)
		if err != nil {
			log.Fatalf("Failed to load data: %v", err)
		}

		srv := server.New(rows)
		log.Printf("Serving %d joined rows on %s", len(rows), cfg.ListenAddr)
		if err := srv.App().Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is examples/config.json)")

	rootCmd.Flags().String("restaurant_file", "restaurants_lat_long.csv", "Restaurant reference table CSV")
	rootCmd.Flags().String("order_file", "order_data.csv", "Order/delivery table CSV")
	rootCmd.Flags().String("listen_addr", ":8080", "HTTP listen address")
	rootCmd.Flags().String("source", "csv", "Data source: csv or postgres")
	rootCmd.Flags().String("postgres_dsn", "", "Postgres connection string when source=postgres")

	viper.BindPFlags(rootCmd.Flags())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadJoined returns the joined table from the configured source. The CSV
// path goes through the join cache, so repeated loads of unchanged files
// reuse the previous join.
func loadJoined(cfg *models.Config) ([]models.DeliveryRelation, error) {
	switch cfg.Source {
	case "postgres":
		ctx := context.Background()
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		defer pool.Close()

		restaurants, err := postgres.NewRestaurantRepository(pool).GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load restaurants: %w", err)
		}
		orders, err := postgres.NewOrderRepository(pool).GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load orders: %w", err)
		}
		return pipeline.Join(restaurants, orders), nil
	default:
		return joinCache.Load(cfg.RestaurantFile, cfg.OrderFile)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
