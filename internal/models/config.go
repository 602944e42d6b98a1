package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type Config struct {
	// Data sources
	RestaurantFile string `mapstructure:"restaurant_file"`
	OrderFile      string `mapstructure:"order_file"`
	Source         string `mapstructure:"source"` // "csv" or "postgres"
	PostgresDSN    string `mapstructure:"postgres_dsn"`

	// HTTP API
	ListenAddr string `mapstructure:"listen_addr"`

	// Export
	OutputFormat      string             `mapstructure:"output_format"` // console, csv, json, parquet
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	OutputDestination string             `mapstructure:"output_destination"` // "local" or "s3"
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`

	KafkaEnabled     bool   `mapstructure:"kafka_enabled"`
	KafkaBrokerList  string `mapstructure:"kafka_broker_list"`
	SessionTimeoutMs int    `mapstructure:"session_timeout_ms"`

	// Sample data generation
	Seed               int       `mapstructure:"seed"`
	CityName           string    `mapstructure:"city_name"`
	CityLat            float64   `mapstructure:"city_latitude"`
	CityLon            float64   `mapstructure:"city_longitude"`
	UrbanRadius        float64   `mapstructure:"urban_radius"`    // km, restaurant spread around the city centre
	DeliveryRadius     float64   `mapstructure:"delivery_radius"` // km, delivery spread around a restaurant
	ZoneCount          int       `mapstructure:"zone_count"`
	InitialRestaurants int       `mapstructure:"initial_restaurants"`
	InitialOrders      int       `mapstructure:"initial_orders"`
	StartDate          time.Time `mapstructure:"start_date"`
	EndDate            time.Time `mapstructure:"end_date"`
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Default config location
		viper.AddConfigPath("examples")
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv() // Read in environment variables that match

	viper.SetDefault("source", "csv")
	viper.SetDefault("listen_addr", ":8080")
	viper.SetDefault("output_format", "console")
	viper.SetDefault("output_destination", "local")
	viper.SetDefault("start_date", time.Now().AddDate(0, -1, 0).Format(time.RFC3339))
	viper.SetDefault("end_date", time.Now().Format(time.RFC3339))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}
