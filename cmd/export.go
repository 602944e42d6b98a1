package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/chrisdamba/deliverymap/internal/export"
	"github.com/chrisdamba/deliverymap/internal/models"
	"github.com/chrisdamba/deliverymap/internal/pipeline"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Computes the relation for a selection and writes it to the configured output",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if format, _ := cmd.Flags().GetString("format"); format != "" {
			cfg.OutputFormat = format
		}
		if path, _ := cmd.Flags().GetString("output-path"); path != "" {
			cfg.OutputPath = path
		}

		rows, err := loadJoined(cfg)
		if err != nil {
			log.Fatalf("Failed to load data: %v", err)
		}

		zone, _ := cmd.Flags().GetString("zone")
		restaurant, _ := cmd.Flags().GetString("restaurant")
		sel := pipeline.Selection{Zone: zone, Restaurant: restaurant}

		result := pipeline.RunJoined(rows, sel)
		if len(result.Rows) == 0 {
			log.Printf("No data available for the selected filters")
		}

		sink, err := export.ForConfig(cfg)
		if err != nil {
			log.Fatalf("Failed to create output: %v", err)
		}

		if err := export.Publish(sink, result); err != nil {
			export.CloseQuietly(sink)
			log.Fatalf("Export failed: %v", err)
		}
		if err := sink.Close(); err != nil {
			log.Fatalf("Failed to finalize output: %v", err)
		}
		log.Printf("Exported %d rows and %d daily points", len(result.Rows), len(result.Summary.Days))
	},
}

func init() {
	exportCmd.Flags().String("zone", "", "Zone name to filter by")
	exportCmd.Flags().String("restaurant", "", "Restaurant name to filter by (within the zone)")
	exportCmd.Flags().String("format", "", "Output format: console, csv, json or parquet")
	exportCmd.Flags().String("output-path", "", "Base directory (or bucket prefix) for file outputs")

	rootCmd.AddCommand(exportCmd)
}
