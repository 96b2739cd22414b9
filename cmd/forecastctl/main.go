package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sartorproj/goforecast/forecast"
)

var (
	// Global flags
	configFile  string
	shop        string
	horizon     int
	source      string
	metricsFile string

	// CSV source
	revenueCSV   string
	customersCSV string
	productsCSV  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "forecastctl",
		Short: "Revenue, customer and inventory forecasts for a shop",
		Long: `Fits exponential smoothing, ARIMA and SARIMA models to a shop's daily
history and prints the forecast as JSON.

History comes from CSV files (--source csv), a SQLite file or Postgres.
Database sources also store the generated forecasts.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&shop, "shop", "s", "", "Shop domain")
	rootCmd.PersistentFlags().IntVarP(&horizon, "horizon", "n", 30, "Days to forecast")
	rootCmd.PersistentFlags().StringVar(&source, "source", sourceSQLite, "History source: csv, sqlite or postgres")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
	rootCmd.PersistentFlags().StringVar(&revenueCSV, "revenue-csv", "", "Daily revenue CSV (date,value) for --source csv")
	rootCmd.PersistentFlags().StringVar(&customersCSV, "customers-csv", "", "Daily new customers CSV (date,value) for --source csv")
	rootCmd.PersistentFlags().StringVar(&productsCSV, "products-csv", "", "Daily units CSV (date,product_id,value) for --source csv")

	rootCmd.AddCommand(revenueCmd())
	rootCmd.AddCommand(customersCmd())
	rootCmd.AddCommand(inventoryCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(modelCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// printError writes the JSON error object to stderr.
func printError(err error) {
	b, mErr := json.Marshal(forecast.Payload(err))
	if mErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(os.Stderr, string(b))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
