package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sartorproj/goforecast/engine"
	"github.com/sartorproj/goforecast/forecast"
	"github.com/sartorproj/goforecast/internal/config"
	"github.com/sartorproj/goforecast/internal/store/postgres"
	"github.com/sartorproj/goforecast/internal/store/sqlite"
	"github.com/sartorproj/goforecast/timeseries"
)

// run sets up the app, calls fn and prints its result.
func run(cmd *cobra.Command, fn func(context.Context, *app) (any, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.shutdown()

	res, err := fn(ctx, a)
	if err != nil {
		return err
	}
	return printJSON(res)
}

func revenueCmd() *cobra.Command {
	var scenarios bool
	cmd := &cobra.Command{
		Use:   "revenue",
		Short: "Forecast daily revenue with the automatically selected model",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) (any, error) {
				return a.eng.Revenue(ctx, shop, horizon, engine.RevenueOptions{Scenarios: scenarios})
			})
		},
	}
	cmd.Flags().BoolVar(&scenarios, "scenarios", false, "Add optimistic and pessimistic scenarios")
	return cmd
}

func customersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "customers",
		Short: "Forecast daily new customers with the ensemble",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) (any, error) {
				return a.eng.Customers(ctx, shop, horizon)
			})
		},
	}
}

func inventoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inventory",
		Short: "Forecast unit demand and reorder points per product",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) (any, error) {
				return a.eng.Inventory(ctx, shop, horizon)
			})
		},
	}
}

func batchCmd() *cobra.Command {
	var kinds []string
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run several forecasts concurrently and report failures per forecast",
		Long: `Runs the requested forecasts with bounded concurrency. A failing forecast
is reported under "errors" without affecting the others.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) (any, error) {
				return a.eng.Batch(ctx, shop, kinds, horizon), nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&kinds, "kinds", engine.BatchKinds, "Forecasts to run")
	return cmd
}

type modelResponse struct {
	Model      forecast.Kind       `json:"model"`
	Forecast   []float64           `json:"forecast"`
	Intervals  []forecast.Interval `json:"intervals"`
	Parameters map[string]float64  `json:"parameters"`
	DataPoints int                 `json:"data_points"`
}

func modelCmd() *cobra.Command {
	var (
		kind  string
		input string
	)
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Fit one model to a CSV series and print its raw forecast",
		Long: `Fits a single model (ses, des, holt_winters, arima, sarima or ensemble)
to a date,value CSV file. Nothing is stored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := forecast.ParseKind(kind)
			if err != nil {
				return forecast.InvalidInput("model", "%v", err)
			}
			if input == "" {
				return forecast.InvalidInput("model", "--input is required")
			}
			series, err := timeseries.LoadCSV(input, timeseries.DefaultCSVOptions())
			if err != nil {
				return fmt.Errorf("load %s: %w", input, err)
			}
			// The series is passed directly, so no history source is read.
			source = sourceCSV
			revenueCSV, customersCSV, productsCSV = "", "", ""
			return run(cmd, func(ctx context.Context, a *app) (any, error) {
				out, err := a.eng.Forecast(k, series.Values, horizon)
				if err != nil {
					return nil, err
				}
				return modelResponse{
					Model:      out.Kind,
					Forecast:   out.Forecasts,
					Intervals:  out.Intervals,
					Parameters: out.Params,
					DataPoints: series.Len(),
				}, nil
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", forecast.KindEnsemble.String(), "Model kind")
	cmd.Flags().StringVarP(&input, "input", "i", "", "CSV file with date and value columns")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the forecast tables in the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			switch source {
			case sourceSQLite:
				// Open applies the schema.
				store, err := sqlite.Open(cfg.Database.SQLitePath)
				if err != nil {
					return err
				}
				defer store.Close()
				fmt.Printf("SQLite schema ready at %s\n", cfg.Database.SQLitePath)
			case sourcePostgres:
				store, err := postgres.New(ctx, cfg.Database.URL)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.Migrate(ctx); err != nil {
					return err
				}
				fmt.Println("Postgres schema ready")
			default:
				return forecast.InvalidInput("migrate", "--source must be sqlite or postgres, got %q", source)
			}
			return nil
		},
	}
}
