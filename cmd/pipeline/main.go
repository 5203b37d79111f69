package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/stocklens/backend-go/internal/config"
	"github.com/stocklens/backend-go/internal/domain"
	"github.com/stocklens/backend-go/internal/engine"
	"github.com/stocklens/backend-go/internal/loader"
	"github.com/stocklens/backend-go/internal/validate"
	"github.com/stocklens/backend-go/pkg/logger"
)

func newLogLevelFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level (debug, info, warn, error)",
		EnvVars: []string{"LOG_LEVEL"},
	}
}

func setupLogging(c *cli.Context) error {
	cfg := config.Load()
	level := cfg.App.LogLevel
	if c.IsSet("log-level") {
		level = c.String("log-level")
	}
	logger.SetLevel(level)
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "pipeline",
		Usage: "Normalize inventory and sales exports and derive supply chain metrics",
		Flags: []cli.Flag{
			newLogLevelFlag(),
		},
		Commands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Validate a CSV or XLSX export without processing it",
				Flags: []cli.Flag{
					newLogLevelFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the CSV or XLSX file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "kind",
						Usage: "File kind: inventory or sales",
						Value: "inventory",
					},
				},
				Before: setupLogging,
				Action: runValidate,
			},
			{
				Name:  "run",
				Usage: "Run the full pipeline over inventory and sales exports",
				Flags: []cli.Flag{
					newLogLevelFlag(),
					&cli.StringFlag{
						Name:     "inventory",
						Usage:    "Path to the inventory CSV or XLSX file",
						Required: true,
						EnvVars:  []string{"INVENTORY_FILE"},
					},
					&cli.StringFlag{
						Name:    "sales",
						Usage:   "Path to the sales CSV or XLSX file",
						EnvVars: []string{"SALES_FILE"},
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: json, csv or excel",
						Value: "json",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output file path (default: stdout)",
					},
				},
				Before: setupLogging,
				Action: runPipeline,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runValidate(c *cli.Context) error {
	rows, err := loader.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to load file: %w", err)
	}

	opts := config.Load().ValidationOptions()
	var result domain.ValidationResult
	switch kind := c.String("kind"); kind {
	case "inventory":
		result = validate.InventoryCSV(rows, opts)
	case "sales":
		result = validate.SalesCSV(rows, opts)
	default:
		return fmt.Errorf("unknown file kind %q (want inventory or sales)", kind)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if !result.IsValid {
		return cli.Exit("validation failed", 1)
	}
	return nil
}

func runPipeline(c *cli.Context) error {
	cfg := config.Load()

	paths := []string{c.String("inventory")}
	if sales := c.String("sales"); sales != "" {
		paths = append(paths, sales)
	}
	files, err := loader.LoadFiles(context.Background(), paths)
	if err != nil {
		return fmt.Errorf("failed to load input files: %w", err)
	}

	src := engine.DataSource{ID: "cli", Inventory: files[0]}
	if len(files) > 1 {
		src.Sales = files[1]
	}

	eng := engine.Default(
		engine.WithValidationOptions(cfg.ValidationOptions()),
		engine.WithProductConfig(cfg.ProductOptions()),
	)
	eng.RegisterDataSource(src)

	data, err := eng.ProcessData(src.ID)
	if err != nil {
		return err
	}
	logger.Log.Info().
		Int("inventory_records", len(data.Inventory)).
		Int("sales_records", len(data.Sales)).
		Int("products", len(data.Products)).
		Msg("processed data source")

	results := eng.CalculateMetrics(data, defaultCalculations(eng))
	alerts := eng.GenerateAlerts(data, defaultAlerts(eng))

	out, err := eng.ExportResults(engine.ExportPayload{Metrics: results, Alerts: alerts}, c.String("format"))
	if err != nil {
		return err
	}

	if path := c.String("out"); path != "" {
		if err := os.WriteFile(path, []byte(out), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Log.Info().Str("file", path).Msg("wrote results")
		return nil
	}
	fmt.Print(out)
	return nil
}

// defaultCalculations enables every registered calculator with its defaults.
func defaultCalculations(eng *engine.Engine) []domain.CalculationConfig {
	ids := eng.CalculatorIDs()
	configs := make([]domain.CalculationConfig, 0, len(ids))
	for _, id := range ids {
		configs = append(configs, domain.CalculationConfig{ID: id, Type: id})
	}
	return configs
}

// defaultAlerts enables every registered alerter with its default thresholds.
func defaultAlerts(eng *engine.Engine) []domain.AlertConfig {
	ids := eng.AlerterIDs()
	configs := make([]domain.AlertConfig, 0, len(ids))
	for _, id := range ids {
		configs = append(configs, domain.AlertConfig{ID: id, Type: id})
	}
	return configs
}
