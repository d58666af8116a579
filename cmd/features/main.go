package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rxtech-lab/argo-features/internal/engine"
	enginev1 "github.com/rxtech-lab/argo-features/internal/engine/engine_v1"
	"github.com/rxtech-lab/argo-features/internal/logger"
	"github.com/rxtech-lab/argo-features/internal/pipeline"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/internal/version"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// loadConfig reads the YAML config when given and applies flag overrides on top of it.
func loadConfig(cmd *cli.Command) (pipeline.PipelineConfig, error) {
	config := pipeline.EmptyConfig()

	if path := cmd.String("config"); path != "" {
		loaded, err := pipeline.LoadConfig(path)
		if err != nil {
			return pipeline.PipelineConfig{}, err
		}

		config = loaded
	}

	if cmd.IsSet("workers") {
		config.Workers = int(cmd.Int("workers"))
	}

	if cmd.IsSet("spread-threshold") {
		config.SpreadThreshold = float64(cmd.Float("spread-threshold"))
	}

	if cmd.IsSet("strength-threshold") {
		config.StrengthThreshold = float64(cmd.Float("strength-threshold"))
	}

	if err := config.Validate(); err != nil {
		return pipeline.PipelineConfig{}, err
	}

	return config, nil
}

// runAction computes the feature table of the observation files and prints a per-instrument summary.
func runAction(ctx context.Context, cmd *cli.Command) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLoggerWithLevel(cmd.String("log-level"))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	featureEngine := enginev1.NewFeatureEngineV1WithLogger(log)
	if err := featureEngine.InitializeWithConfig(config); err != nil {
		return fmt.Errorf("failed to initialize feature engine: %w", err)
	}
	defer featureEngine.Close()

	if err := featureEngine.SetDataPath(cmd.String("data")); err != nil {
		return err
	}

	if err := featureEngine.SetOutputPath(cmd.String("output")); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar

	onRunStart := engine.OnRunStartCallback(func(runID string, totalDataFiles int) error {
		fmt.Println(TitleStyle.Render(fmt.Sprintf("Feature run %s", runID)))
		fmt.Println(HelpStyle.Render(fmt.Sprintf("Reading %d data file(s)", totalDataFiles)))

		return nil
	})
	onDataLoaded := engine.OnDataLoadedCallback(func(dataFileIndex int, dataFilePath string, totalDataPoints int) error {
		fmt.Println(HelpStyle.Render(fmt.Sprintf("  [%d] %s: %d rows", dataFileIndex+1, dataFilePath, totalDataPoints)))

		return nil
	})
	onPartitionDone := engine.OnPartitionDoneCallback(func(instrumentID string, current int, total int) error {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Computing features"),
				progressbar.OptionShowCount(),
			)
		}

		bar.Describe(fmt.Sprintf("Computed %s", instrumentID))

		return bar.Add(1)
	})
	onRunEnd := engine.OnRunEndCallback(func(err error) {
		if bar != nil {
			_ = bar.Finish()

			fmt.Println()
		}

		if err != nil {
			fmt.Println(ErrorStyle.Render(fmt.Sprintf("Feature run failed: %v", err)))
		}
	})

	result, err := featureEngine.Run(ctx, engine.LifecycleCallbacks{
		OnRunStart:      &onRunStart,
		OnRunEnd:        &onRunEnd,
		OnDataLoaded:    &onDataLoaded,
		OnPartitionDone: &onPartitionDone,
	})
	if err != nil {
		return err
	}

	fmt.Println(renderSummary(result.Stats))
	fmt.Println(HelpStyle.Render(fmt.Sprintf("Wrote %d rows to %s (summary: %s)", result.Rows, result.OutputPath, result.StatsPath)))

	return nil
}

// summaryAction re-renders the per-instrument summary of a finished run from its stats file.
func summaryAction(_ context.Context, cmd *cli.Command) error {
	stats, err := types.ReadFeatureStats(cmd.String("stats"))
	if err != nil {
		return err
	}

	fmt.Println(renderSummary(stats))

	return nil
}

// schemaAction prints the JSON schema of the pipeline config.
func schemaAction(_ context.Context, _ *cli.Command) error {
	config := pipeline.EmptyConfig()

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schema)

	return nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "features",
		Usage:   "Compute ETF NAV-dislocation features and trading signals",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "log-level",
				Usage:    "Log level (debug, info, warn, error)",
				Value:    "warn",
				Required: false,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Compute the feature table of observation files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Observation files, parquet or csv. Accepts a glob (e.g., `data/*.parquet`)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to the pipeline config YAML. Defaults are used when omitted",
						Required: false,
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Feature file to write (.parquet or .csv)",
						Value:    "features.parquet",
						Required: false,
					},
					&cli.IntFlag{
						Name:     "workers",
						Aliases:  []string{"w"},
						Usage:    "Instruments computed concurrently",
						Value:    1,
						Required: false,
					},
					&cli.FloatFlag{
						Name:     "spread-threshold",
						Usage:    "Spread percentage beyond which a Buy or Sell signal is emitted",
						Value:    0.5,
						Required: false,
					},
					&cli.FloatFlag{
						Name:     "strength-threshold",
						Usage:    "Divisor turning the absolute spread percentage into signal strength",
						Value:    0.2,
						Required: false,
					},
				},
				Action: runAction,
			},
			{
				Name:  "summary",
				Usage: "Print the per-instrument summary of a finished run",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "stats",
						Aliases:  []string{"s"},
						Usage:    "Stats file written next to the feature file (e.g., `features.stats.yaml`)",
						Required: true,
					},
				},
				Action: summaryAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the pipeline config",
				Action: schemaAction,
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newApp().Run(ctx, os.Args)

	stop()

	if err != nil {
		log.Fatal(err)
	}
}
