package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-features/internal/datasource"
	"github.com/rxtech-lab/argo-features/internal/engine"
	"github.com/rxtech-lab/argo-features/internal/logger"
	"github.com/rxtech-lab/argo-features/internal/pipeline"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/internal/writer"
	"github.com/rxtech-lab/argo-features/pkg/errors"
	"go.uber.org/zap"
)

type FeatureEngineV1 struct {
	config      pipeline.PipelineConfig
	initialized bool
	dataPaths   []string
	outputPath  string
	log         *logger.Logger
	datasource  datasource.DataSource
	writer      writer.FeatureWriter
}

func NewFeatureEngineV1() engine.Engine {
	return NewFeatureEngineV1WithLogger(nil)
}

// NewFeatureEngineV1WithLogger creates an engine logging to log.
// A nil logger is replaced by a production logger on Initialize.
func NewFeatureEngineV1WithLogger(log *logger.Logger) engine.Engine {
	return &FeatureEngineV1{
		config:      pipeline.EmptyConfig(),
		initialized: false,
		dataPaths:   nil,
		outputPath:  "",
		log:         log,
		datasource:  nil,
		writer:      nil,
	}
}

// Initialize implements engine.Engine.
func (e *FeatureEngineV1) Initialize(config string) error {
	// parse the config
	parsed, err := pipeline.ParseConfig([]byte(config))
	if err != nil {
		return err
	}

	return e.InitializeWithConfig(parsed)
}

// InitializeWithConfig implements engine.Engine.
func (e *FeatureEngineV1) InitializeWithConfig(config pipeline.PipelineConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	e.config = config

	// initialize the logger
	if e.log == nil {
		var loggerError error

		e.log, loggerError = logger.NewLogger()
		if loggerError != nil {
			return loggerError
		}
	}

	// initialize the data source
	if e.datasource == nil {
		ds, err := datasource.NewDataSource(":memory:", e.log)
		if err != nil {
			return fmt.Errorf("failed to create data source: %w", err)
		}

		e.datasource = ds
	}

	e.initialized = true

	e.log.Debug("Feature engine initialized",
		zap.String("version", config.Version),
		zap.Int("workers", config.Workers),
		zap.Float64("spread_threshold", config.SpreadThreshold),
		zap.Float64("strength_threshold", config.StrengthThreshold),
	)

	return nil
}

// SetDataPath implements engine.Engine.
func (e *FeatureEngineV1) SetDataPath(path string) error {
	// use glob to get all the files that match the path
	files, err := filepath.Glob(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid data path %s", path)
	}

	// Convert all paths to absolute paths
	absolutePaths := make([]string, len(files))

	for i, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "failed to get absolute path of %s", file)
		}

		absolutePaths[i] = absPath
	}

	e.dataPaths = absolutePaths

	if e.log != nil {
		e.log.Debug("Data paths set",
			zap.Strings("files", absolutePaths),
		)
	}

	return nil
}

// SetOutputPath implements engine.Engine.
func (e *FeatureEngineV1) SetOutputPath(path string) error {
	if path == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "output path cannot be empty")
	}

	e.outputPath = path

	return nil
}

// SetDataSource implements engine.Engine.
func (e *FeatureEngineV1) SetDataSource(datasource datasource.DataSource) error {
	e.datasource = datasource

	return nil
}

// SetWriter implements engine.Engine.
func (e *FeatureEngineV1) SetWriter(writer writer.FeatureWriter) error {
	e.writer = writer

	return nil
}

// Run implements engine.Engine.
func (e *FeatureEngineV1) Run(ctx context.Context, callbacks engine.LifecycleCallbacks) (result engine.RunResult, err error) {
	if callbacks.OnRunEnd != nil {
		defer func() {
			(*callbacks.OnRunEnd)(err)
		}()
	}

	if err = e.preRunCheck(); err != nil {
		return engine.RunResult{}, err
	}

	runID := uuid.New().String()

	if callbacks.OnRunStart != nil {
		if err = (*callbacks.OnRunStart)(runID, len(e.dataPaths)); err != nil {
			return engine.RunResult{}, fmt.Errorf("run start callback aborted: %w", err)
		}
	}

	observations, err := e.load(ctx, callbacks)
	if err != nil {
		return engine.RunResult{}, err
	}

	p, err := pipeline.New(e.config, e.log)
	if err != nil {
		return engine.RunResult{}, err
	}

	var onPartitionDone pipeline.OnPartitionDoneCallback
	if callbacks.OnPartitionDone != nil {
		onPartitionDone = pipeline.OnPartitionDoneCallback(*callbacks.OnPartitionDone)
	}

	features, err := p.Run(ctx, observations, onPartitionDone)
	if err != nil {
		return engine.RunResult{}, fmt.Errorf("failed to compute features: %w", err)
	}

	if err = e.export(features); err != nil {
		return engine.RunResult{}, err
	}

	stats := types.ComputeFeatureStats(runID, features)
	for i := range stats {
		stats[i].OutputPath = e.outputPath
	}

	statsPath := statsPathFor(e.outputPath)
	if err = types.WriteFeatureStats(statsPath, stats); err != nil {
		return engine.RunResult{}, errors.Wrap(errors.ErrCodeWriteFailed, "failed to write feature stats", err)
	}

	e.log.Info("Feature run completed",
		zap.String("run_id", runID),
		zap.Int("rows", len(features)),
		zap.Int("instruments", len(stats)),
		zap.String("output", e.outputPath),
		zap.String("stats", statsPath),
	)

	return engine.RunResult{
		RunID:      runID,
		OutputPath: e.outputPath,
		StatsPath:  statsPath,
		Rows:       len(features),
		Stats:      stats,
	}, nil
}

// GetConfigSchema implements engine.Engine.
func (e *FeatureEngineV1) GetConfigSchema() (string, error) {
	config := e.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", fmt.Errorf("failed to generate schema: %w", err)
	}

	return schema, nil
}

// Close implements engine.Engine.
func (e *FeatureEngineV1) Close() error {
	if e.datasource == nil {
		return nil
	}

	err := e.datasource.Close()
	e.datasource = nil

	return err
}

// load reads every data file in glob order and concatenates the observations.
func (e *FeatureEngineV1) load(ctx context.Context, callbacks engine.LifecycleCallbacks) (types.ObservationTable, error) {
	observations := make(types.ObservationTable, 0)

	for i, dataPath := range e.dataPaths {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeCancelled, "feature run cancelled", ctx.Err())
		}

		// Initialize the data source with the given data path
		if err := e.datasource.Initialize(dataPath); err != nil {
			return nil, fmt.Errorf("failed to initialize data source: %w", err)
		}

		rows, err := e.datasource.ReadAll(e.config.StartTime, e.config.EndTime)
		if err != nil {
			return nil, fmt.Errorf("failed to read data: %w", err)
		}

		e.log.Debug("Loaded observations",
			zap.String("data", dataPath),
			zap.Int("rows", len(rows)),
		)

		if callbacks.OnDataLoaded != nil {
			if err := (*callbacks.OnDataLoaded)(i, dataPath, len(rows)); err != nil {
				return nil, fmt.Errorf("data loaded callback aborted: %w", err)
			}
		}

		observations = append(observations, rows...)
	}

	return observations, nil
}

// export writes the feature table through the configured writer, or a fresh one scoped to this run.
func (e *FeatureEngineV1) export(features types.FeatureTable) error {
	w := e.writer

	if w == nil {
		created, err := writer.NewFeatureWriter(e.config.DecimalPrecision, e.log)
		if err != nil {
			return err
		}
		defer created.Close()

		w = created
	}

	if err := w.Write(features); err != nil {
		return fmt.Errorf("failed to write features: %w", err)
	}

	staged, err := w.Count()
	if err != nil {
		return fmt.Errorf("failed to count staged features: %w", err)
	}

	if staged != len(features) {
		return errors.Newf(errors.ErrCodeWriteFailed, "writer staged %d rows, expected %d", staged, len(features))
	}

	if err := w.Export(e.outputPath); err != nil {
		return fmt.Errorf("failed to export features: %w", err)
	}

	return nil
}

func (e *FeatureEngineV1) preRunCheck() error {
	if !e.initialized {
		return errors.New(errors.ErrCodeEngineNotInitialized, "engine is not initialized")
	}

	if len(e.dataPaths) == 0 {
		e.log.Error("No data paths loaded")

		return errors.New(errors.ErrCodeEngineNoDataPaths, "no data paths loaded")
	}

	if e.outputPath == "" {
		e.log.Error("No output path set")

		return errors.New(errors.ErrCodeEngineNoOutput, "no output path set")
	}

	if e.datasource == nil {
		return errors.New(errors.ErrCodeDataSourceUnavailable, "no data source set")
	}

	return nil
}

// statsPathFor places the run summary next to the feature file: features.parquet -> features.stats.yaml.
func statsPathFor(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".stats.yaml"
}
