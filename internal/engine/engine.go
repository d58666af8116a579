package engine

import (
	"context"

	"github.com/rxtech-lab/argo-features/internal/datasource"
	"github.com/rxtech-lab/argo-features/internal/pipeline"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/internal/writer"
)

// Lifecycle callback types for feature run phases
// All callbacks with error return can abort execution if they return an error

// OnRunStartCallback is called once the input files are resolved, before any of them is read.
type OnRunStartCallback func(runID string, totalDataFiles int) error

// OnRunEndCallback is called when the run completes (always called via defer).
type OnRunEndCallback func(err error)

// OnDataLoadedCallback is called after each data file is read.
type OnDataLoadedCallback func(dataFileIndex int, dataFilePath string, totalDataPoints int) error

// OnPartitionDoneCallback is called after each instrument's features are computed.
type OnPartitionDoneCallback func(instrumentID string, current int, total int) error

// LifecycleCallbacks holds all lifecycle callback functions for the feature engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnRunStart      *OnRunStartCallback
	OnRunEnd        *OnRunEndCallback
	OnDataLoaded    *OnDataLoadedCallback
	OnPartitionDone *OnPartitionDoneCallback
}

// RunResult is what a completed run produced.
type RunResult struct {
	RunID      string
	OutputPath string
	StatsPath  string
	Rows       int
	Stats      []types.FeatureStats
}

//nolint:interfacebloat // Engine is a core interface that naturally requires multiple methods
type Engine interface {
	// Initialize the engine with the given YAML pipeline configuration.
	Initialize(config string) error
	// InitializeWithConfig initializes the engine with an already parsed configuration.
	InitializeWithConfig(config pipeline.PipelineConfig) error
	// SetDataPath sets the path to the observation files. Accepts glob patterns
	// (e.g., "data/*.parquet"); instruments may be spread over several files.
	SetDataPath(path string) error
	// SetOutputPath sets the feature file to write. The extension picks the format (.parquet or .csv).
	SetOutputPath(path string) error
	// SetDataSource sets the data source for the engine.
	SetDataSource(dataSource datasource.DataSource) error
	// SetWriter sets the feature writer for the engine.
	SetWriter(writer writer.FeatureWriter) error
	// Run loads every data file, computes the features and exports them.
	// The context can be used to cancel the run between instruments.
	Run(ctx context.Context, callbacks LifecycleCallbacks) (RunResult, error)
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
	// Close releases the data source and writer owned by the engine.
	Close() error
}
