package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-features/internal/indicator"
	"github.com/rxtech-lab/argo-features/internal/logger"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OnPartitionDoneCallback is called after an instrument's features are computed.
// done counts finished instruments, total is the number of instruments in the table.
type OnPartitionDoneCallback func(instrumentID string, done int, total int) error

// Pipeline computes the feature table from an observation table.
// It holds no state between runs and never mutates its input.
type Pipeline struct {
	config PipelineConfig
	stages []indicator.Indicator
	log    *logger.Logger
}

// partition is the ordered observations of one instrument with their positions in the input table.
type partition struct {
	instrumentID string
	indices      []int
	observations types.ObservationTable
}

// New builds a pipeline whose indicators are configured from config.
// A nil logger discards output.
func New(config PipelineConfig, log *logger.Logger) (*Pipeline, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	registry, err := NewRegistry(config)
	if err != nil {
		return nil, err
	}

	stages, err := registry.Resolve(types.PipelineStages)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		config: config,
		stages: stages,
		log:    log,
	}, nil
}

// NewRegistry registers every pipeline stage, configured from config.
func NewRegistry(config PipelineConfig) (indicator.IndicatorRegistry, error) {
	registry := indicator.NewIndicatorRegistry()

	stages := []struct {
		indicator indicator.Indicator
		params    []any
	}{
		{indicator: indicator.NewMidPrice(), params: nil},
		{indicator: indicator.NewMA(), params: []any{config.SMAShortWindow, config.SMALongWindow}},
		{indicator: indicator.NewEMA(), params: []any{config.EMAShortSpan, config.EMALongSpan}},
		{indicator: indicator.NewRSI(), params: []any{config.RSIWindow}},
		{indicator: indicator.NewBollingerBands(), params: []any{config.BBandWindow, config.BBandK}},
		{indicator: indicator.NewVWAP(), params: nil},
		{indicator: indicator.NewROC(), params: []any{config.ROCPeriods}},
		{indicator: indicator.NewNavDislocation(), params: []any{config.SpreadMAWindow}},
		{indicator: indicator.NewSpreadSignal(), params: []any{config.SpreadThreshold, config.StrengthThreshold}},
	}

	for _, stage := range stages {
		if err := stage.indicator.Config(stage.params...); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to configure %s", stage.indicator.Name())
		}

		if err := registry.RegisterIndicator(stage.indicator); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() PipelineConfig {
	return p.config
}

// Run computes every feature column for table. The result has one row per input row, in input order.
// Rows of an instrument must already be in strictly increasing date order; Run never sorts.
// NaN and infinite input cells are treated as undefined. onPartitionDone may be nil.
func (p *Pipeline) Run(ctx context.Context, table types.ObservationTable, onPartitionDone OnPartitionDoneCallback) (types.FeatureTable, error) {
	partitions, err := partitionTable(table)
	if err != nil {
		return nil, err
	}

	p.log.Debug("Partitioned observations",
		zap.Int("rows", len(table)),
		zap.Int("instruments", len(partitions)),
		zap.Int("workers", p.config.Workers),
	)

	result := make(types.FeatureTable, len(table))

	var (
		mu   sync.Mutex
		done int
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.config.Workers)

	for _, part := range partitions {
		if err := groupCtx.Err(); err != nil {
			break
		}

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			rows, err := p.computePartition(part)
			if err != nil {
				return err
			}

			// partitions own disjoint indices
			for i, row := range rows {
				result[part.indices[i]] = row
			}

			if onPartitionDone == nil {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()

			done++

			return onPartitionDone(part.instrumentID, done, len(partitions))
		})
	}

	if err := group.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeCancelled, "pipeline run cancelled", ctx.Err())
		}

		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCancelled, "pipeline run cancelled", err)
	}

	return result, nil
}

func (p *Pipeline) computePartition(part partition) (types.FeatureTable, error) {
	frame := indicator.NewFrame(part.instrumentID, part.observations)
	indicatorCtx := indicator.IndicatorContext{
		Frame: frame,
	}

	for _, stage := range p.stages {
		if err := stage.Compute(indicatorCtx); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeIndicatorCalculation, err, "%s failed for instrument %s", stage.Name(), part.instrumentID)
		}
	}

	p.log.Debug("Computed features",
		zap.String("instrument", part.instrumentID),
		zap.Int("rows", frame.Len()),
	)

	return frame.Rows(), nil
}

// partitionTable groups row indices by instrument in first-appearance order and checks that each
// instrument's dates strictly increase.
func partitionTable(table types.ObservationTable) ([]partition, error) {
	byInstrument := make(map[string]int)
	partitions := make([]partition, 0)

	for i, observation := range table {
		if observation.InstrumentID == "" {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "row %d has an empty instrument id", i)
		}

		idx, ok := byInstrument[observation.InstrumentID]
		if !ok {
			idx = len(partitions)
			byInstrument[observation.InstrumentID] = idx
			partitions = append(partitions, partition{instrumentID: observation.InstrumentID})
		}

		part := &partitions[idx]
		if n := len(part.observations); n > 0 {
			previous := part.observations[n-1].Date
			if !observation.Date.After(previous) {
				return nil, errors.Newf(errors.ErrCodeUnorderedData,
					"dates for %s are not strictly increasing at row %d: %s follows %s",
					observation.InstrumentID, i, observation.Date.Format(time.RFC3339), previous.Format(time.RFC3339))
			}
		}

		part.indices = append(part.indices, i)
		part.observations = append(part.observations, observation.Normalized())
	}

	return partitions, nil
}
