package types

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

type SignalCounts struct {
	// Count of rows whose signal is Buy.
	Buy int `yaml:"buy" json:"buy"`
	// Count of rows whose signal is Sell.
	Sell int `yaml:"sell" json:"sell"`
	// Count of rows whose signal is Hold.
	Hold int `yaml:"hold" json:"hold"`
}

type SpreadSummary struct {
	// Mean of the defined NAV-price spread percentages.
	Mean float64 `yaml:"mean" json:"mean"`
	// Smallest defined spread percentage.
	Min float64 `yaml:"min" json:"min"`
	// Largest defined spread percentage.
	Max float64 `yaml:"max" json:"max"`
}

// FeatureStats summarises the features of one instrument after a run.
type FeatureStats struct {
	// ID is the unique identifier for this run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when the run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// InstrumentID of the summarised rows.
	InstrumentID string `yaml:"instrument_id" json:"instrument_id"`
	// Number of rows of the instrument.
	Rows int `yaml:"rows" json:"rows"`
	// Date of the latest row.
	LastDate time.Time `yaml:"last_date" json:"last_date"`
	// Signal of the latest row.
	LastSignal TradeSignal `yaml:"last_signal" json:"last_signal"`
	// Strength of the latest signal. Nil when undefined.
	LastSignalStrength *float64     `yaml:"last_signal_strength" json:"last_signal_strength"`
	SignalCounts       SignalCounts `yaml:"signal_counts" json:"signal_counts"`
	// Nil when no row has a defined spread.
	SpreadPercent *SpreadSummary `yaml:"spread_percent" json:"spread_percent"`
	// OutputPath is the file the feature rows were exported to.
	OutputPath string `yaml:"output_path" json:"output_path"`
}

// ComputeFeatureStats builds one summary per instrument, in first-appearance order.
// The rows of each instrument are expected in date order, as the pipeline produces them.
func ComputeFeatureStats(runID string, table FeatureTable) []FeatureStats {
	if runID == "" {
		runID = uuid.New().String()
	}

	timestamp := time.Now()
	order := make([]string, 0)
	byInstrument := make(map[string]*FeatureStats)
	spreads := make(map[string][]float64)

	for _, row := range table {
		stats, ok := byInstrument[row.InstrumentID]
		if !ok {
			stats = &FeatureStats{
				ID:           runID,
				Timestamp:    timestamp,
				InstrumentID: row.InstrumentID,
			}
			byInstrument[row.InstrumentID] = stats
			order = append(order, row.InstrumentID)
		}

		stats.Rows++

		switch row.TradeSignal {
		case TradeSignalBuy:
			stats.SignalCounts.Buy++
		case TradeSignalSell:
			stats.SignalCounts.Sell++
		default:
			stats.SignalCounts.Hold++
		}

		if !row.Date.Before(stats.LastDate) {
			stats.LastDate = row.Date
			stats.LastSignal = row.TradeSignal
			stats.LastSignalStrength = nil

			if row.SignalStrength.IsSome() {
				strength := row.SignalStrength.Unwrap()
				stats.LastSignalStrength = &strength
			}
		}

		if row.NavPriceSpreadPercent.IsSome() {
			spreads[row.InstrumentID] = append(spreads[row.InstrumentID], row.NavPriceSpreadPercent.Unwrap())
		}
	}

	result := make([]FeatureStats, 0, len(order))

	for _, instrumentID := range order {
		stats := byInstrument[instrumentID]

		if values := spreads[instrumentID]; len(values) > 0 {
			summary := SpreadSummary{
				Mean: stat.Mean(values, nil),
				Min:  values[0],
				Max:  values[0],
			}

			for _, v := range values[1:] {
				summary.Min = min(summary.Min, v)
				summary.Max = max(summary.Max, v)
			}

			stats.SpreadPercent = &summary
		}

		result = append(result, *stats)
	}

	return result
}

func WriteFeatureStats(path string, stats []FeatureStats) error {
	// Marshal the struct to YAML
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal feature stats to YAML: %w", err)
	}

	// Write the YAML data to the file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write feature stats to file: %w", err)
	}

	return nil
}

func ReadFeatureStats(path string) ([]FeatureStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature stats file: %w", err)
	}

	var stats []FeatureStats
	if err := yaml.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feature stats: %w", err)
	}

	return stats, nil
}
