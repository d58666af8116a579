package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

// Frame holds one instrument's observations together with the columns derived so far.
// A frame never sees rows of another instrument.
type Frame struct {
	InstrumentID string
	Observations types.ObservationTable

	columns map[types.FeatureColumn]Series
	signals []types.TradeSignal
}

// NewFrame creates a frame over a single instrument's ordered observations.
func NewFrame(instrumentID string, observations types.ObservationTable) *Frame {
	return &Frame{
		InstrumentID: instrumentID,
		Observations: observations,
		columns:      make(map[types.FeatureColumn]Series),
		signals:      nil,
	}
}

// Len returns the number of rows in the frame.
func (f *Frame) Len() int {
	return len(f.Observations)
}

// Column returns a previously computed column.
func (f *Frame) Column(column types.FeatureColumn) (Series, error) {
	s, ok := f.columns[column]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeIndicatorCalculation, "column %s has not been computed for %s", column, f.InstrumentID)
	}

	return s, nil
}

// SetColumn stores a computed column. The series must have one cell per row.
func (f *Frame) SetColumn(column types.FeatureColumn, s Series) error {
	if len(s) != f.Len() {
		return errors.Newf(errors.ErrCodeIndicatorCalculation, "column %s has %d cells, expected %d", column, len(s), f.Len())
	}

	f.columns[column] = s

	return nil
}

// SetSignals stores the trade signal of every row.
func (f *Frame) SetSignals(signals []types.TradeSignal) error {
	if len(signals) != f.Len() {
		return errors.Newf(errors.ErrCodeIndicatorCalculation, "got %d signals, expected %d", len(signals), f.Len())
	}

	f.signals = signals

	return nil
}

// Input extracts a raw observation field as a series.
func (f *Frame) Input(field func(types.Observation) optional.Option[float64]) Series {
	s := make(Series, f.Len())
	for i, o := range f.Observations {
		s[i] = field(o)
	}

	return s
}

// Rows assembles the frame into feature rows, in observation order.
// Rows without a computed signal hold.
func (f *Frame) Rows() types.FeatureTable {
	rows := make(types.FeatureTable, f.Len())

	for i, o := range f.Observations {
		row := types.FeatureRow{Observation: o, TradeSignal: types.TradeSignalHold}

		for column, s := range f.columns {
			row.SetValue(column, s[i])
		}

		if f.signals != nil {
			row.TradeSignal = f.signals[i]
		}

		rows[i] = row
	}

	return rows
}

type IndicatorContext struct {
	Frame *Frame
}

// Indicator interface defines methods that any technical indicator must implement
type Indicator interface {
	// Compute derives the indicator's columns for the frame in the context
	Compute(ctx IndicatorContext) error
	// Name returns the name of the indicator
	Name() types.IndicatorType
	Config(params ...any) error
}

// parsePeriod accepts an int, or a float64 with no fractional part, and requires it to be positive.
func parsePeriod(param any, name string) (int, error) {
	period, ok := param.(int)
	if !ok {
		periodFloat, ok := param.(float64)
		if !ok {
			return 0, errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s parameter, expected int or float", name)
		}

		if periodFloat != float64(int(periodFloat)) {
			return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "%s must be a whole number, got %f", name, periodFloat)
		}

		period = int(periodFloat)
	}

	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "%s must be a positive integer, got %d", name, period)
	}

	return period, nil
}

// parseFloat reads a float64 parameter, accepting int as well.
func parseFloat(param any, name string) (float64, error) {
	switch v := param.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s parameter, expected float64", name)
	}
}
