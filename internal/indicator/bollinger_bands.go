package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// BollingerBands implements the Indicator interface for Bollinger Bands.
type BollingerBands struct {
	period int     // Number of periods for moving average
	stdDev float64 // Number of standard deviations
}

// NewBollingerBands creates a new Bollinger Bands indicator with default configuration.
func NewBollingerBands() Indicator {
	return &BollingerBands{
		period: 30,  // Default period, shared with the long SMA
		stdDev: 2.0, // Default standard deviation
	}
}

// Name returns the name of the indicator.
func (bb *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Config configures the Bollinger Bands indicator. Expected parameters: period (int), stdDev (float64).
func (bb *BollingerBands) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: period (int), stdDev (float64)")
	}

	period, err := parsePeriod(params[0], "period")
	if err != nil {
		return err
	}

	// the sample standard deviation needs two points
	if period < 2 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be at least 2, got %d", period)
	}

	stdDev, ok := params[1].(float64)
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for stdDev parameter, expected float64")
	}

	if stdDev <= 0 {
		return errors.Newf(errors.ErrCodeInvalidStdDevMultiplier, "stdDev must be a positive number, got %f", stdDev)
	}

	bb.period = period
	bb.stdDev = stdDev

	return nil
}

// Compute writes bband_high and bband_low around the long SMA column.
func (bb *BollingerBands) Compute(ctx IndicatorContext) error {
	mid, err := ctx.Frame.Column(types.ColumnMidPrice)
	if err != nil {
		return err
	}

	center, err := ctx.Frame.Column(types.ColumnSMALong)
	if err != nil {
		return err
	}

	upper, lower := BollingerBandSeries(mid, center, bb.period, bb.stdDev)

	if err := ctx.Frame.SetColumn(types.ColumnBBandHigh, upper); err != nil {
		return err
	}

	return ctx.Frame.SetColumn(types.ColumnBBandLow, lower)
}

// BollingerBandSeries returns center ± k*std, with std taken over trailing windows of period rows of s.
// std is the sample standard deviation (N-1 denominator). A row is undefined when either the window
// or the center is.
func BollingerBandSeries(s, center Series, period int, k float64) (upper, lower Series) {
	upper = NewSeries(len(s))
	lower = NewSeries(len(s))

	for i := range s {
		values, ok := s.window(i, period)
		if !ok || i >= len(center) || center[i].IsNone() {
			continue
		}

		c := center[i].Unwrap()
		std := stat.StdDev(values, nil)
		upper[i] = optional.Some(c + k*std)
		lower[i] = optional.Some(c - k*std)
	}

	return upper, lower
}
