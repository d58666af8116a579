package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

const (
	// RSIUpperBound is returned when a window has gains and no losses.
	RSIUpperBound = 100.0
	// RSIFlatValue is returned when a window has neither gains nor losses.
	RSIFlatValue = 50.0
)

// RSI represents the Relative Strength Index indicator computed with simple rolling means
// of gains and losses.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSI) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, err := parsePeriod(params[0], "period")
	if err != nil {
		return err
	}

	r.period = period

	return nil
}

// Compute writes the rsi column.
func (r *RSI) Compute(ctx IndicatorContext) error {
	mid, err := ctx.Frame.Column(types.ColumnMidPrice)
	if err != nil {
		return err
	}

	return ctx.Frame.SetColumn(types.ColumnRSI, RelativeStrengthIndex(mid, r.period))
}

// RelativeStrengthIndex computes RSI = 100 - 100/(1 + mean_gain/mean_loss) over trailing windows.
//
// The change of the first row is taken as zero since it has no predecessor, so the first defined
// value is at row period-1. A window with no losses is 100, or 50 when it has no gains either.
func RelativeStrengthIndex(s Series, period int) Series {
	gains := NewSeries(len(s))
	losses := NewSeries(len(s))

	for i := range s {
		if s[i].IsNone() {
			continue
		}

		change := 0.0
		if i > 0 {
			if s[i-1].IsNone() {
				continue
			}

			change = s[i].Unwrap() - s[i-1].Unwrap()
		}

		if change > 0 {
			gains[i] = optional.Some(change)
			losses[i] = optional.Some(0.0)
		} else {
			gains[i] = optional.Some(0.0)
			losses[i] = optional.Some(-change)
		}
	}

	avgGains := RollingMean(gains, period)
	avgLosses := RollingMean(losses, period)

	return combine(avgGains, avgLosses, func(avgGain, avgLoss float64) optional.Option[float64] {
		if avgLoss == 0 {
			if avgGain == 0 {
				return optional.Some(RSIFlatValue)
			}

			return optional.Some(RSIUpperBound)
		}

		rs := avgGain / avgLoss

		return optional.Some(100 - (100 / (1 + rs)))
	})
}
