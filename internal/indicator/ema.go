package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

// EMA indicator implements the short and long Exponential Moving Averages of the mid price.
type EMA struct {
	shortSpan int
	longSpan  int
}

// NewEMA creates a new EMA indicator with default configuration.
func NewEMA() Indicator {
	return &EMA{
		shortSpan: 12,
		longSpan:  26,
	}
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Config configures the EMA indicator. Expected parameters: shortSpan (int), longSpan (int).
func (e *EMA) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: shortSpan (int), longSpan (int)")
	}

	shortSpan, err := parsePeriod(params[0], "shortSpan")
	if err != nil {
		return err
	}

	longSpan, err := parsePeriod(params[1], "longSpan")
	if err != nil {
		return err
	}

	e.shortSpan = shortSpan
	e.longSpan = longSpan

	return nil
}

// Compute writes ema12 and ema26 (named after the default spans).
func (e *EMA) Compute(ctx IndicatorContext) error {
	mid, err := ctx.Frame.Column(types.ColumnMidPrice)
	if err != nil {
		return err
	}

	if err := ctx.Frame.SetColumn(types.ColumnEMAShort, ExponentialMovingAverage(mid, e.shortSpan)); err != nil {
		return err
	}

	return ctx.Frame.SetColumn(types.ColumnEMALong, ExponentialMovingAverage(mid, e.longSpan))
}

// ExponentialMovingAverage applies EMA[i] = alpha*x[i] + (1-alpha)*EMA[i-1] with alpha = 2/(span+1),
// seeded with the first defined value and no bias adjustment (pandas ewm adjust=False).
// An undefined input cell yields None and the recurrence resumes from the last defined EMA.
func ExponentialMovingAverage(s Series, span int) Series {
	out := NewSeries(len(s))
	alpha := 2.0 / float64(span+1)

	var (
		ema    float64
		seeded bool
	)

	for i, v := range s {
		if v.IsNone() {
			continue
		}

		price := v.Unwrap()
		if !seeded {
			ema = price
			seeded = true
		} else {
			ema = alpha*price + (1-alpha)*ema
		}

		out[i] = optional.Some(ema)
	}

	return out
}
