package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

// ROC is the percentage Rate of Change of the mid price over a number of periods.
type ROC struct {
	periods int
}

// NewROC creates a new ROC indicator with default configuration.
func NewROC() Indicator {
	return &ROC{
		periods: 10,
	}
}

// Name returns the name of the indicator.
func (r *ROC) Name() types.IndicatorType {
	return types.IndicatorTypeROC
}

// Config configures the ROC indicator. Expected parameters: periods (int).
func (r *ROC) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: periods (int)")
	}

	periods, err := parsePeriod(params[0], "periods")
	if err != nil {
		return err
	}

	r.periods = periods

	return nil
}

// Compute writes the roc column.
func (r *ROC) Compute(ctx IndicatorContext) error {
	mid, err := ctx.Frame.Column(types.ColumnMidPrice)
	if err != nil {
		return err
	}

	return ctx.Frame.SetColumn(types.ColumnROC, RateOfChange(mid, r.periods))
}

// RateOfChange computes (x[i]/x[i-periods] - 1) * 100.
// The first periods rows are None, as is any row whose base is undefined or zero.
func RateOfChange(s Series, periods int) Series {
	out := NewSeries(len(s))

	for i := periods; i < len(s); i++ {
		current, base := s[i], s[i-periods]
		if current.IsNone() || base.IsNone() || base.Unwrap() == 0 {
			continue
		}

		out[i] = optional.Some((current.Unwrap()/base.Unwrap() - 1) * 100)
	}

	return out
}
