package indicator

import (
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

// MA indicator implements the short and long Simple Moving Averages of the mid price.
type MA struct {
	shortPeriod int
	longPeriod  int
}

// NewMA creates a new MA indicator with default configuration.
func NewMA() Indicator {
	return &MA{
		shortPeriod: 10,
		longPeriod:  30,
	}
}

// Name returns the name of the indicator.
func (m *MA) Name() types.IndicatorType {
	return types.IndicatorTypeMA
}

// Config configures the MA indicator. Expected parameters: shortPeriod (int), longPeriod (int).
func (m *MA) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: shortPeriod (int), longPeriod (int)")
	}

	shortPeriod, err := parsePeriod(params[0], "shortPeriod")
	if err != nil {
		return err
	}

	longPeriod, err := parsePeriod(params[1], "longPeriod")
	if err != nil {
		return err
	}

	m.shortPeriod = shortPeriod
	m.longPeriod = longPeriod

	return nil
}

// Compute writes sma10 and sma30 (named after the default periods).
func (m *MA) Compute(ctx IndicatorContext) error {
	mid, err := ctx.Frame.Column(types.ColumnMidPrice)
	if err != nil {
		return err
	}

	if err := ctx.Frame.SetColumn(types.ColumnSMAShort, SimpleMovingAverage(mid, m.shortPeriod)); err != nil {
		return err
	}

	return ctx.Frame.SetColumn(types.ColumnSMALong, SimpleMovingAverage(mid, m.longPeriod))
}

// SimpleMovingAverage is the trailing mean over period rows, None for the first period-1 rows.
func SimpleMovingAverage(s Series, period int) Series {
	return RollingMean(s, period)
}
