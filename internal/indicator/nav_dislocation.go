package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

// NavDislocation measures how far the market mid price sits from the mid NAV.
// It writes the absolute spread, the spread as a percentage of the mid price, and a trailing
// mean of the spread.
type NavDislocation struct {
	maWindow int
}

// NewNavDislocation creates a new NavDislocation indicator with default configuration.
func NewNavDislocation() Indicator {
	return &NavDislocation{
		maWindow: 10,
	}
}

// Name returns the name of the indicator.
func (n *NavDislocation) Name() types.IndicatorType {
	return types.IndicatorTypeNavDislocation
}

// Config configures the spread moving average. Expected parameters: maWindow (int).
func (n *NavDislocation) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: maWindow (int)")
	}

	maWindow, err := parsePeriod(params[0], "maWindow")
	if err != nil {
		return err
	}

	n.maWindow = maWindow

	return nil
}

// Compute writes nav_price_spread, nav_price_spread_percent and nav_price_spread_ma10.
func (n *NavDislocation) Compute(ctx IndicatorContext) error {
	frame := ctx.Frame

	midPrice, err := frame.Column(types.ColumnMidPrice)
	if err != nil {
		return err
	}

	midNav, err := frame.Column(types.ColumnMidNav)
	if err != nil {
		return err
	}

	spread := NavPriceSpread(midNav, midPrice)

	if err := frame.SetColumn(types.ColumnNavPriceSpread, spread); err != nil {
		return err
	}

	if err := frame.SetColumn(types.ColumnNavPriceSpreadPercent, NavPriceSpreadPercent(spread, midPrice)); err != nil {
		return err
	}

	return frame.SetColumn(types.ColumnNavPriceSpreadMA, RollingMean(spread, n.maWindow))
}

// NavPriceSpread is mid_nav - mid_price.
func NavPriceSpread(midNav, midPrice Series) Series {
	return combine(midNav, midPrice, func(nav, price float64) optional.Option[float64] {
		return optional.Some(nav - price)
	})
}

// NavPriceSpreadPercent is spread / mid_price * 100, None where the mid price is zero.
func NavPriceSpreadPercent(spread, midPrice Series) Series {
	return combine(spread, midPrice, func(sp, price float64) optional.Option[float64] {
		if price == 0 {
			return optional.None[float64]()
		}

		return optional.Some(sp / price * 100)
	})
}
