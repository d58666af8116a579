package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

// MidPrice derives the mid price and mid NAV from the bid/ask pairs.
type MidPrice struct{}

// NewMidPrice creates a new MidPrice indicator.
func NewMidPrice() Indicator {
	return &MidPrice{}
}

// Name returns the name of the indicator.
func (m *MidPrice) Name() types.IndicatorType {
	return types.IndicatorTypeMidPrice
}

// Config takes no parameters.
func (m *MidPrice) Config(params ...any) error {
	if len(params) != 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "Config expects no parameters")
	}

	return nil
}

// Compute writes mid_price and mid_nav.
func (m *MidPrice) Compute(ctx IndicatorContext) error {
	frame := ctx.Frame

	bid := frame.Input(func(o types.Observation) optional.Option[float64] { return o.PriceBid })
	ask := frame.Input(func(o types.Observation) optional.Option[float64] { return o.PriceAsk })
	navBid := frame.Input(func(o types.Observation) optional.Option[float64] { return o.NavBid })
	navAsk := frame.Input(func(o types.Observation) optional.Option[float64] { return o.NavAsk })

	if err := frame.SetColumn(types.ColumnMidPrice, MidPoint(bid, ask)); err != nil {
		return err
	}

	return frame.SetColumn(types.ColumnMidNav, MidPoint(navBid, navAsk))
}

// MidPoint is the arithmetic mean of two aligned series. A row missing either side is None.
func MidPoint(bid, ask Series) Series {
	return combine(bid, ask, func(b, a float64) optional.Option[float64] {
		return optional.Some((b + a) / 2)
	})
}
