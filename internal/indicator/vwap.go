package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

// VWAP implements the cumulative Volume Weighted Average Price from the start of the series.
// It never resets within an instrument.
//
// VWAP = Sum(Mid * Volume) / Sum(Volume)
type VWAP struct{}

// NewVWAP creates a new VWAP indicator.
func NewVWAP() Indicator {
	return &VWAP{}
}

// Name returns the name of the indicator.
func (v *VWAP) Name() types.IndicatorType {
	return types.IndicatorTypeVWAP
}

// Config takes no parameters.
func (v *VWAP) Config(params ...any) error {
	if len(params) != 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "Config expects no parameters")
	}

	return nil
}

// Compute writes the vwap column.
func (v *VWAP) Compute(ctx IndicatorContext) error {
	mid, err := ctx.Frame.Column(types.ColumnMidPrice)
	if err != nil {
		return err
	}

	volume := ctx.Frame.Input(func(o types.Observation) optional.Option[float64] { return o.Volume })

	return ctx.Frame.SetColumn(types.ColumnVWAP, VolumeWeightedAveragePrice(mid, volume))
}

// VolumeWeightedAveragePrice is the expanding volume-weighted mean of price.
// Rows with an undefined price or volume add nothing to the running sums and are None,
// as are rows where the cumulative volume is still zero.
func VolumeWeightedAveragePrice(price, volume Series) Series {
	out := NewSeries(len(price))

	var cumulativeValue, cumulativeVolume float64

	for i := range price {
		if i >= len(volume) || price[i].IsNone() || volume[i].IsNone() {
			continue
		}

		cumulativeValue += price[i].Unwrap() * volume[i].Unwrap()
		cumulativeVolume += volume[i].Unwrap()

		if cumulativeVolume == 0 {
			continue
		}

		out[i] = optional.Some(cumulativeValue / cumulativeVolume)
	}

	return out
}
