package indicator

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
)

// SpreadSignal turns the NAV-price spread percentage into a Buy/Sell/Hold signal and a strength.
//
// A spread above spreadThreshold means the ETF trades below NAV (Buy); below -spreadThreshold it
// trades above NAV (Sell). Strength is |spread| / strengthThreshold and is not capped.
type SpreadSignal struct {
	spreadThreshold   float64
	strengthThreshold float64
}

// NewSpreadSignal creates a new SpreadSignal indicator with default thresholds.
func NewSpreadSignal() Indicator {
	return &SpreadSignal{
		spreadThreshold:   0.5,
		strengthThreshold: 0.2,
	}
}

// Name returns the name of the indicator.
func (s *SpreadSignal) Name() types.IndicatorType {
	return types.IndicatorTypeSpreadSignal
}

// Config sets the thresholds. Expected parameters: spreadThreshold (float64), strengthThreshold (float64).
func (s *SpreadSignal) Config(params ...any) error {
	if len(params) != 2 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 2 parameters: spreadThreshold (float64), strengthThreshold (float64)")
	}

	spreadThreshold, err := parseFloat(params[0], "spreadThreshold")
	if err != nil {
		return err
	}

	strengthThreshold, err := parseFloat(params[1], "strengthThreshold")
	if err != nil {
		return err
	}

	if spreadThreshold <= 0 {
		return errors.Newf(errors.ErrCodeInvalidThreshold, "spreadThreshold must be positive, got %f", spreadThreshold)
	}

	if strengthThreshold <= 0 {
		return errors.Newf(errors.ErrCodeInvalidThreshold, "strengthThreshold must be positive, got %f", strengthThreshold)
	}

	s.spreadThreshold = spreadThreshold
	s.strengthThreshold = strengthThreshold

	return nil
}

// Compute writes trade_signal and signal_strength from nav_price_spread_percent.
func (s *SpreadSignal) Compute(ctx IndicatorContext) error {
	frame := ctx.Frame

	percent, err := frame.Column(types.ColumnNavPriceSpreadPercent)
	if err != nil {
		return err
	}

	signals := make([]types.TradeSignal, len(percent))
	strength := NewSeries(len(percent))

	for i, p := range percent {
		signals[i], strength[i] = s.Classify(p)
	}

	if err := frame.SetSignals(signals); err != nil {
		return err
	}

	return frame.SetColumn(types.ColumnSignalStrength, strength)
}

// Classify maps one spread percentage to a signal and its strength.
// An undefined spread holds with an undefined strength.
func (s *SpreadSignal) Classify(spreadPercent optional.Option[float64]) (types.TradeSignal, optional.Option[float64]) {
	if spreadPercent.IsNone() {
		return types.TradeSignalHold, optional.None[float64]()
	}

	pct := spreadPercent.Unwrap()
	strength := optional.Some(math.Abs(pct) / s.strengthThreshold)

	switch {
	case pct > s.spreadThreshold:
		return types.TradeSignalBuy, strength
	case pct < -s.spreadThreshold:
		return types.TradeSignalSell, strength
	default:
		return types.TradeSignalHold, strength
	}
}

