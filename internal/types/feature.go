package types

import (
	"github.com/moznion/go-optional"
)

// FeatureColumn names a derived numeric column of the feature table.
type FeatureColumn string

const (
	ColumnMidPrice              FeatureColumn = "mid_price"
	ColumnMidNav                FeatureColumn = "mid_nav"
	ColumnSMAShort              FeatureColumn = "sma10"
	ColumnSMALong               FeatureColumn = "sma30"
	ColumnEMAShort              FeatureColumn = "ema12"
	ColumnEMALong               FeatureColumn = "ema26"
	ColumnRSI                   FeatureColumn = "rsi"
	ColumnBBandHigh             FeatureColumn = "bband_high"
	ColumnBBandLow              FeatureColumn = "bband_low"
	ColumnVWAP                  FeatureColumn = "vwap"
	ColumnROC                   FeatureColumn = "roc"
	ColumnNavPriceSpread        FeatureColumn = "nav_price_spread"
	ColumnNavPriceSpreadPercent FeatureColumn = "nav_price_spread_percent"
	ColumnNavPriceSpreadMA      FeatureColumn = "nav_price_spread_ma10"
	ColumnSignalStrength        FeatureColumn = "signal_strength"
)

// FeatureColumns is the output order of the numeric derived columns.
var FeatureColumns = []FeatureColumn{
	ColumnMidPrice,
	ColumnMidNav,
	ColumnSMAShort,
	ColumnSMALong,
	ColumnEMAShort,
	ColumnEMALong,
	ColumnRSI,
	ColumnBBandHigh,
	ColumnBBandLow,
	ColumnVWAP,
	ColumnROC,
	ColumnNavPriceSpread,
	ColumnNavPriceSpreadPercent,
	ColumnNavPriceSpreadMA,
	ColumnSignalStrength,
}

// FeatureRow is an observation enriched with every derived column.
// A None value marks an undefined cell (warm-up rows, absent inputs, zero divisors).
type FeatureRow struct {
	Observation

	MidPrice              optional.Option[float64]
	MidNav                optional.Option[float64]
	SMA10                 optional.Option[float64]
	SMA30                 optional.Option[float64]
	EMA12                 optional.Option[float64]
	EMA26                 optional.Option[float64]
	RSI                   optional.Option[float64]
	BBandHigh             optional.Option[float64]
	BBandLow              optional.Option[float64]
	VWAP                  optional.Option[float64]
	ROC                   optional.Option[float64]
	NavPriceSpread        optional.Option[float64]
	NavPriceSpreadPercent optional.Option[float64]
	NavPriceSpreadMA10    optional.Option[float64]
	TradeSignal           TradeSignal
	SignalStrength        optional.Option[float64]
}

// Value returns the value of a derived numeric column.
func (r FeatureRow) Value(column FeatureColumn) optional.Option[float64] {
	if p := r.field(column); p != nil {
		return *p
	}

	return optional.None[float64]()
}

// SetValue sets a derived numeric column. Unknown columns are ignored.
func (r *FeatureRow) SetValue(column FeatureColumn, value optional.Option[float64]) {
	if p := r.field(column); p != nil {
		*p = value
	}
}

func (r *FeatureRow) field(column FeatureColumn) *optional.Option[float64] {
	switch column {
	case ColumnMidPrice:
		return &r.MidPrice
	case ColumnMidNav:
		return &r.MidNav
	case ColumnSMAShort:
		return &r.SMA10
	case ColumnSMALong:
		return &r.SMA30
	case ColumnEMAShort:
		return &r.EMA12
	case ColumnEMALong:
		return &r.EMA26
	case ColumnRSI:
		return &r.RSI
	case ColumnBBandHigh:
		return &r.BBandHigh
	case ColumnBBandLow:
		return &r.BBandLow
	case ColumnVWAP:
		return &r.VWAP
	case ColumnROC:
		return &r.ROC
	case ColumnNavPriceSpread:
		return &r.NavPriceSpread
	case ColumnNavPriceSpreadPercent:
		return &r.NavPriceSpreadPercent
	case ColumnNavPriceSpreadMA:
		return &r.NavPriceSpreadMA10
	case ColumnSignalStrength:
		return &r.SignalStrength
	default:
		return nil
	}
}

// FeatureTable is the pipeline output. It has the same length and row order as its input.
type FeatureTable []FeatureRow

// ForInstrument returns the rows of a single instrument, preserving order.
func (t FeatureTable) ForInstrument(instrumentID string) FeatureTable {
	rows := make(FeatureTable, 0)

	for _, r := range t {
		if r.InstrumentID == instrumentID {
			rows = append(rows, r)
		}
	}

	return rows
}

// Column extracts one derived column across the whole table.
func (t FeatureTable) Column(column FeatureColumn) []optional.Option[float64] {
	values := make([]optional.Option[float64], len(t))
	for i, r := range t {
		values[i] = r.Value(column)
	}

	return values
}
