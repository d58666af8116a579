package types

// IndicatorType names a pipeline stage in the indicator registry.
type IndicatorType string

const (
	IndicatorTypeMidPrice       IndicatorType = "mid_price"
	IndicatorTypeMA             IndicatorType = "ma"
	IndicatorTypeEMA            IndicatorType = "ema"
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeBollingerBands IndicatorType = "bollinger_bands"
	IndicatorTypeVWAP           IndicatorType = "vwap"
	IndicatorTypeROC            IndicatorType = "roc"
	IndicatorTypeNavDislocation IndicatorType = "nav_dislocation"
	IndicatorTypeSpreadSignal   IndicatorType = "spread_signal"
)

// PipelineStages is the fixed order in which indicators run. Each stage only reads columns
// written by earlier stages.
var PipelineStages = []IndicatorType{
	IndicatorTypeMidPrice,
	IndicatorTypeMA,
	IndicatorTypeEMA,
	IndicatorTypeRSI,
	IndicatorTypeBollingerBands,
	IndicatorTypeVWAP,
	IndicatorTypeROC,
	IndicatorTypeNavDislocation,
	IndicatorTypeSpreadSignal,
}
