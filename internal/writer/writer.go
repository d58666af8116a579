package writer

import "github.com/rxtech-lab/argo-features/internal/types"

// OutputColumns is the column order of exported feature files.
var OutputColumns = []string{
	"id",
	"date",
	"instrument_id",
	"price_bid",
	"price_ask",
	"nav_bid",
	"nav_ask",
	"volume",
	"mid_price",
	"mid_nav",
	"sma10",
	"sma30",
	"ema12",
	"ema26",
	"rsi",
	"bband_high",
	"bband_low",
	"vwap",
	"roc",
	"nav_price_spread",
	"nav_price_spread_percent",
	"nav_price_spread_ma10",
	"trade_signal",
	"signal_strength",
}

// FeatureWriter hands a computed feature table over to its consumer.
type FeatureWriter interface {
	// Write appends the rows of table, keeping their order
	Write(table types.FeatureTable) error
	// Count returns the number of rows written so far
	Count() (int, error)
	// Export writes every row to path. The format follows the extension (.parquet or .csv).
	Export(path string) error
	// Close releases the underlying database
	Close() error
}
