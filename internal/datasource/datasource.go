package datasource

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/types"
)

// Canonical input column names.
const (
	ColumnDate         = "date"
	ColumnInstrumentID = "instrument_id"
	ColumnPriceBid     = "price_bid"
	ColumnPriceAsk     = "price_ask"
	ColumnNavBid       = "nav_bid"
	ColumnNavAsk       = "nav_ask"
	ColumnVolume       = "volume"
)

// RequiredColumns lists every column an input file must provide, in read order.
var RequiredColumns = []string{
	ColumnDate,
	ColumnInstrumentID,
	ColumnPriceBid,
	ColumnPriceAsk,
	ColumnNavBid,
	ColumnNavAsk,
	ColumnVolume,
}

// columnAliases maps alternative source column names onto canonical ones.
var columnAliases = map[string]string{
	"ticker": ColumnInstrumentID,
}

type DataSource interface {
	// Initialize loads the observation file(s) at path (parquet, or CSV by extension; globs allowed)
	// and checks that every required column is present.
	Initialize(path string) error
	// ReadAll reads every observation within the optional inclusive time bounds,
	// sorted by instrument and date. NULL, NaN and infinite cells are None.
	ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) (types.ObservationTable, error)
	// Close closes the data source and releases any resources
	Close() error
}
