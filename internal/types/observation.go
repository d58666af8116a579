package types

import (
	"math"
	"time"

	"github.com/moznion/go-optional"
)

// Observation is a single input row for one instrument on one date.
// Numeric fields are optional because the source table may hold NULL cells.
type Observation struct {
	// Date is the observation timestamp, unique and increasing within an instrument.
	Date time.Time
	// InstrumentID identifies the instrument (e.g. "TLT").
	InstrumentID string
	PriceBid     optional.Option[float64]
	PriceAsk     optional.Option[float64]
	NavBid       optional.Option[float64]
	NavAsk       optional.Option[float64]
	// Volume is the traded volume for the period.
	Volume optional.Option[float64]
}

// NewObservation creates an observation with every numeric field present.
func NewObservation(date time.Time, instrumentID string, priceBid, priceAsk, navBid, navAsk, volume float64) Observation {
	return Observation{
		Date:         date,
		InstrumentID: instrumentID,
		PriceBid:     optional.Some(priceBid),
		PriceAsk:     optional.Some(priceAsk),
		NavBid:       optional.Some(navBid),
		NavAsk:       optional.Some(navAsk),
		Volume:       optional.Some(volume),
	}
}

// Normalized returns a copy of o with NaN and infinite numeric cells replaced by None.
func (o Observation) Normalized() Observation {
	o.PriceBid = Finite(o.PriceBid)
	o.PriceAsk = Finite(o.PriceAsk)
	o.NavBid = Finite(o.NavBid)
	o.NavAsk = Finite(o.NavAsk)
	o.Volume = Finite(o.Volume)

	return o
}

// Finite returns value unchanged, or None when it holds NaN or an infinity.
func Finite(value optional.Option[float64]) optional.Option[float64] {
	if value.IsNone() {
		return value
	}

	if v := value.Unwrap(); math.IsNaN(v) || math.IsInf(v, 0) {
		return optional.None[float64]()
	}

	return value
}

// ObservationTable is an ordered set of observations covering one or more instruments.
type ObservationTable []Observation

// Instruments returns the distinct instrument identifiers in first-appearance order.
func (t ObservationTable) Instruments() []string {
	seen := make(map[string]struct{})
	instruments := make([]string, 0)

	for _, o := range t {
		if _, ok := seen[o.InstrumentID]; ok {
			continue
		}

		seen[o.InstrumentID] = struct{}{}
		instruments = append(instruments, o.InstrumentID)
	}

	return instruments
}

// ForInstrument returns the rows of a single instrument, preserving order.
func (t ObservationTable) ForInstrument(instrumentID string) ObservationTable {
	rows := make(ObservationTable, 0)

	for _, o := range t {
		if o.InstrumentID == instrumentID {
			rows = append(rows, o)
		}
	}

	return rows
}
