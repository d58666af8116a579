package mocks

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/types"
)

// ObservationCSVHeader is the header written by WriteObservationsCSV.
var ObservationCSVHeader = []string{"date", "instrument_id", "price_bid", "price_ask", "nav_bid", "nav_ask", "volume"}

// WriteObservationsCSV writes table to path in the input layout the datasource reads.
// Absent values become empty cells.
func WriteObservationsCSV(path string, table types.ObservationTable) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	w := csv.NewWriter(file)

	if err := w.Write(ObservationCSVHeader); err != nil {
		return fmt.Errorf("writing header to file: %w", err)
	}

	for _, o := range table {
		row := []string{
			o.Date.Format("2006-01-02T15:04:05"),
			o.InstrumentID,
			formatCell(o.PriceBid),
			formatCell(o.PriceAsk),
			formatCell(o.NavBid),
			formatCell(o.NavAsk),
			formatCell(o.Volume),
		}

		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing record to file: %w", err)
		}
	}

	w.Flush()

	return w.Error()
}

func formatCell(value optional.Option[float64]) string {
	if value.IsNone() {
		return ""
	}

	return strconv.FormatFloat(value.Unwrap(), 'f', -1, 64)
}
