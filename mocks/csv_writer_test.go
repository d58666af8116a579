package mocks

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/types"
)

func TestWriteObservationsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "observations.csv")

	table := types.ObservationTable{
		types.NewObservation(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "TLT", 92.0, 92.04, 92.4, 92.42, 1200),
		{
			Date:         time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			InstrumentID: "TLT",
			PriceBid:     optional.Some(92.1),
			PriceAsk:     optional.None[float64](),
			NavBid:       optional.Some(92.5),
			NavAsk:       optional.Some(92.52),
			Volume:       optional.None[float64](),
		},
	}

	if err := WriteObservationsCSV(path, table); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open written file: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to read csv: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}

	if records[0][1] != "instrument_id" {
		t.Errorf("unexpected header %v", records[0])
	}

	if records[1][0] != "2024-01-02T00:00:00" || records[1][2] != "92" || records[1][6] != "1200" {
		t.Errorf("unexpected first row %v", records[1])
	}

	if records[2][3] != "" || records[2][6] != "" {
		t.Errorf("expected empty cells for absent values, got %v", records[2])
	}
}
