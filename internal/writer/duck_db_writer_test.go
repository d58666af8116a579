package writer

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/logger"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DuckDBFeatureWriterTestSuite struct {
	suite.Suite
	writer FeatureWriter
	tmpDir string
}

func TestDuckDBFeatureWriterSuite(t *testing.T) {
	suite.Run(t, new(DuckDBFeatureWriterTestSuite))
}

func (suite *DuckDBFeatureWriterTestSuite) SetupTest() {
	w, err := NewFeatureWriter(2, logger.NewNopLogger())
	suite.Require().NoError(err)

	suite.writer = w
	suite.tmpDir = suite.T().TempDir()
}

func (suite *DuckDBFeatureWriterTestSuite) TearDownTest() {
	if suite.writer != nil {
		suite.writer.Close()
	}
}

func testRows() types.FeatureTable {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	first := types.FeatureRow{
		Observation: types.NewObservation(day, "TLT", 92.0, 92.04, 92.4, 92.42, 1200),
		TradeSignal: types.TradeSignalBuy,
	}
	first.MidPrice = optional.Some(92.02)
	first.MidNav = optional.Some(92.41)
	first.NavPriceSpreadPercent = optional.Some(0.423821)
	first.SignalStrength = optional.Some(2.119105)

	second := types.FeatureRow{
		Observation: types.NewObservation(day, "IEF", 94.0, 94.02, 93.9, 93.92, 800),
		TradeSignal: types.TradeSignalHold,
	}
	second.MidPrice = optional.Some(94.01)

	return types.FeatureTable{first, second}
}

// readBack loads an exported file into rows keyed by column name.
func readBack(path string, reader string) ([]map[string]any, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf(`SELECT * FROM %s('%s')`, reader, path))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []map[string]any

	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))

		for i := range values {
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any)
		for i, col := range columns {
			row[col] = values[i]
		}

		result = append(result, row)
	}

	return result, rows.Err()
}

func (suite *DuckDBFeatureWriterTestSuite) TestWriteAndCount() {
	suite.Require().NoError(suite.writer.Write(testRows()))
	suite.Require().NoError(suite.writer.Write(testRows()[:1]))

	count, err := suite.writer.Count()
	suite.NoError(err)
	suite.Equal(3, count)
}

func (suite *DuckDBFeatureWriterTestSuite) TestWriteEmpty() {
	suite.NoError(suite.writer.Write(types.FeatureTable{}))

	count, err := suite.writer.Count()
	suite.NoError(err)
	suite.Equal(0, count)
}

func (suite *DuckDBFeatureWriterTestSuite) TestExportParquet() {
	suite.Require().NoError(suite.writer.Write(testRows()))

	path := filepath.Join(suite.tmpDir, "out", "features.parquet")
	suite.Require().NoError(suite.writer.Export(path))

	rows, err := readBack(path, "read_parquet")
	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)

	// input order is kept
	suite.Equal("TLT", rows[0]["instrument_id"])
	suite.Equal("IEF", rows[1]["instrument_id"])

	suite.Equal("Buy", rows[0]["trade_signal"])
	suite.InDelta(0.42, rows[0]["nav_price_spread_percent"], 1e-9)
	suite.InDelta(2.12, rows[0]["signal_strength"], 1e-9)
	suite.Nil(rows[0]["rsi"])
	suite.Nil(rows[1]["signal_strength"])
	suite.NotEqual(rows[0]["id"], rows[1]["id"])
	suite.Len(rows[0], len(OutputColumns))
}

func (suite *DuckDBFeatureWriterTestSuite) TestNonFiniteValuesAreStoredAsNull() {
	rows := testRows()
	rows[0].RSI = optional.Some(math.NaN())
	rows[0].VWAP = optional.Some(math.Inf(1))
	rows[1].PriceBid = optional.Some(math.Inf(-1))

	suite.Require().NotPanics(func() {
		suite.Require().NoError(suite.writer.Write(rows))
	})

	path := filepath.Join(suite.tmpDir, "features.parquet")
	suite.Require().NoError(suite.writer.Export(path))

	readRows, err := readBack(path, "read_parquet")
	suite.Require().NoError(err)
	suite.Require().Len(readRows, 2)

	suite.Nil(readRows[0]["rsi"])
	suite.Nil(readRows[0]["vwap"])
	suite.Nil(readRows[1]["price_bid"])
	suite.InDelta(94.02, readRows[1]["price_ask"], 1e-9)
}

func (suite *DuckDBFeatureWriterTestSuite) TestExportCSV() {
	suite.Require().NoError(suite.writer.Write(testRows()))

	path := filepath.Join(suite.tmpDir, "features.csv")
	suite.Require().NoError(suite.writer.Export(path))

	content, err := os.ReadFile(path)
	suite.Require().NoError(err)
	suite.Contains(string(content), "id,date,instrument_id,price_bid")

	rows, err := readBack(path, "read_csv_auto")
	suite.Require().NoError(err)
	suite.Len(rows, 2)
}

func (suite *DuckDBFeatureWriterTestSuite) TestExportUnsupportedFormat() {
	err := suite.writer.Export(filepath.Join(suite.tmpDir, "features.xlsx"))
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func TestExportFormat(t *testing.T) {
	tests := []struct {
		path     string
		expected string
		wantErr  bool
	}{
		{path: "out/features.parquet", expected: "FORMAT PARQUET"},
		{path: "OUT.PARQUET", expected: "FORMAT PARQUET"},
		{path: "features.csv", expected: "FORMAT CSV, HEADER"},
		{path: "features", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			format, err := exportFormat(tc.path)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tc.path)
				}

				return
			}

			if format != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, format)
			}
		})
	}
}
