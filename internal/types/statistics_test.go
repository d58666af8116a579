package types

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type StatisticsTestSuite struct {
	suite.Suite
	tempDir string
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) SetupTest() {
	tempDir, err := os.MkdirTemp("", "statistics_test")
	suite.NoError(err)
	suite.tempDir = tempDir
}

func (suite *StatisticsTestSuite) TearDownTest() {
	os.RemoveAll(suite.tempDir)
}

func statsRow(day int, instrumentID string, signal TradeSignal, pct optional.Option[float64], strength optional.Option[float64]) FeatureRow {
	row := FeatureRow{
		Observation: NewObservation(time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC), instrumentID, 1, 1, 1, 1, 1),
		TradeSignal: signal,
	}
	row.NavPriceSpreadPercent = pct
	row.SignalStrength = strength

	return row
}

func (suite *StatisticsTestSuite) TestComputeFeatureStats() {
	table := FeatureTable{
		statsRow(2, "TLT", TradeSignalHold, optional.None[float64](), optional.None[float64]()),
		statsRow(2, "IEF", TradeSignalSell, optional.Some(-0.8), optional.Some(4.0)),
		statsRow(3, "TLT", TradeSignalBuy, optional.Some(0.6), optional.Some(3.0)),
		statsRow(4, "TLT", TradeSignalBuy, optional.Some(1.0), optional.Some(5.0)),
	}

	stats := ComputeFeatureStats("run-1", table)
	suite.Require().Len(stats, 2)

	tlt := stats[0]
	suite.Equal("run-1", tlt.ID)
	suite.Equal("TLT", tlt.InstrumentID)
	suite.Equal(3, tlt.Rows)
	suite.Equal(SignalCounts{Buy: 2, Sell: 0, Hold: 1}, tlt.SignalCounts)
	suite.Equal(TradeSignalBuy, tlt.LastSignal)
	suite.Equal(4, tlt.LastDate.Day())
	suite.Require().NotNil(tlt.LastSignalStrength)
	suite.InDelta(5.0, *tlt.LastSignalStrength, 1e-12)
	suite.Require().NotNil(tlt.SpreadPercent)
	suite.InDelta(0.8, tlt.SpreadPercent.Mean, 1e-12)
	suite.InDelta(0.6, tlt.SpreadPercent.Min, 1e-12)
	suite.InDelta(1.0, tlt.SpreadPercent.Max, 1e-12)

	ief := stats[1]
	suite.Equal("IEF", ief.InstrumentID)
	suite.Equal(SignalCounts{Buy: 0, Sell: 1, Hold: 0}, ief.SignalCounts)
	suite.Equal(TradeSignalSell, ief.LastSignal)
}

func (suite *StatisticsTestSuite) TestComputeFeatureStatsUndefinedValues() {
	table := FeatureTable{
		statsRow(2, "TLT", TradeSignalHold, optional.None[float64](), optional.None[float64]()),
	}

	stats := ComputeFeatureStats("", table)
	suite.Require().Len(stats, 1)
	suite.NotEmpty(stats[0].ID)
	suite.Nil(stats[0].LastSignalStrength)
	suite.Nil(stats[0].SpreadPercent)
}

func (suite *StatisticsTestSuite) TestComputeFeatureStatsEmpty() {
	suite.Empty(ComputeFeatureStats("run", FeatureTable{}))
}

func (suite *StatisticsTestSuite) TestWriteAndReadFeatureStats() {
	strength := 2.5
	stats := []FeatureStats{
		{
			ID:                 "run-1",
			Timestamp:          time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			InstrumentID:       "TLT",
			Rows:               250,
			LastDate:           time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			LastSignal:         TradeSignalBuy,
			LastSignalStrength: &strength,
			SignalCounts:       SignalCounts{Buy: 20, Sell: 10, Hold: 220},
			SpreadPercent:      &SpreadSummary{Mean: 0.1, Min: -0.7, Max: 0.9},
			OutputPath:         "features.parquet",
		},
	}

	filePath := filepath.Join(suite.tempDir, "stats.yaml")
	suite.Require().NoError(WriteFeatureStats(filePath, stats))

	content, err := os.ReadFile(filePath)
	suite.Require().NoError(err)
	suite.Contains(string(content), "instrument_id: TLT")
	suite.Contains(string(content), "last_signal: Buy")

	readBack, err := ReadFeatureStats(filePath)
	suite.Require().NoError(err)
	suite.Require().Len(readBack, 1)
	suite.Equal(stats[0].InstrumentID, readBack[0].InstrumentID)
	suite.Equal(stats[0].SignalCounts, readBack[0].SignalCounts)
	suite.Equal(stats[0].LastSignal, readBack[0].LastSignal)
	suite.Require().NotNil(readBack[0].LastSignalStrength)
	suite.InDelta(2.5, *readBack[0].LastSignalStrength, 1e-12)
}

func (suite *StatisticsTestSuite) TestWriteFeatureStatsInvalidPath() {
	err := WriteFeatureStats(filepath.Join(suite.tempDir, "missing", "stats.yaml"), []FeatureStats{})
	suite.Error(err)
}

func (suite *StatisticsTestSuite) TestReadFeatureStatsMissingFile() {
	_, err := ReadFeatureStats(filepath.Join(suite.tempDir, "missing.yaml"))
	suite.Error(err)
}
