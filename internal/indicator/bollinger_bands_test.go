package indicator

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/rxtech-lab/argo-features/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type BollingerBandsTestSuite struct {
	suite.Suite
}

func TestBollingerBandsSuite(t *testing.T) {
	suite.Run(t, new(BollingerBandsTestSuite))
}

func (suite *BollingerBandsTestSuite) TestNewBollingerBands() {
	bb := NewBollingerBands()
	suite.NotNil(bb)

	bbImpl := bb.(*BollingerBands)
	suite.Equal(30, bbImpl.period)
	suite.Equal(2.0, bbImpl.stdDev)
	suite.Equal(types.IndicatorTypeBollingerBands, bb.Name())
}

func (suite *BollingerBandsTestSuite) TestConfigValid() {
	bb := NewBollingerBands()
	bbImpl := bb.(*BollingerBands)

	suite.NoError(bb.Config(20, 1.5))
	suite.Equal(20, bbImpl.period)
	suite.Equal(1.5, bbImpl.stdDev)
}

func (suite *BollingerBandsTestSuite) TestConfigInvalid() {
	bb := NewBollingerBands()

	err := bb.Config(20)
	suite.Error(err)
	suite.Contains(err.Error(), "expects 2 parameters")

	err = bb.Config(1, 2.0)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))

	err = bb.Config(20, "2")
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidType))

	err = bb.Config(20, 0.0)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidStdDevMultiplier))
}

func (suite *BollingerBandsTestSuite) TestSampleStandardDeviation() {
	prices := SeriesOf(linearPrices(1, 30)...)
	upper, lower := BollingerBandSeries(prices, SimpleMovingAverage(prices, 30), 30, 2.0)

	// sample variance of 1..n is n(n+1)/12
	std := math.Sqrt(30.0 * 31.0 / 12.0)

	suite.True(upper[28].IsNone())
	suite.True(lower[28].IsNone())
	suite.InDelta(15.5+2*std, upper[29].Unwrap(), 1e-9)
	suite.InDelta(15.5-2*std, lower[29].Unwrap(), 1e-9)
}

func (suite *BollingerBandsTestSuite) TestConstantSeriesCollapses() {
	prices := SeriesOf(5, 5, 5)
	upper, lower := BollingerBandSeries(prices, SimpleMovingAverage(prices, 2), 2, 2.0)

	suite.InDelta(5.0, upper[2].Unwrap(), 1e-12)
	suite.InDelta(5.0, lower[2].Unwrap(), 1e-12)
}

func (suite *BollingerBandsTestSuite) TestUpperAboveLower() {
	prices := SeriesOf(101, 99, 104, 98, 103, 97, 105, 100, 102, 96)
	upper, lower := BollingerBandSeries(prices, SimpleMovingAverage(prices, 4), 4, 2.0)

	for i := range prices {
		if upper[i].IsNone() {
			continue
		}

		suite.Greater(upper[i].Unwrap(), lower[i].Unwrap())
	}
}

func (suite *BollingerBandsTestSuite) TestBandsCenterOnLongSMA() {
	prices := linearPrices(100, 12)
	frame := newTestFrame(prices, 0)
	ctx := IndicatorContext{Frame: frame}

	ma := NewMA()
	suite.Require().NoError(ma.Config(2, 6))

	bb := NewBollingerBands()
	suite.Require().NoError(bb.Config(4, 2.0))

	suite.Require().NoError(NewMidPrice().Compute(ctx))
	suite.Require().NoError(ma.Compute(ctx))
	suite.Require().NoError(bb.Compute(ctx))

	sma, err := frame.Column(types.ColumnSMALong)
	suite.Require().NoError(err)
	upper, err := frame.Column(types.ColumnBBandHigh)
	suite.Require().NoError(err)
	lower, err := frame.Column(types.ColumnBBandLow)
	suite.Require().NoError(err)

	// the std window is ready at row 3 but the long SMA only at row 5
	suite.True(upper[4].IsNone())
	suite.True(lower[4].IsNone())

	for i := 5; i < len(prices); i++ {
		suite.InDelta(sma[i].Unwrap(), (upper[i].Unwrap()+lower[i].Unwrap())/2, 1e-9)
	}
}

func (suite *BollingerBandsTestSuite) TestComputeRequiresLongSMA() {
	frame := newTestFrame(linearPrices(100, 31), 0)
	suite.Require().NoError(NewMidPrice().Compute(IndicatorContext{Frame: frame}))

	err := NewBollingerBands().Compute(IndicatorContext{Frame: frame})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeIndicatorCalculation))
}

func (suite *BollingerBandsTestSuite) TestComputeWritesBothBands() {
	frame := newTestFrame(linearPrices(100, 31), 0)
	suite.Require().NoError(NewMidPrice().Compute(IndicatorContext{Frame: frame}))
	suite.Require().NoError(NewMA().Compute(IndicatorContext{Frame: frame}))
	suite.Require().NoError(NewBollingerBands().Compute(IndicatorContext{Frame: frame}))

	upper, err := frame.Column(types.ColumnBBandHigh)
	suite.Require().NoError(err)
	lower, err := frame.Column(types.ColumnBBandLow)
	suite.Require().NoError(err)

	suite.Equal(2, upper.Defined())
	suite.Equal(2, lower.Defined())
}
