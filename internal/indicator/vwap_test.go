package indicator

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-features/internal/types"
	"github.com/stretchr/testify/suite"
)

type VWAPTestSuite struct {
	suite.Suite
}

func TestVWAPSuite(t *testing.T) {
	suite.Run(t, new(VWAPTestSuite))
}

func (suite *VWAPTestSuite) TestName() {
	suite.Equal(types.IndicatorTypeVWAP, NewVWAP().Name())
	suite.NoError(NewVWAP().Config())
	suite.Error(NewVWAP().Config(10))
}

func (suite *VWAPTestSuite) TestExpanding() {
	out := VolumeWeightedAveragePrice(SeriesOf(10, 20, 30), SeriesOf(1, 1, 2))

	suite.InDelta(10.0, out[0].Unwrap(), 1e-9)
	suite.InDelta(15.0, out[1].Unwrap(), 1e-9)
	suite.InDelta(22.5, out[2].Unwrap(), 1e-9)
}

func (suite *VWAPTestSuite) TestUndefinedRowsAreSkipped() {
	price := Series{optional.Some(10.0), optional.None[float64](), optional.Some(30.0)}
	volume := Series{optional.Some(1.0), optional.Some(5.0), optional.None[float64]()}

	out := VolumeWeightedAveragePrice(price, volume)
	suite.InDelta(10.0, out[0].Unwrap(), 1e-9)
	suite.True(out[1].IsNone())
	suite.True(out[2].IsNone())
}

func (suite *VWAPTestSuite) TestZeroCumulativeVolume() {
	out := VolumeWeightedAveragePrice(SeriesOf(10, 20, 30), SeriesOf(0, 0, 3))

	suite.True(out[0].IsNone())
	suite.True(out[1].IsNone())
	suite.InDelta(30.0, out[2].Unwrap(), 1e-9)
}

func (suite *VWAPTestSuite) TestWithinPriceRange() {
	prices := []float64{101.5, 99.2, 103.8, 100.1, 98.7, 102.3}
	volumes := []float64{1200, 800, 3000, 150, 2200, 900}

	out := VolumeWeightedAveragePrice(SeriesOf(prices...), SeriesOf(volumes...))

	low, high := prices[0], prices[0]
	for i, p := range prices {
		low = min(low, p)
		high = max(high, p)

		suite.GreaterOrEqual(out[i].Unwrap(), low)
		suite.LessOrEqual(out[i].Unwrap(), high)
	}
}

