package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-features/internal/types"
)

// DataGenerator generates realistic ETF observations for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how observations are generated.
type GeneratorConfig struct {
	// InstrumentID is the instrument identifier (e.g., "TLT", "IEF")
	InstrumentID string
	// StartTime is the beginning of the data series
	StartTime time.Time
	// Interval is the duration between each observation
	Interval time.Duration
	// Count is the number of observations to generate
	Count int
	// InitialPrice is the starting mid price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// Trend is the drift factor (-0.01 to 0.01 for bearish to bullish)
	Trend float64
	// HalfSpread is half the bid/ask spread as a fraction of the mid price
	HalfSpread float64
	// NavDislocation is the standard deviation of the NAV premium/discount as a fraction of price
	NavDislocation float64
	// VolumeBase is the average volume per observation
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		InstrumentID:   "TLT",
		StartTime:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Interval:       24 * time.Hour,
		Count:          250,
		InitialPrice:   100.0,
		Volatility:     0.01,   // 1% per day
		Trend:          0.0,    // neutral
		HalfSpread:     0.0005, // 5 bps each side
		NavDislocation: 0.004,  // 40 bps
		VolumeBase:     1_000_000,
		VolumeVariance: 0.3,
	}
}

// Generate creates observations based on the configuration.
// Mid prices follow a geometric Brownian motion; NAV is the mid price shifted by a normally
// distributed dislocation.
func (g *DataGenerator) Generate(config GeneratorConfig) types.ObservationTable {
	data := make(types.ObservationTable, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		// Using Box-Muller transform for normal distribution
		z := g.normal()

		drift := config.Trend / float64(config.Count) // Distribute trend across observations

		mid := currentPrice * (1 + config.Volatility*z + drift)
		if mid <= 0 {
			mid = currentPrice * 0.99 // Prevent negative prices
		}

		nav := mid * (1 + config.NavDislocation*g.normal())
		navHalfSpread := nav * config.HalfSpread * 0.1
		halfSpread := mid * config.HalfSpread

		// Volume with variance
		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance

		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		data[i] = types.NewObservation(
			currentTime,
			config.InstrumentID,
			roundToDecimals(mid-halfSpread, 4),
			roundToDecimals(mid+halfSpread, 4),
			roundToDecimals(nav-navHalfSpread, 4),
			roundToDecimals(nav+navHalfSpread, 4),
			math.Round(volume),
		)

		currentPrice = mid
		currentTime = currentTime.Add(config.Interval)
	}

	return data
}

// GenerateMultiInstrument generates data for multiple instruments, one block per instrument.
func (g *DataGenerator) GenerateMultiInstrument(instruments []string, baseConfig GeneratorConfig) types.ObservationTable {
	var allData types.ObservationTable

	for _, instrument := range instruments {
		config := baseConfig
		config.InstrumentID = instrument
		// Vary initial price and volatility slightly per instrument
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		allData = append(allData, g.Generate(config)...)
	}

	return allData
}

// Interleave orders a multi-instrument table by date, the way a daily panel usually arrives.
// Rows of one instrument keep their relative order.
func Interleave(table types.ObservationTable) types.ObservationTable {
	byInstrument := make(map[string]types.ObservationTable)
	order := table.Instruments()

	for _, o := range table {
		byInstrument[o.InstrumentID] = append(byInstrument[o.InstrumentID], o)
	}

	out := make(types.ObservationTable, 0, len(table))

	for i := 0; len(out) < len(table); i++ {
		for _, instrument := range order {
			if i < len(byInstrument[instrument]) {
				out = append(out, byInstrument[instrument][i])
			}
		}
	}

	return out
}

// GenerateTLTAndIEF is a convenience function generating an interleaved two-ETF panel
// with default settings.
func GenerateTLTAndIEF(count int) types.ObservationTable {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Count = count

	return Interleave(gen.GenerateMultiInstrument([]string{"TLT", "IEF"}, config))
}

func (g *DataGenerator) normal() float64 {
	u1 := g.rng.Float64()
	u2 := g.rng.Float64()

	// avoid log(0)
	if u1 == 0 {
		u1 = math.SmallestNonzeroFloat64
	}

	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// roundToDecimals rounds a float to the specified number of decimal places.
func roundToDecimals(value float64, decimals int) float64 {
	multiplier := math.Pow(10, float64(decimals))

	return math.Round(value*multiplier) / multiplier
}
