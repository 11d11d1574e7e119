package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seaplan/internal/types"
)

func calmSample() types.WeatherSample {
	return types.NewWeatherSample(0, 0, 0, 0, 0)
}

func TestGroundSpeedCalmIsStillWaterSpeed(t *testing.T) {
	m := DefaultShipModel()
	for _, v := range []float64{1, 8, 10, 12, 14, 20} {
		assert.InDelta(t, v, m.GroundSpeed(v, calmSample(), 90), 1e-12,
			"calm weather at %.1f kn", v)
	}
}

func TestGroundSpeedZeroEngine(t *testing.T) {
	m := DefaultShipModel()
	assert.Zero(t, m.GroundSpeed(0, calmSample(), 0))
	assert.Zero(t, m.GroundSpeed(-3, calmSample(), 0))
}

func TestGroundSpeedMissingSampleDegenerates(t *testing.T) {
	m := DefaultShipModel()
	sog := m.GroundSpeed(12, types.MissingSample(), 45)
	assert.InDelta(t, 12, sog, 1e-12, "all-NaN sample must contribute no correction")
}

func TestGroundSpeedPartialNaN(t *testing.T) {
	m := DefaultShipModel()
	// NaN wind direction disables the wind term; the wave term still applies.
	w := types.NewWeatherSample(70, math.NaN(), 2.0, math.NaN(), math.NaN())
	sog := m.GroundSpeed(10, w, 0)
	expected := 10 * (1 - m.Table.WaveLossPerMeter*2.0)
	assert.InDelta(t, expected, sog, 1e-12)
}

func TestGroundSpeedHeadWindSlows(t *testing.T) {
	m := DefaultShipModel()
	// Wind from 90 deg against an eastward leg: head-on, full loss factor.
	head := types.NewWeatherSample(70, 90, 0, 0, 0)
	require.Equal(t, 8, head.Beaufort)

	sog := m.GroundSpeed(14, head, 90)
	assert.Less(t, sog, 14.0)
	assert.Greater(t, sog, 0.0)
}

func TestGroundSpeedFollowingWindAssists(t *testing.T) {
	m := DefaultShipModel()
	// Wind from 270 deg on an eastward leg is dead astern.
	tail := types.NewWeatherSample(70, 270, 0, 0, 0)
	sog := m.GroundSpeed(14, tail, 90)
	assert.Greater(t, sog, 14.0, "running before the weather gives a slight assist")
}

func TestGroundSpeedDirectionOrdering(t *testing.T) {
	m := DefaultShipModel()
	wind := func(fromDeg float64) float64 {
		return m.GroundSpeed(14, types.NewWeatherSample(70, fromDeg, 0, 0, 0), 0)
	}
	head := wind(0)
	beam := wind(90)
	quarter := wind(130)
	astern := wind(180)
	assert.Less(t, head, beam)
	assert.Less(t, beam, quarter)
	assert.Less(t, quarter, astern)
}

func TestGroundSpeedCurrentProjection(t *testing.T) {
	m := DefaultShipModel()
	currentKmh := 3.704 // 2 kn

	following := types.NewWeatherSample(0, 0, 0, currentKmh, 90)
	assert.InDelta(t, 12, m.GroundSpeed(10, following, 90), 1e-9)

	opposing := types.NewWeatherSample(0, 0, 0, currentKmh, 270)
	assert.InDelta(t, 8, m.GroundSpeed(10, opposing, 90), 1e-9)

	cross := types.NewWeatherSample(0, 0, 0, currentKmh, 0)
	assert.InDelta(t, 10, m.GroundSpeed(10, cross, 90), 1e-9)
}

func TestGroundSpeedNeverNegative(t *testing.T) {
	m := DefaultShipModel()
	// Strong opposing current overwhelming a slow engine speed.
	w := types.NewWeatherSample(120, 0, 9, 20, 180)
	assert.GreaterOrEqual(t, m.GroundSpeed(0.5, w, 0), 0.0)
}

func TestGroundSpeedLossCap(t *testing.T) {
	m := DefaultShipModel()
	m.Table.WaveLossPerMeter = 0.1
	// 15 m of wave loss alone would exceed the cap.
	w := types.NewWeatherSample(120, 0, 15, 0, 0)
	sog := m.GroundSpeed(10, w, 0)
	assert.InDelta(t, 10*(1-maxLossFraction), sog, 1e-9)
}

// TestGroundSpeedBeaufortOutOfRange: samples that bypass NewWeatherSample can
// carry a Beaufort number outside 0..12. The lookup clamps instead of
// panicking; forces beyond the scale behave like force 12 and negative forces
// like force 0.
func TestGroundSpeedBeaufortOutOfRange(t *testing.T) {
	m := DefaultShipModel()

	high := types.WeatherSample{WindSpeedKmh: 300, WindDirDeg: 0, Beaufort: 99}
	force12 := types.WeatherSample{WindSpeedKmh: 300, WindDirDeg: 0, Beaufort: 12}
	assert.InDelta(t, m.GroundSpeed(14, force12, 0), m.GroundSpeed(14, high, 0), 1e-12)

	low := types.WeatherSample{WindSpeedKmh: 5, WindDirDeg: 0, Beaufort: -3}
	assert.InDelta(t, 14, m.GroundSpeed(14, low, 0), 1e-12, "force 0 carries no wind loss")
}

// TestGroundSpeedMonotone verifies the property the bisection inverse relies
// on: for fixed weather, ground speed is strictly increasing in engine speed.
func TestGroundSpeedMonotone(t *testing.T) {
	m := DefaultShipModel()
	samples := []types.WeatherSample{
		calmSample(),
		types.NewWeatherSample(70, 90, 2, 3, 270),
		types.NewWeatherSample(120, 0, 5, 0, 0),
		types.MissingSample(),
		types.NewWeatherSample(30, math.NaN(), math.NaN(), 5, 180),
	}
	for _, w := range samples {
		for _, bearing := range []float64{0, 90, 215} {
			prev := m.GroundSpeed(8, w, bearing)
			for v := 8.25; v <= 16; v += 0.25 {
				cur := m.GroundSpeed(v, w, bearing)
				require.Greater(t, cur, prev,
					"ground speed not increasing at %.2f kn (beaufort %d, bearing %.0f)",
					v, w.Beaufort, bearing)
				prev = cur
			}
		}
	}
}

func TestFuelRateIncreasingAndConvex(t *testing.T) {
	m := DefaultShipModel()

	const step = 0.5
	prev := m.FuelRate(8)
	prevDiff := math.Inf(-1)
	for v := 8.5; v <= 16; v += step {
		cur := m.FuelRate(v)
		require.Greater(t, cur, prev, "fuel rate not increasing at %.1f kn", v)
		diff := cur - prev
		require.Greater(t, diff, prevDiff, "fuel rate not convex at %.1f kn", v)
		prev, prevDiff = cur, diff
	}
}

func TestFuelRateZeroBelowZero(t *testing.T) {
	m := DefaultShipModel()
	assert.Zero(t, m.FuelRate(0))
	assert.Zero(t, m.FuelRate(-1))
}

func TestFroudeFactorInterpolation(t *testing.T) {
	m := DefaultShipModel()
	// 14 kn on a 180 m waterline sits between the 0.15 and 0.20 breakpoints.
	fn := m.FroudeNumber()
	require.Greater(t, fn, 0.15)
	require.Less(t, fn, 0.20)
	f := m.froudeFactor()
	assert.Greater(t, f, 0.85)
	assert.Less(t, f, 1.0)

	// Below the first breakpoint the factor clamps.
	slow := m
	slow.DesignSpeedKn = 5
	assert.Equal(t, 0.70, slow.froudeFactor())

	// Empty table degenerates to a unit factor.
	bare := m
	bare.Table.FroudeBreaks = nil
	bare.Table.FroudeFactors = nil
	assert.Equal(t, 1.0, bare.froudeFactor())
}
