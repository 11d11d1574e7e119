// Package physics implements the ship performance model: the mapping from
// engine speed and weather to achieved ground speed, the fuel consumption
// curve, the numeric inverse (ground-speed target to required engine speed),
// and the great-circle geometry helpers shared with route construction.
//
// The weather corrections follow the usual empirical shape: a fractional
// speed loss indexed by Beaufort number, scaled by a relative-wind direction
// factor and a Froude-number factor, plus a wave-height loss and a current
// set/drift term projected onto the leg heading. The coefficient tables are
// a pluggable parameter of the model, not hardcoded constants.
package physics

import (
	"math"

	"seaplan/internal/types"
)

const (
	msPerKnot = 0.514444
	gravity   = 9.80665
)

// CoefficientTable holds the empirical correction coefficients consumed by
// GroundSpeed. BeaufortLoss[b] is the fractional still-water speed loss in
// head weather at Beaufort force b before direction and Froude scaling.
// FroudeFactor is a piecewise-linear table over Froude number; between and
// beyond the listed breakpoints the factor is interpolated and clamped.
type CoefficientTable struct {
	BeaufortLoss     [13]float64
	WaveLossPerMeter float64
	FroudeBreaks     []float64
	FroudeFactors    []float64
}

// DefaultCoefficients returns the reference coefficient table. The Beaufort
// losses grow roughly quadratically with force, reaching half the still-water
// speed at force 12 in head weather.
func DefaultCoefficients() CoefficientTable {
	return CoefficientTable{
		BeaufortLoss: [13]float64{
			0, 0.002, 0.006, 0.014, 0.028, 0.050,
			0.085, 0.135, 0.195, 0.265, 0.340, 0.420, 0.500,
		},
		WaveLossPerMeter: 0.018,
		FroudeBreaks:     []float64{0.10, 0.15, 0.20, 0.25, 0.30},
		FroudeFactors:    []float64{0.70, 0.85, 1.00, 1.15, 1.30},
	}
}

// maxLossFraction caps the combined fractional speed loss so the achieved
// water speed never collapses to zero while the engine is turning.
const maxLossFraction = 0.85

// ShipModel is the black-box performance model of one vessel. It is a value
// object; all methods are pure.
type ShipModel struct {
	Table         CoefficientTable
	DesignSpeedKn float64 // service speed used to fix the Froude factor
	WaterlineM    float64 // waterline length, metres
	FuelCoeffT    float64 // fuel rate at 1 kn, tonnes/hour
	FuelExponent  float64 // super-linear exponent, empirically near-cubic
}

// DefaultShipModel returns the reference vessel calibration: a mid-size
// cargo vessel with a 14 kn service speed and a cubic fuel curve.
func DefaultShipModel() ShipModel {
	return ShipModel{
		Table:         DefaultCoefficients(),
		DesignSpeedKn: 14,
		WaterlineM:    180,
		FuelCoeffT:    0.00055,
		FuelExponent:  3.0,
	}
}

// FroudeNumber returns the Froude number at the ship's design speed.
func (m ShipModel) FroudeNumber() float64 {
	if m.WaterlineM <= 0 {
		return 0
	}
	return m.DesignSpeedKn * msPerKnot / math.Sqrt(gravity*m.WaterlineM)
}

// froudeFactor interpolates the Froude coefficient table at the design-speed
// Froude number. Evaluating the factor at the fixed design speed, rather than
// at the instantaneous engine speed, keeps GroundSpeed strictly monotone in
// engine speed, which the bisection inverse depends on.
func (m ShipModel) froudeFactor() float64 {
	breaks, factors := m.Table.FroudeBreaks, m.Table.FroudeFactors
	if len(breaks) == 0 || len(breaks) != len(factors) {
		return 1
	}
	fn := m.FroudeNumber()
	if fn <= breaks[0] {
		return factors[0]
	}
	for i := 1; i < len(breaks); i++ {
		if fn <= breaks[i] {
			t := (fn - breaks[i-1]) / (breaks[i] - breaks[i-1])
			return factors[i-1] + t*(factors[i]-factors[i-1])
		}
	}
	return factors[len(factors)-1]
}

// directionFactor scales the head-weather loss by the wind direction relative
// to the ship heading: full loss head-on, roughly a third of it on the beam,
// and a slight assist running before the weather.
func directionFactor(relDeg float64) float64 {
	rel := math.Abs(math.Mod(relDeg, 360))
	if rel > 180 {
		rel = 360 - rel
	}
	switch {
	case rel <= 45:
		return 1.0
	case rel <= 90:
		return 0.7
	case rel <= 135:
		return 0.35
	default:
		return -0.1
	}
}

// GroundSpeed returns the speed over ground (knots) achieved at the given
// engine speed under the given weather on a leg with the given bearing.
// NaN weather fields contribute no correction; a fully missing sample
// degenerates to the still-water speed. The result is monotonically
// non-decreasing in engineKn for fixed weather and never negative.
func (m ShipModel) GroundSpeed(engineKn float64, w types.WeatherSample, bearingDeg float64) float64 {
	if engineKn <= 0 {
		return 0
	}

	loss := 0.0
	if !math.IsNaN(w.WindSpeedKmh) && !math.IsNaN(w.WindDirDeg) {
		// Samples built through NewWeatherSample always carry a force in
		// 0..12, but hand-built or decoded ones may not.
		b := w.Beaufort
		if b < 0 {
			b = 0
		} else if b > 12 {
			b = 12
		}
		// Wind blows from WindDirDeg; relative angle 0 means head wind.
		rel := w.WindDirDeg - bearingDeg
		loss += m.Table.BeaufortLoss[b] * directionFactor(rel) * m.froudeFactor()
	}
	if !math.IsNaN(w.WaveHeightM) && w.WaveHeightM > 0 {
		loss += m.Table.WaveLossPerMeter * w.WaveHeightM
	}
	if loss > maxLossFraction {
		loss = maxLossFraction
	}
	if loss < -maxLossFraction {
		loss = -maxLossFraction
	}

	water := engineKn * (1 - loss)

	drift := 0.0
	if !math.IsNaN(w.CurrentKmh) && !math.IsNaN(w.CurrentDirDeg) {
		// Current flows toward CurrentDirDeg; the along-track component
		// assists when aligned with the bearing.
		rel := (w.CurrentDirDeg - bearingDeg) * math.Pi / 180
		drift = w.CurrentKmh / types.KmhPerKnot * math.Cos(rel)
	}

	sog := water + drift
	if sog < 0 {
		return 0
	}
	return sog
}

// FuelRate returns the fuel consumption rate (tonnes/hour) at the given
// engine speed. The curve k*v^p with p in [2.7, 3.3] is strictly increasing
// and strictly convex over the admissible range; convexity is load-bearing
// for the optimizer (per-leg planning beats segment-averaged planning by
// Jensen's inequality) and must not be weakened by recalibration.
func (m ShipModel) FuelRate(engineKn float64) float64 {
	if engineKn <= 0 {
		return 0
	}
	return m.FuelCoeffT * math.Pow(engineKn, m.FuelExponent)
}
