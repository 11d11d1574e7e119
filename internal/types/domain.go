// Package types defines the shared value objects of the voyage planning
// engine: route geometry, weather samples, speed schedules, and the results
// emitted by the optimizer, the rolling-horizon controller, and the
// execution simulator.
//
// All entities here are value objects: produced by one stage and consumed
// read-only by the next. Nothing in this package is mutated after
// construction.
package types

import "math"

// KmhPerKnot converts between the weather store's km/h fields and the
// knot-denominated speeds used everywhere else in the engine.
const KmhPerKnot = 1.852

// SpatialNode is one point along the route. Index is 0-based in route order;
// CumulativeNm is the great-circle distance from the start of the voyage.
// IsOriginal marks nodes that were waypoints in the source route rather than
// interpolated sampling points.
type SpatialNode struct {
	Index        int     `json:"index"`
	Name         string  `json:"name,omitempty"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	CumulativeNm float64 `json:"cumulative_nm"`
	IsOriginal   bool    `json:"is_original_waypoint"`
}

// Leg connects node Index to node Index+1. Legs are derived from the node
// sequence, never stored independently.
type Leg struct {
	Index      int     `json:"index"`
	DistanceNm float64 `json:"distance_nm"`
	BearingDeg float64 `json:"bearing_deg"`
}

// WeatherSample holds the environmental conditions at one node and hour.
// Any field may be NaN for coastal or out-of-coverage nodes; consumers must
// tolerate NaN without crashing. Beaufort is always derived from WindSpeedKmh
// via BeaufortFromWindKmh, never sourced externally.
type WeatherSample struct {
	WindSpeedKmh  float64 `json:"wind_speed_kmh"`
	WindDirDeg    float64 `json:"wind_dir_deg"` // direction the wind blows from, deg from North
	Beaufort      int     `json:"beaufort"`
	WaveHeightM   float64 `json:"wave_height_m"`
	CurrentKmh    float64 `json:"current_kmh"`
	CurrentDirDeg float64 `json:"current_dir_deg"` // direction the current flows toward
}

// beaufortUpperKmh holds the upper wind-speed bound (km/h, inclusive) for
// Beaufort numbers 0 through 11. Anything above the last bound is force 12.
var beaufortUpperKmh = [12]float64{1, 5, 11, 19, 28, 38, 49, 61, 74, 88, 102, 117}

// BeaufortFromWindKmh maps a wind speed in km/h onto the Beaufort scale
// (0-12). NaN wind speed maps to 0; callers detect the gap via HasNaN.
func BeaufortFromWindKmh(kmh float64) int {
	if math.IsNaN(kmh) || kmh < 0 {
		return 0
	}
	for b, upper := range beaufortUpperKmh {
		if kmh <= upper {
			return b
		}
	}
	return 12
}

// NewWeatherSample builds a WeatherSample with the Beaufort number derived
// from the wind speed.
func NewWeatherSample(windKmh, windDirDeg, waveM, currentKmh, currentDirDeg float64) WeatherSample {
	return WeatherSample{
		WindSpeedKmh:  windKmh,
		WindDirDeg:    windDirDeg,
		Beaufort:      BeaufortFromWindKmh(windKmh),
		WaveHeightM:   waveM,
		CurrentKmh:    currentKmh,
		CurrentDirDeg: currentDirDeg,
	}
}

// MissingSample returns a fully NaN-valued sample, the documented convention
// for nodes outside weather coverage.
func MissingSample() WeatherSample {
	nan := math.NaN()
	return WeatherSample{
		WindSpeedKmh:  nan,
		WindDirDeg:    nan,
		Beaufort:      0,
		WaveHeightM:   nan,
		CurrentKmh:    nan,
		CurrentDirDeg: nan,
	}
}

// HasNaN reports whether any scalar field of the sample is NaN.
func (w WeatherSample) HasNaN() bool {
	return math.IsNaN(w.WindSpeedKmh) ||
		math.IsNaN(w.WindDirDeg) ||
		math.IsNaN(w.WaveHeightM) ||
		math.IsNaN(w.CurrentKmh) ||
		math.IsNaN(w.CurrentDirDeg)
}

// AllNaN reports whether every scalar field of the sample is NaN, i.e. the
// node carries no usable weather information at all.
func (w WeatherSample) AllNaN() bool {
	return math.IsNaN(w.WindSpeedKmh) &&
		math.IsNaN(w.WindDirDeg) &&
		math.IsNaN(w.WaveHeightM) &&
		math.IsNaN(w.CurrentKmh) &&
		math.IsNaN(w.CurrentDirDeg)
}
