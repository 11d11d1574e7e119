package weather

import (
	"math"

	"seaplan/internal/types"
)

func nan() float64 { return math.NaN() }

// ExtensionPolicy decides how a forecast is extended past its modeled
// horizon. It is a configuration-level object so alternatives (e.g. a
// climatological fallback) can be substituted without touching the optimizer.
type ExtensionPolicy interface {
	Name() string
	// Extend produces the sample for target hour given the last modeled
	// sample and the hour it was modeled for.
	Extend(last types.WeatherSample, lastHour, target int) types.WeatherSample
}

// PersistPolicy holds the last modeled sample constant into the unmodeled
// future. This is the default convention.
type PersistPolicy struct{}

func (PersistPolicy) Name() string { return "persist" }

func (PersistPolicy) Extend(last types.WeatherSample, _, _ int) types.WeatherSample {
	return last
}
