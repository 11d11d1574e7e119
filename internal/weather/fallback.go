package weather

import (
	"errors"

	"seaplan/internal/types"
)

// Fallback wraps a Source so that missing or fully NaN samples are replaced
// by the last usable sample seen, counting each substitution as a gap. The
// voyage visits nodes in order, so the last usable sample is the natural
// stand-in for a coastal hole or an out-of-coverage hour. Samples with only
// some NaN fields pass through untouched; the physics model special-cases
// individual NaN fields itself.
//
// Fallback is not safe for concurrent use; each optimizer or simulator run
// wraps its own instance.
type Fallback struct {
	src  Source
	last types.WeatherSample
	seen bool
	gaps int
}

// NewFallback wraps src. Until the first usable sample arrives, gaps resolve
// to the fully-NaN missing sample.
func NewFallback(src Source) *Fallback {
	return &Fallback{src: src}
}

// Sample queries the wrapped source, substituting the last usable sample on
// MissingData or an all-NaN result. It never returns an error for gaps;
// boundary violations (InvalidTimeKey) still propagate.
func (f *Fallback) Sample(node, hour int) (types.WeatherSample, error) {
	sample, err := f.src.Sample(node, hour)
	if err != nil {
		var appErr *types.AppError
		if !errors.As(err, &appErr) || appErr.Code != types.ErrCodeMissingData {
			return types.WeatherSample{}, err
		}
		f.gaps++
		return f.lastOrMissing(), nil
	}
	if sample.AllNaN() {
		f.gaps++
		return f.lastOrMissing(), nil
	}
	f.last = sample
	f.seen = true
	return sample, nil
}

func (f *Fallback) lastOrMissing() types.WeatherSample {
	if f.seen {
		return f.last
	}
	return types.MissingSample()
}

// Gaps returns the number of substituted samples so far.
func (f *Fallback) Gaps() int { return f.gaps }
