package yin

import (
	"math"

	"github.com/cwbudde/algo-tuner/dsp/buffer"
)

const (
	// DefaultThreshold is the CMND detection threshold. Values below it
	// mark a lag as a period candidate; smaller values demand stronger
	// periodicity.
	DefaultThreshold = 0.10

	// MinFrameLen is the shortest analyzable frame. Shorter frames leave
	// too few lags to resolve any period reliably.
	MinFrameLen = 64

	// minLag keeps the search away from the trivial self-similarity at
	// very small lags.
	minLag = 2
)

// Result is the outcome of one estimation: either a pitch with its
// confidence, or Voiced == false with both values zero.
type Result struct {
	Pitch      float64 // fundamental frequency in Hz, 0 when unvoiced
	Confidence float64 // periodicity strength in [0, 1], 0 when unvoiced
	Voiced     bool
}

// Estimator runs YIN over single frames. It owns a scratch buffer reused
// across calls, so one Estimator must not be shared between goroutines.
type Estimator struct {
	threshold float64
	scratch   *buffer.Buffer
}

// Option configures an Estimator at construction.
type Option func(*Estimator)

// WithThreshold overrides the CMND detection threshold.
// Values outside (0, 1) are ignored.
func WithThreshold(threshold float64) Option {
	return func(e *Estimator) {
		if threshold > 0 && threshold < 1 {
			e.threshold = threshold
		}
	}
}

// New creates an estimator with the default detection threshold.
func New(opts ...Option) *Estimator {
	e := &Estimator{
		threshold: DefaultThreshold,
		scratch:   buffer.New(0),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e
}

// Threshold returns the active CMND detection threshold.
func (e *Estimator) Threshold() float64 { return e.threshold }

// Estimate analyzes one frame and returns the detected fundamental.
// Frames shorter than MinFrameLen, non-positive rates, and inverted
// frequency ranges yield an unvoiced Result, as does input without a
// qualifying period or with a refined pitch outside [minFreq, maxFreq].
// The range check is authoritative: fractional refinement may push a
// found period slightly out of bounds, and such results are discarded.
func (e *Estimator) Estimate(samples []float64, sampleRate, minFreq, maxFreq float64) Result {
	if len(samples) < MinFrameLen || !(sampleRate > 0) || !(minFreq > 0) || !(maxFreq > minFreq) {
		return Result{}
	}

	half := len(samples) / 2
	cmnd := e.scratch.EnsureCapacity(half)
	difference(cmnd, samples, half)
	normalize(cmnd)

	lo, hi := lagBounds(sampleRate, minFreq, maxFreq, half)
	if lo >= hi {
		return Result{}
	}

	lag, value, found := firstDip(cmnd, lo, hi, e.threshold)
	if !found {
		return Result{}
	}

	pitch := sampleRate / refine(cmnd, lag)
	if pitch < minFreq || pitch > maxFreq {
		return Result{}
	}

	return Result{
		Pitch:      pitch,
		Confidence: 1 - value,
		Voiced:     true,
	}
}

// Release frees the scratch buffer. The estimator remains usable; the
// next call reallocates.
func (e *Estimator) Release() {
	e.scratch.Release()
}

// difference fills d[1:half] with the summed squared difference of the
// frame against itself delayed by each lag. d[0] is set by normalize.
func difference(d, samples []float64, half int) {
	for tau := 1; tau < half; tau++ {
		var sum float64
		for i := 0; i < half; i++ {
			delta := samples[i] - samples[i+tau]
			sum += delta * delta
		}
		d[tau] = sum
	}
}

// normalize converts the difference function to its cumulative mean
// normalized form in place. Lag zero maps to 1, as does a zero running
// sum, so threshold comparisons need no special cases.
func normalize(d []float64) {
	d[0] = 1

	var runningSum float64
	for tau := 1; tau < len(d); tau++ {
		runningSum += d[tau]
		if runningSum == 0 {
			d[tau] = 1
			continue
		}
		d[tau] *= float64(tau) / runningSum
	}
}

// lagBounds converts the frequency range to the candidate lag interval
// [lo, hi), clamped to the usable part of the buffer.
func lagBounds(sampleRate, minFreq, maxFreq float64, half int) (lo, hi int) {
	lo = int(sampleRate / maxFreq)
	if lo < minLag {
		lo = minLag
	}

	hi = int(sampleRate / minFreq)
	if hi > half {
		hi = half
	}

	return lo, hi
}

// firstDip returns the first lag in [lo, hi) whose normalized difference
// drops below the threshold, walked forward to the bottom of its dip.
func firstDip(d []float64, lo, hi int, threshold float64) (lag int, value float64, found bool) {
	for tau := lo; tau < hi; tau++ {
		if d[tau] >= threshold {
			continue
		}

		for tau+1 < hi && d[tau+1] < d[tau] {
			tau++
		}

		return tau, d[tau], true
	}

	return 0, 0, false
}

// refine applies parabolic interpolation around the chosen lag and
// returns a fractional lag. Edge lags and degenerate parabolas return the
// integer lag unchanged; the adjustment is clamped to one sample either
// way to prevent pathological extrapolation.
func refine(d []float64, tau int) float64 {
	if tau < 1 || tau+1 >= len(d) {
		return float64(tau)
	}

	s0 := d[tau-1]
	s1 := d[tau]
	s2 := d[tau+1]

	denom := 2 * (2*s1 - s2 - s0)
	if math.Abs(denom) < 1e-12 {
		return float64(tau)
	}

	adj := (s2 - s0) / denom
	if adj > 1 {
		adj = 1
	} else if adj < -1 {
		adj = -1
	}

	return float64(tau) + adj
}
