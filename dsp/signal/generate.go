// Package signal generates deterministic test and calibration signals:
// sines, harmonic tones, and seeded white noise.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-vecmath"
)

// DefaultSampleRate is used when no rate option is given.
const DefaultSampleRate = 44100.0

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	sampleRate float64
	seed       int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSampleRate sets the sample rate in Hz. Non-positive rates are ignored.
func WithSampleRate(rate float64) Option {
	return func(g *Generator) {
		if rate > 0 {
			g.sampleRate = rate
		}
	}
}

// WithSeed sets the deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		sampleRate: DefaultSampleRate,
		seed:       1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// SampleRate returns the generator sample rate in Hz.
func (g *Generator) SampleRate() float64 {
	return g.sampleRate
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if freqHz <= 0 {
		return nil, fmt.Errorf("sine frequency must be > 0: %f", freqHz)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// Harmonic generates a tone with the given fundamental plus overtones.
// partials holds the relative amplitude of each overtone starting at the
// 2nd harmonic; the fundamental has relative amplitude 1. The result is
// normalized so its peak equals amplitude.
func (g *Generator) Harmonic(freqHz, amplitude float64, samples int, partials ...float64) ([]float64, error) {
	out, err := g.Sine(freqHz, 1, samples)
	if err != nil {
		return nil, err
	}

	scratch := make([]float64, samples)
	for i, rel := range partials {
		overtone, err := g.Sine(freqHz*float64(i+2), 1, samples)
		if err != nil {
			return nil, err
		}
		vecmath.ScaleBlock(scratch, overtone, rel)
		vecmath.AddBlockInPlace(out, scratch)
	}

	return Normalize(out, amplitude)
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	vecmath.ScaleBlock(out, data, targetPeak/maxAbs)
	return out, nil
}
