// Package tuner exposes the estimation pipeline behind a single engine:
// level measurement, noise gating, and YIN pitch estimation per frame.
//
// The engine is built for a UI polling loop: configuration setters never
// fail, they silently keep the previous value when given an invalid one,
// and the per-frame estimation path never returns an error. Absence of a
// pitch is a regular result, not a failure.
package tuner

import (
	"math"

	"github.com/cwbudde/algo-tuner/dsp/gate"
	"github.com/cwbudde/algo-tuner/dsp/level"
	"github.com/cwbudde/algo-tuner/dsp/yin"
)

// Default frequency range in Hz. It covers A0 down past the lowest piano
// string and C8 with headroom, independent of the selected mode.
const (
	DefaultMinFreq = 25.0
	DefaultMaxFreq = 4500.0
)

// Estimate is the outcome of analyzing one frame.
type Estimate struct {
	Pitch      float64 // fundamental frequency in Hz, 0 when unvoiced
	Confidence float64 // periodicity strength in [0, 1], 0 when unvoiced
	Voiced     bool    // true when a pitch was detected
	GateOpen   bool    // gate state after this frame
}

// Engine ties the pipeline together. One engine analyzes one audio
// stream; it keeps gate state and scratch memory across frames and is
// not safe for concurrent use.
type Engine struct {
	mode    Mode
	minFreq float64
	maxFreq float64
	gate    *gate.Gate
	est     *yin.Estimator
}

// Option configures an Engine at construction. Options carrying invalid
// values are ignored, matching the setter behavior.
type Option func(*Engine)

// WithMode selects the initial instrument profile.
func WithMode(m Mode) Option {
	return func(e *Engine) { e.SetMode(m) }
}

// WithFrequencyRange sets the initial detection range in Hz.
func WithFrequencyRange(minFreq, maxFreq float64) Option {
	return func(e *Engine) { e.SetFrequencyRange(minFreq, maxFreq) }
}

// WithNoiseThreshold overrides the profile's gate threshold.
func WithNoiseThreshold(threshold float64) Option {
	return func(e *Engine) { e.SetNoiseThreshold(threshold) }
}

// New creates an engine in chromatic mode with the default frequency
// range.
func New(opts ...Option) *Engine {
	g, _ := gate.New(Chromatic.NoiseThreshold())
	e := &Engine{
		mode:    Chromatic,
		minFreq: DefaultMinFreq,
		maxFreq: DefaultMaxFreq,
		gate:    g,
		est:     yin.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e
}

// EstimatePitch analyzes one frame and returns the detected fundamental
// in Hz. ok is false when the frame is silent, gated out, aperiodic, or
// too short to analyze.
func (e *Engine) EstimatePitch(samples []float64, sampleRate float64) (pitch float64, ok bool) {
	res := e.EstimatePitchWithConfidence(samples, sampleRate)
	return res.Pitch, res.Voiced
}

// EstimatePitchWithConfidence analyzes one frame. The gate is advanced
// exactly once per call, including on frames that produce no pitch, so
// callers must feed every frame of the stream in order.
func (e *Engine) EstimatePitchWithConfidence(samples []float64, sampleRate float64) Estimate {
	if len(samples) < yin.MinFrameLen || !(sampleRate > 0) {
		return Estimate{GateOpen: e.gate.IsOpen()}
	}

	lvl := level.Measure(samples)
	if !e.gate.Evaluate(lvl.RMS, lvl.Peak) {
		return Estimate{}
	}

	res := e.est.Estimate(samples, sampleRate, e.minFreq, e.maxFreq)
	if !res.Voiced {
		return Estimate{GateOpen: true}
	}

	e.gate.SetLastPitch(res.Pitch)

	return Estimate{
		Pitch:      res.Pitch,
		Confidence: res.Confidence,
		Voiced:     true,
		GateOpen:   true,
	}
}

// SetMode switches the instrument profile, applying its gate threshold
// and resetting the gate so the new profile starts from a clean state.
// The frequency range is independent of the mode and is left untouched.
// Unknown modes are ignored.
func (e *Engine) SetMode(m Mode) {
	if !m.valid() {
		return
	}

	e.mode = m
	_ = e.gate.SetThreshold(m.NoiseThreshold())
	e.gate.Reset()
}

// SetFrequencyRange replaces the detection range in Hz. Invalid ranges
// (non-positive, inverted, or non-finite bounds) leave the previous
// range in place.
func (e *Engine) SetFrequencyRange(minFreq, maxFreq float64) {
	if !(minFreq > 0 && minFreq < maxFreq) || math.IsInf(maxFreq, 1) {
		return
	}

	e.minFreq = minFreq
	e.maxFreq = maxFreq
}

// ResetFrequencyRange restores the default detection range.
func (e *Engine) ResetFrequencyRange() {
	e.minFreq = DefaultMinFreq
	e.maxFreq = DefaultMaxFreq
}

// SetNoiseThreshold overrides the gate threshold. Values outside (0, 1)
// are ignored. A later SetMode replaces the override with the profile
// threshold.
func (e *Engine) SetNoiseThreshold(threshold float64) {
	if !(threshold > 0 && threshold < 1) {
		return
	}

	_ = e.gate.SetThreshold(threshold)
}

// Mode returns the active instrument profile.
func (e *Engine) Mode() Mode { return e.mode }

// FrequencyRange returns the active detection range in Hz.
func (e *Engine) FrequencyRange() (minFreq, maxFreq float64) {
	return e.minFreq, e.maxFreq
}

// NoiseThreshold returns the active gate threshold.
func (e *Engine) NoiseThreshold() float64 { return e.gate.Threshold() }

// IsGateOpen reports whether the noise gate is currently open.
func (e *Engine) IsGateOpen() bool { return e.gate.IsOpen() }

// LastPitch returns the most recent detected pitch in Hz, or 0 when the
// gate has closed since.
func (e *Engine) LastPitch() float64 { return e.gate.LastPitch() }

// Reset restores the engine to its initial state: chromatic mode,
// default frequency range, closed gate, scratch memory released.
func (e *Engine) Reset() {
	e.est.Release()
	e.ResetFrequencyRange()
	e.SetMode(Chromatic)
}
