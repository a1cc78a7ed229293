// Package gate implements a frame-level noise gate. Unlike a per-sample
// dynamics gate it makes one open/closed decision per analysis frame,
// with hysteresis so the decision does not flicker around the threshold.
package gate

import "fmt"

// State identifies the gate position.
type State int

const (
	// Closed suppresses estimation; frames are treated as silence or noise.
	Closed State = iota
	// Open passes frames through to the estimator.
	Open
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	default:
		return "unknown"
	}
}

const (
	// attackFrames is the number of consecutive qualifying frames required
	// to open the gate.
	attackFrames = 2
	// releaseFrames is the number of consecutive non-qualifying frames
	// required to close it again.
	releaseFrames = 5
	// peakFactor guards against DC offset masquerading as signal: a frame
	// qualifies only when its peak also clears this multiple of the
	// threshold.
	peakFactor = 2.0
)

// Gate classifies audio frames as signal or silence. It is evaluated once
// per frame with the frame's RMS and peak measurements, and remembers the
// last valid pitch so downstream consumers can invalidate stale readings
// when the gate closes.
//
// A Gate lives for the lifetime of its engine. It is not safe for
// concurrent use.
type Gate struct {
	threshold    float64
	state        State
	attackCount  int
	releaseCount int
	lastPitch    float64
}

// New creates a closed gate with the given RMS threshold.
// The threshold must lie in (0, 1).
func New(threshold float64) (*Gate, error) {
	if !(threshold > 0 && threshold < 1) {
		return nil, fmt.Errorf("gate threshold must be in (0, 1): %f", threshold)
	}

	return &Gate{threshold: threshold}, nil
}

// Evaluate feeds one frame's measurements through the state machine and
// reports whether the gate is open for that frame. A frame is present iff
// rms exceeds the threshold and peak exceeds twice the threshold; state
// transitions apply to the evaluated frame itself, so the second
// consecutive present frame is already reported open.
func (g *Gate) Evaluate(rms, peak float64) bool {
	if rms > g.threshold && peak > peakFactor*g.threshold {
		g.attackCount++
		g.releaseCount = 0

		if g.state == Closed && g.attackCount >= attackFrames {
			g.state = Open
		}
	} else {
		g.releaseCount++
		g.attackCount = 0

		if g.state == Open && g.releaseCount >= releaseFrames {
			g.state = Closed
			g.lastPitch = 0
		}
	}

	return g.state == Open
}

// IsOpen reports whether the gate is currently open.
func (g *Gate) IsOpen() bool { return g.state == Open }

// SetThreshold replaces the RMS threshold. The new value must lie in
// (0, 1); counters and state are kept.
func (g *Gate) SetThreshold(threshold float64) error {
	if !(threshold > 0 && threshold < 1) {
		return fmt.Errorf("gate threshold must be in (0, 1): %f", threshold)
	}

	g.threshold = threshold

	return nil
}

// Threshold returns the current RMS threshold.
func (g *Gate) Threshold() float64 { return g.threshold }

// Reset closes the gate and clears counters and pitch memory.
// The threshold is kept.
func (g *Gate) Reset() {
	g.state = Closed
	g.attackCount = 0
	g.releaseCount = 0
	g.lastPitch = 0
}

// SetLastPitch records the most recent valid pitch in Hz. The memory is
// cleared when the gate closes or resets.
func (g *Gate) SetLastPitch(freq float64) {
	g.lastPitch = freq
}

// LastPitch returns the most recent valid pitch, or 0 when none is held.
func (g *Gate) LastPitch() float64 { return g.lastPitch }
