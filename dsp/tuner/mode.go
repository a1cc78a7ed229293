package tuner

// Mode selects an instrument profile. The profile decides how sensitive
// the noise gate is: percussive, fast-decaying instruments need a lower
// threshold to keep tracking the tail of a note, while sustained strings
// tolerate a higher one that rejects more handling noise.
type Mode int

const (
	// Chromatic is the general-purpose profile with medium gate sensitivity.
	Chromatic Mode = iota
	// Guitar uses the least sensitive gate; plucked strings are loud and
	// fret-hand noise is common.
	Guitar
	// Piano uses the most sensitive gate so the long decay of a struck
	// string stays above the threshold.
	Piano
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case Chromatic:
		return "chromatic"
	case Guitar:
		return "guitar"
	case Piano:
		return "piano"
	default:
		return "unknown"
	}
}

// noiseThresholds holds the gate RMS threshold per profile.
var noiseThresholds = map[Mode]float64{
	Chromatic: 0.015,
	Guitar:    0.03,
	Piano:     0.005,
}

// NoiseThreshold returns the gate threshold of the profile. Unknown modes
// fall back to the chromatic threshold.
func (m Mode) NoiseThreshold() float64 {
	if t, ok := noiseThresholds[m]; ok {
		return t
	}
	return noiseThresholds[Chromatic]
}

// valid reports whether m names a defined profile.
func (m Mode) valid() bool {
	_, ok := noiseThresholds[m]
	return ok
}
