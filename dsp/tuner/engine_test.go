package tuner

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-tuner/internal/testutil"
)

const (
	testRate  = 44100.0
	testFrame = 4096
)

// TestEstimatePitchGateWarmup verifies the attack hysteresis at engine
// level: the first frame of a tone is suppressed, the second one already
// yields the pitch.
func TestEstimatePitchGateWarmup(t *testing.T) {
	e := New()
	sine := testutil.DeterministicSine(440, testRate, 0.5, testFrame)

	if pitch, ok := e.EstimatePitch(sine, testRate); ok {
		t.Fatalf("frame 1 reported %f Hz, want gate warmup suppression", pitch)
	}

	for frame := 2; frame <= 3; frame++ {
		pitch, ok := e.EstimatePitch(sine, testRate)
		if !ok {
			t.Fatalf("frame %d reported no pitch, want ~440 Hz", frame)
		}
		testutil.RequireNearRel(t, pitch, 440, 0.005)
	}

	if !e.IsGateOpen() {
		t.Error("IsGateOpen() = false after sustained tone")
	}

	testutil.RequireNearRel(t, e.LastPitch(), 440, 0.005)
}

// TestEstimatePitchSilence verifies silent frames never report a pitch
// and eventually close the gate, clearing pitch memory.
func TestEstimatePitchSilence(t *testing.T) {
	e := New()
	sine := testutil.DeterministicSine(440, testRate, 0.5, testFrame)
	silence := make([]float64, testFrame)

	e.EstimatePitch(sine, testRate)
	e.EstimatePitch(sine, testRate)

	for i := 0; i < 10; i++ {
		if pitch, ok := e.EstimatePitch(silence, testRate); ok {
			t.Fatalf("silent frame %d reported %f Hz", i+1, pitch)
		}
	}

	if e.IsGateOpen() {
		t.Error("IsGateOpen() = true after sustained silence")
	}

	if e.LastPitch() != 0 {
		t.Errorf("LastPitch() = %f after gate close, want 0", e.LastPitch())
	}
}

// TestEstimatePitchInvalidInput verifies degenerate frames are rejected
// without touching gate state.
func TestEstimatePitchInvalidInput(t *testing.T) {
	e := New()
	sine := testutil.DeterministicSine(440, testRate, 0.5, testFrame)
	e.EstimatePitch(sine, testRate)
	e.EstimatePitch(sine, testRate)

	tests := []struct {
		name       string
		samples    []float64
		sampleRate float64
	}{
		{"nil frame", nil, testRate},
		{"short frame", sine[:32], testRate},
		{"zero rate", sine, 0},
		{"NaN rate", sine, math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.EstimatePitchWithConfidence(tt.samples, tt.sampleRate)
			if res.Voiced || res.Pitch != 0 || res.Confidence != 0 {
				t.Errorf("EstimatePitchWithConfidence() = %+v, want unvoiced", res)
			}

			if !e.IsGateOpen() {
				t.Error("invalid frame advanced the gate state")
			}
		})
	}
}

// TestConfidenceBounds verifies confidence stays in [0, 1] and is zero
// whenever no pitch is reported.
func TestConfidenceBounds(t *testing.T) {
	e := New()
	sine := testutil.DeterministicSine(440, testRate, 0.5, testFrame)
	noise := testutil.DeterministicNoise(3, 0.5, testFrame)

	frames := [][]float64{sine, sine, sine, noise, noise, sine, make([]float64, testFrame)}
	for i, frame := range frames {
		res := e.EstimatePitchWithConfidence(frame, testRate)

		if res.Confidence < 0 || res.Confidence > 1 {
			t.Errorf("frame %d: Confidence = %f, want [0, 1]", i, res.Confidence)
		}

		if !res.Voiced && res.Confidence != 0 {
			t.Errorf("frame %d: Confidence = %f on unvoiced result, want 0", i, res.Confidence)
		}
	}
}

// TestPitchWithinRange verifies reported pitches always respect the
// configured range.
func TestPitchWithinRange(t *testing.T) {
	e := New()
	e.SetFrequencyRange(100, 1000)

	for _, freq := range []float64{110, 220, 440, 880} {
		e.Reset()
		e.SetFrequencyRange(100, 1000)
		sine := testutil.DeterministicSine(freq, testRate, 0.5, testFrame)

		e.EstimatePitch(sine, testRate)
		pitch, ok := e.EstimatePitch(sine, testRate)
		if !ok {
			t.Fatalf("no pitch for %f Hz", freq)
		}

		if pitch < 100 || pitch > 1000 {
			t.Errorf("pitch %f Hz outside [100, 1000]", pitch)
		}
	}
}

// TestSetModeResetsGate verifies a mode switch closes the gate and swaps
// the threshold, leaving the frequency range untouched.
func TestSetModeResetsGate(t *testing.T) {
	e := New()
	e.SetFrequencyRange(50, 2000)
	sine := testutil.DeterministicSine(440, testRate, 0.5, testFrame)
	e.EstimatePitch(sine, testRate)
	e.EstimatePitch(sine, testRate)

	if !e.IsGateOpen() {
		t.Fatal("gate closed before mode switch")
	}

	e.SetMode(Guitar)

	if e.IsGateOpen() {
		t.Error("IsGateOpen() = true after mode switch, want closed")
	}

	if e.Mode() != Guitar {
		t.Errorf("Mode() = %v, want Guitar", e.Mode())
	}

	if e.NoiseThreshold() != Guitar.NoiseThreshold() {
		t.Errorf("NoiseThreshold() = %f, want %f", e.NoiseThreshold(), Guitar.NoiseThreshold())
	}

	minFreq, maxFreq := e.FrequencyRange()
	if minFreq != 50 || maxFreq != 2000 {
		t.Errorf("FrequencyRange() = [%f, %f] after mode switch, want [50, 2000]", minFreq, maxFreq)
	}

	// Invalid mode values are ignored.
	e.SetMode(Mode(42))
	if e.Mode() != Guitar {
		t.Errorf("Mode() = %v after invalid switch, want Guitar", e.Mode())
	}
}

// TestModeThresholdOrdering verifies the profile sensitivity order:
// piano most sensitive, guitar least.
func TestModeThresholdOrdering(t *testing.T) {
	piano := Piano.NoiseThreshold()
	chromatic := Chromatic.NoiseThreshold()
	guitar := Guitar.NoiseThreshold()

	if !(piano < chromatic && chromatic < guitar) {
		t.Errorf("threshold order = piano %f, chromatic %f, guitar %f; want ascending", piano, chromatic, guitar)
	}

	if Mode(42).NoiseThreshold() != chromatic {
		t.Error("unknown mode must fall back to the chromatic threshold")
	}
}

// TestSetFrequencyRange verifies invalid ranges leave the previous one
// in place.
func TestSetFrequencyRange(t *testing.T) {
	tests := []struct {
		name     string
		minFreq  float64
		maxFreq  float64
		accepted bool
	}{
		{"valid", 50, 2000, true},
		{"inverted", 2000, 50, false},
		{"equal bounds", 440, 440, false},
		{"zero min", 0, 2000, false},
		{"negative min", -10, 2000, false},
		{"NaN min", math.NaN(), 2000, false},
		{"NaN max", 50, math.NaN(), false},
		{"infinite max", 50, math.Inf(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			e.SetFrequencyRange(tt.minFreq, tt.maxFreq)

			wantMin, wantMax := DefaultMinFreq, DefaultMaxFreq
			if tt.accepted {
				wantMin, wantMax = tt.minFreq, tt.maxFreq
			}

			minFreq, maxFreq := e.FrequencyRange()
			if minFreq != wantMin || maxFreq != wantMax {
				t.Errorf("FrequencyRange() = [%f, %f], want [%f, %f]", minFreq, maxFreq, wantMin, wantMax)
			}
		})
	}
}

// TestSetNoiseThreshold verifies the override and its validation.
func TestSetNoiseThreshold(t *testing.T) {
	e := New()

	e.SetNoiseThreshold(0.2)
	if e.NoiseThreshold() != 0.2 {
		t.Errorf("NoiseThreshold() = %f, want 0.2", e.NoiseThreshold())
	}

	for _, v := range []float64{0, 1, -0.5, math.NaN()} {
		e.SetNoiseThreshold(v)
		if e.NoiseThreshold() != 0.2 {
			t.Errorf("NoiseThreshold() = %f after SetNoiseThreshold(%f), want 0.2", e.NoiseThreshold(), v)
		}
	}

	// A mode switch replaces the override.
	e.SetMode(Piano)
	if e.NoiseThreshold() != Piano.NoiseThreshold() {
		t.Errorf("NoiseThreshold() = %f after mode switch, want %f", e.NoiseThreshold(), Piano.NoiseThreshold())
	}
}

// TestRangeRestrictsDetection verifies out-of-range fundamentals are
// dropped rather than folded into range.
func TestRangeRestrictsDetection(t *testing.T) {
	e := New()
	e.SetFrequencyRange(500, 1500)
	sine := testutil.DeterministicSine(440, testRate, 0.5, testFrame)

	e.EstimatePitch(sine, testRate)
	if pitch, ok := e.EstimatePitch(sine, testRate); ok {
		t.Errorf("440 Hz with range [500, 1500] reported %f Hz", pitch)
	}

	if !e.IsGateOpen() {
		t.Error("gate must stay open on loud out-of-range input")
	}
}

// TestReset verifies full restoration of the initial state.
func TestReset(t *testing.T) {
	e := New(WithMode(Piano), WithFrequencyRange(50, 2000))
	sine := testutil.DeterministicSine(440, testRate, 0.5, testFrame)
	e.EstimatePitch(sine, testRate)
	e.EstimatePitch(sine, testRate)

	e.Reset()

	if e.Mode() != Chromatic {
		t.Errorf("Mode() = %v after Reset, want Chromatic", e.Mode())
	}

	minFreq, maxFreq := e.FrequencyRange()
	if minFreq != DefaultMinFreq || maxFreq != DefaultMaxFreq {
		t.Errorf("FrequencyRange() = [%f, %f] after Reset, want defaults", minFreq, maxFreq)
	}

	if e.IsGateOpen() || e.LastPitch() != 0 {
		t.Error("gate state survived Reset")
	}

	// Engine stays usable after Reset.
	e.EstimatePitch(sine, testRate)
	pitch, ok := e.EstimatePitch(sine, testRate)
	if !ok {
		t.Fatal("no pitch after Reset")
	}
	testutil.RequireNearRel(t, pitch, 440, 0.005)
}

// TestOptions verifies construction options and that invalid option
// values fall back to defaults.
func TestOptions(t *testing.T) {
	e := New(WithMode(Guitar), WithFrequencyRange(80, 1200), WithNoiseThreshold(0.05))

	if e.Mode() != Guitar {
		t.Errorf("Mode() = %v, want Guitar", e.Mode())
	}

	minFreq, maxFreq := e.FrequencyRange()
	if minFreq != 80 || maxFreq != 1200 {
		t.Errorf("FrequencyRange() = [%f, %f], want [80, 1200]", minFreq, maxFreq)
	}

	if e.NoiseThreshold() != 0.05 {
		t.Errorf("NoiseThreshold() = %f, want 0.05", e.NoiseThreshold())
	}

	bad := New(WithMode(Mode(99)), WithFrequencyRange(-1, 0), WithNoiseThreshold(2))
	if bad.Mode() != Chromatic {
		t.Errorf("Mode() = %v with invalid option, want Chromatic", bad.Mode())
	}

	minFreq, maxFreq = bad.FrequencyRange()
	if minFreq != DefaultMinFreq || maxFreq != DefaultMaxFreq {
		t.Errorf("FrequencyRange() = [%f, %f] with invalid option, want defaults", minFreq, maxFreq)
	}

	if bad.NoiseThreshold() != Chromatic.NoiseThreshold() {
		t.Errorf("NoiseThreshold() = %f with invalid option, want chromatic default", bad.NoiseThreshold())
	}
}

// TestModeString verifies profile names.
func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{Chromatic, "chromatic"},
		{Guitar, "guitar"},
		{Piano, "piano"},
		{Mode(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", int(tt.mode), got, tt.want)
		}
	}
}
