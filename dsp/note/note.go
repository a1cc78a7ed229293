// Package note maps frequencies to names on the twelve-tone equal
// tempered scale, with A4 = 440 Hz as reference.
package note

import (
	"fmt"
	"math"
)

const (
	refFreq = 440.0
	refMIDI = 69 // A4
)

var names = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Note is the equal-tempered pitch nearest to a measured frequency.
type Note struct {
	Name      string  // pitch class, for example "A" or "F#"
	Octave    int     // scientific octave number, A4 is octave 4
	MIDI      int     // MIDI note number, A4 is 69
	Frequency float64 // exact equal-tempered frequency of the note in Hz
	Cents     float64 // deviation of the measured frequency, in cents
}

// String formats the note as name, octave and signed cent deviation.
func (n Note) String() string {
	return fmt.Sprintf("%s%d %+.1f cents", n.Name, n.Octave, n.Cents)
}

// Nearest returns the equal-tempered note closest to freq.
func Nearest(freq float64) (Note, error) {
	if !(freq > 0) {
		return Note{}, fmt.Errorf("note frequency must be > 0: %f", freq)
	}

	exact := 12*math.Log2(freq/refFreq) + refMIDI
	midi := int(math.Round(exact))
	if midi < 0 {
		return Note{}, fmt.Errorf("frequency below the MIDI scale: %f Hz", freq)
	}

	noteFreq := refFreq * math.Exp2(float64(midi-refMIDI)/12)

	return Note{
		Name:      names[midi%12],
		Octave:    midi/12 - 1,
		MIDI:      midi,
		Frequency: noteFreq,
		Cents:     1200 * math.Log2(freq/noteFreq),
	}, nil
}
