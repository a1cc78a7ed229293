// Package level measures frame-level signal strength. The noise gate
// classifies frames from these measurements; nothing here keeps state.
package level

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Level holds the strength measurements of one audio frame.
type Level struct {
	RMS  float64 // root-mean-square amplitude
	Peak float64 // maximum absolute amplitude
}

// RMS returns the root-mean-square amplitude of the frame.
// An empty frame measures 0.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	return floats.Norm(samples, 2) / math.Sqrt(float64(len(samples)))
}

// Peak returns the maximum absolute amplitude of the frame.
func Peak(samples []float64) float64 {
	var peak float64
	for _, x := range samples {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	return peak
}

// Measure returns RMS and peak amplitude of the frame.
func Measure(samples []float64) Level {
	return Level{
		RMS:  RMS(samples),
		Peak: Peak(samples),
	}
}
