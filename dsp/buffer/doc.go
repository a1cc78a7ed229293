// Package buffer provides a capacity-tracked float64 scratch buffer for
// allocation-friendly DSP processing. Estimators keep one Buffer alive
// across calls so that per-frame work does not allocate in steady state.
//
// Capacity grows monotonically and never shrinks. Contents between uses
// are unspecified; every caller must fully overwrite the region it
// requests through [Buffer.EnsureCapacity].
package buffer
