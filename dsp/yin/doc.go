// Package yin implements the YIN fundamental-frequency estimator in its
// pure time-domain form: squared difference function, cumulative mean
// normalization, absolute-threshold period search, and parabolic
// refinement of the winning lag.
//
// Reference: de Cheveigné, A., Kawahara, H. (2002). "YIN, a fundamental
// frequency estimator for speech and music."
//
// The period search stops at the first qualifying dip of the normalized
// difference rather than its global minimum. On harmonically rich input
// (plucked strings in particular) the global minimum frequently sits at a
// multiple of the period and would select an overtone; the first dip
// favors the fundamental and bounds the search cost.
package yin
