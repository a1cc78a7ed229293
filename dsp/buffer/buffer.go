package buffer

// growthMargin is the headroom factor applied on reallocation so that a
// sequence of slowly growing requests does not reallocate on every call.
const growthMargin = 1.5

// Buffer wraps a float64 slice with reuse-friendly semantics.
// DSP functions accept raw []float64; use EnsureCapacity or Samples to bridge.
type Buffer struct {
	samples []float64
}

// New returns a zero-filled Buffer of the given length.
func New(length int) *Buffer {
	if length < 0 {
		length = 0
	}
	return &Buffer{samples: make([]float64, length)}
}

// EnsureCapacity returns a slice of length n backed by the buffer.
// The backing array is reallocated only when the current capacity is
// smaller than n, with a growth margin; it is never shrunk. The returned
// slice may contain stale data from previous uses.
func (b *Buffer) EnsureCapacity(n int) []float64 {
	if n <= 0 {
		return b.samples[:0]
	}
	if cap(b.samples) < n {
		b.samples = make([]float64, int(float64(n)*growthMargin))
	}
	b.samples = b.samples[:n]
	return b.samples
}

// Release drops the backing array so it can be collected.
// The Buffer remains usable; the next EnsureCapacity reallocates.
func (b *Buffer) Release() {
	b.samples = nil
}

// Samples returns the underlying slice.
func (b *Buffer) Samples() []float64 {
	return b.samples
}

// Len returns the current number of samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Cap returns the current capacity of the backing slice.
func (b *Buffer) Cap() int {
	return cap(b.samples)
}

// Zero sets all samples to 0.
func (b *Buffer) Zero() {
	for i := range b.samples {
		b.samples[i] = 0
	}
}
