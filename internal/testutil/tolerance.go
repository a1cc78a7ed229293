package testutil

import (
	"math"
	"testing"
)

// RequireNear fails t if got is not within eps (absolute) of want.
func RequireNear(t *testing.T, got, want, eps float64) {
	t.Helper()
	diff := math.Abs(got - want)
	if diff > eps {
		t.Fatalf("got %v, want %v (diff %v > eps %v)", got, want, diff, eps)
	}
}

// RequireNearRel fails t if got deviates from want by more than the given
// relative tolerance (e.g. 0.005 for ±0.5%).
func RequireNearRel(t *testing.T, got, want, rel float64) {
	t.Helper()
	if want == 0 {
		t.Fatalf("RequireNearRel needs a non-zero reference, got want = 0")
	}
	diff := math.Abs(got-want) / math.Abs(want)
	if diff > rel {
		t.Fatalf("got %v, want %v (rel diff %v > %v)", got, want, diff, rel)
	}
}
