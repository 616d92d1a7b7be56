package clock_test

import (
	"testing"

	"askcache/internal/clock"
)

func TestMonotonicAdvances(t *testing.T) {
	var c clock.Monotonic
	first, err := c.NowMicros()
	if err != nil {
		t.Fatalf("NowMicros returned error: %v", err)
	}
	if first == 0 {
		t.Fatal("expected non-zero monotonic time")
	}
	second, err := c.NowMicros()
	if err != nil {
		t.Fatalf("NowMicros returned error: %v", err)
	}
	if second < first {
		t.Fatalf("monotonic clock went backwards: %d < %d", second, first)
	}
}

func TestFixed(t *testing.T) {
	got, err := clock.Fixed(42).NowMicros()
	if err != nil || got != 42 {
		t.Fatalf("unexpected fixed clock value: %d, %v", got, err)
	}
}
