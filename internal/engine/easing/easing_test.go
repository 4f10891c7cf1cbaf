package easing

import (
	"errors"
	"math"
	"testing"
)

func TestLookupEndpoints(t *testing.T) {
	for _, name := range Names() {
		f, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if got := f(0); math.Abs(got) > 1e-9 {
			t.Errorf("%s(0) = %v, want 0", name, got)
		}
		if got := f(1); math.Abs(got-1) > 1e-9 {
			t.Errorf("%s(1) = %v, want 1", name, got)
		}
	}
}

func TestLookupDefaultsAndCase(t *testing.T) {
	f, err := Lookup("")
	if err != nil {
		t.Fatalf("Lookup empty: %v", err)
	}
	if f(0.25) != 0.25 {
		t.Errorf("empty name should be linear, got %v", f(0.25))
	}

	if _, err := Lookup("  Out-Cubic "); err != nil {
		t.Errorf("expected case-insensitive lookup, got %v", err)
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("wobble"); !errors.Is(err, ErrUnknownCurve) {
		t.Errorf("expected ErrUnknownCurve, got %v", err)
	}
}
