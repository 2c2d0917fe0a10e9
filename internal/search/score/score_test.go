package score

import (
	"math"
	"testing"
)

func TestNormalize_TopScoreIs100(t *testing.T) {
	got := Normalize([]float64{0.2, 0.8, 0.4})
	if got[1] != 100 {
		t.Errorf("top score = %v, want exactly 100", got[1])
	}
}

func TestNormalize_LinearAndOrderPreserving(t *testing.T) {
	in := []float64{1, 2, 4}
	got := Normalize(in)
	if math.Abs(got[0]-25) > 1e-9 || math.Abs(got[1]-50) > 1e-9 || got[2] != 100 {
		t.Errorf("got %v, want [25 50 100]", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Errorf("order not preserved: %v", got)
		}
	}
}

func TestNormalize_AllZeros(t *testing.T) {
	got := Normalize([]float64{0, 0})
	for _, s := range got {
		if s != 0 {
			t.Errorf("zero batch produced nonzero score: %v", got)
		}
	}
}

func TestNormalize_Empty(t *testing.T) {
	if got := Normalize(nil); len(got) != 0 {
		t.Errorf("expected empty output, got %v", got)
	}
}

func TestMax_FlooredAtEpsilon(t *testing.T) {
	if got := Max(nil); got != epsilon {
		t.Errorf("Max(nil) = %v, want %v", got, epsilon)
	}
	if got := Max([]float64{-1, 0}); got != epsilon {
		t.Errorf("Max of non-positive batch = %v, want %v", got, epsilon)
	}
}
