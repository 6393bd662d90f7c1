package solver

import (
	"errors"
	"math"
	"testing"
)

// exponential growth dy/dt = y, exact solution y(t) = y0*e^t.
func expGrowth(_ float64, y []float64) []float64 {
	return []float64{y[0]}
}

func TestNewValidatesStepSize(t *testing.T) {
	for _, h := range []float64{0, -0.1, 1.5} {
		if _, err := New(expGrowth, h); !errors.Is(err, ErrInvalidStepSize) {
			t.Errorf("h=%g: expected ErrInvalidStepSize, got %v", h, err)
		}
	}
	if _, err := New(expGrowth, 0.1); err != nil {
		t.Errorf("h=0.1 should be valid: %v", err)
	}
	if _, err := New(expGrowth, 1.0); err != nil {
		t.Errorf("h=1.0 should be valid: %v", err)
	}
	if _, err := New(nil, 0.1); err == nil {
		t.Error("expected error for nil derivative function")
	}
}

func TestRK4Accuracy(t *testing.T) {
	// Integrate dy/dt = y from y(0)=1 over one day at h=0.1.
	// The result must be within 0.01 of e.
	in, err := New(expGrowth, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	final, _, err := in.Integrate(0, []float64{1.0}, 1.0, false)
	if err != nil {
		t.Fatal(err)
	}
	if diff := math.Abs(final[0] - math.E); diff > 0.01 {
		t.Errorf("expected y(1)≈e, got %g (off by %g)", final[0], diff)
	}
}

func TestRK4MoreAccurateThanEuler(t *testing.T) {
	rk4, _ := New(expGrowth, 0.1)
	euler, _ := NewWithMethod(expGrowth, 0.1, Euler())

	rk4Final, _, _ := rk4.Integrate(0, []float64{1.0}, 1.0, false)
	eulerFinal, _, _ := euler.Integrate(0, []float64{1.0}, 1.0, false)

	rk4Err := math.Abs(rk4Final[0] - math.E)
	eulerErr := math.Abs(eulerFinal[0] - math.E)
	if rk4Err >= eulerErr {
		t.Errorf("RK4 error %g should beat Euler error %g", rk4Err, eulerErr)
	}
}

func TestHarmonicOscillatorEnergy(t *testing.T) {
	// Oscillator shifted to stay positive so the non-negativity clamp
	// never engages: u'' = -(u-c) with c=10, amplitude 1.
	const c = 10.0
	osc := func(_ float64, y []float64) []float64 {
		return []float64{y[1] - c, -(y[0] - c)}
	}
	energy := func(y []float64) float64 {
		return (y[0]-c)*(y[0]-c) + (y[1]-c)*(y[1]-c)
	}

	in, err := New(osc, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	y0 := []float64{c + 1, c}
	e0 := energy(y0)

	final, _, err := in.Integrate(0, y0, 2*math.Pi, false)
	if err != nil {
		t.Fatal(err)
	}
	e1 := energy(final)
	if math.Abs(e1-e0)/e0 > 0.05 {
		t.Errorf("energy drifted more than 5%%: %g -> %g", e0, e1)
	}
	// One full period should return near the starting point.
	if math.Abs(final[0]-y0[0]) > 0.01 {
		t.Errorf("expected u≈%g after one period, got %g", y0[0], final[0])
	}
}

func TestStepClampsNegative(t *testing.T) {
	// Steep decay overshoots zero in a single coarse step; the result
	// must be clamped to zero, not negative.
	decay := func(_ float64, y []float64) []float64 {
		return []float64{-100 * y[0]}
	}
	in, _ := New(decay, 1.0)
	next := in.Step(0, []float64{1.0})
	if next[0] < 0 {
		t.Errorf("expected clamped state, got %g", next[0])
	}
}

func TestIntegrateInvalidTimeRange(t *testing.T) {
	in, _ := New(expGrowth, 0.1)
	if _, _, err := in.Integrate(5, []float64{1.0}, 4, false); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("expected ErrInvalidTimeRange, got %v", err)
	}
}

func TestIntegrateRecordsHistory(t *testing.T) {
	in, _ := New(expGrowth, 0.1)
	_, history, err := in.Integrate(0, []float64{1.0}, 1.0, true)
	if err != nil {
		t.Fatal(err)
	}
	// Initial point plus 10 steps.
	if len(history) != 11 {
		t.Fatalf("expected 11 history points, got %d", len(history))
	}
	if history[0].T != 0 || history[0].Y[0] != 1.0 {
		t.Errorf("first point should be the initial state, got %+v", history[0])
	}
	for i := 1; i < len(history); i++ {
		if history[i].T <= history[i-1].T {
			t.Errorf("history times not increasing at %d", i)
		}
	}
}

func TestIntegrateDropsTinyFinalStep(t *testing.T) {
	in, _ := New(expGrowth, 0.1)
	// The trailing 5e-5 days is below the 1e-3 partial-step cutoff.
	_, history, err := in.Integrate(0, []float64{1.0}, 0.20005, true)
	if err != nil {
		t.Fatal(err)
	}
	last := history[len(history)-1]
	if math.Abs(last.T-0.2) > 1e-12 {
		t.Errorf("expected integration to stop at 0.2, got %g", last.T)
	}
}

func TestIntegrateClipsFinalStep(t *testing.T) {
	in, _ := New(expGrowth, 0.1)
	final, history, err := in.Integrate(0, []float64{1.0}, 0.25, true)
	if err != nil {
		t.Fatal(err)
	}
	last := history[len(history)-1]
	if math.Abs(last.T-0.25) > 1e-12 {
		t.Errorf("expected final time 0.25, got %g", last.T)
	}
	want := math.Exp(0.25)
	if math.Abs(final[0]-want) > 1e-4 {
		t.Errorf("expected y(0.25)≈%g, got %g", want, final[0])
	}
}

func TestIntegrateDays(t *testing.T) {
	in, _ := New(expGrowth, 0.1)
	final, daily, err := in.IntegrateDays([]float64{1.0}, 3, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(daily) != 3 {
		t.Fatalf("expected 3 daily points, got %d", len(daily))
	}
	for i, dp := range daily {
		if dp.Day != i+1 {
			t.Errorf("expected day %d, got %d", i+1, dp.Day)
		}
		want := math.Exp(float64(dp.Day))
		if math.Abs(dp.Y[0]-want)/want > 0.001 {
			t.Errorf("day %d: expected ≈%g, got %g", dp.Day, want, dp.Y[0])
		}
	}
	if final[0] != daily[2].Y[0] {
		t.Error("final state should match last daily point")
	}

	if _, _, err := in.IntegrateDays([]float64{1.0}, -1, false); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("expected ErrInvalidTimeRange for negative days, got %v", err)
	}
}
