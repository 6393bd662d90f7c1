package treatment

import (
	"errors"
	"math"
	"testing"
)

func TestBetaNegativeElapsed(t *testing.T) {
	for _, tr := range Catalog() {
		if b := tr.Beta(-1.0); b != 0 {
			t.Errorf("%s: expected beta=0 for negative elapsed, got %g", tr.Name(), b)
		}
	}
}

func TestNoneBetaAlwaysZero(t *testing.T) {
	tr := NewNone()
	for _, elapsed := range []float64{0, 1, 10, 365} {
		if b := tr.Beta(elapsed); b != 0 {
			t.Errorf("expected 0 at t=%g, got %g", elapsed, b)
		}
	}
}

func TestChemotherapyAccumulation(t *testing.T) {
	tr := NewChemotherapy()

	// Starts at zero and accumulates within the first cycle.
	if b := tr.Beta(0); b != 0 {
		t.Errorf("expected 0 at cycle start, got %g", b)
	}
	b1, b5, b20 := tr.Beta(1), tr.Beta(5), tr.Beta(20)
	if !(b1 < b5 && b5 < b20) {
		t.Errorf("expected accumulation within cycle: %g, %g, %g", b1, b5, b20)
	}
	if b20 >= tr.MaxEfficacy {
		t.Errorf("beta %g should stay below beta_max %g in first cycle", b20, tr.MaxEfficacy)
	}

	// Resets at the cycle boundary.
	if b := tr.Beta(21); b >= b20 {
		t.Errorf("expected reset at day 21: %g vs %g", b, b20)
	}
}

func TestChemotherapyResistanceFloor(t *testing.T) {
	tr := NewChemotherapy()
	// Deep into the course the per-cycle penalty floors at 50% of beta_max.
	// Compare late-cycle values (saturated accumulation) across cycles.
	late := func(cycle int) float64 {
		return tr.Beta(float64(cycle)*tr.CycleDays + 20)
	}
	if late(1) >= late(0) {
		t.Error("second cycle should be less effective than first")
	}
	floor := late(0) * 0.5
	if got := late(50); math.Abs(got-floor) > 1e-9 {
		t.Errorf("expected floor %g after many cycles, got %g", floor, got)
	}
}

func TestRadiotherapyFractionation(t *testing.T) {
	tr := NewRadiotherapy()
	for _, day := range []float64{0, 1, 4.9, 7, 11} {
		if b := tr.Beta(day); b != tr.MaxEfficacy {
			t.Errorf("day %g should be active, got %g", day, b)
		}
	}
	for _, day := range []float64{5, 6, 12, 13.5} {
		if b := tr.Beta(day); b != tr.RestEfficacy {
			t.Errorf("day %g should be rest, got %g", day, b)
		}
	}
}

func TestImmunotherapySaturation(t *testing.T) {
	tr := NewImmunotherapy()
	if b := tr.Beta(0); b != 0 {
		t.Errorf("expected 0 at t=0, got %g", b)
	}
	prev := 0.0
	for _, day := range []float64{10, 30, 60, 120} {
		b := tr.Beta(day)
		if b <= prev {
			t.Errorf("expected monotonic activation, day %g: %g <= %g", day, b, prev)
		}
		if b > tr.MaxEfficacy {
			t.Errorf("beta %g exceeds beta_max %g", b, tr.MaxEfficacy)
		}
		prev = b
	}
	// Approaches beta_max asymptotically.
	if b := tr.Beta(200); tr.MaxEfficacy-b > 0.001 {
		t.Errorf("expected near-saturation at day 200, got %g", b)
	}
}

func TestSurgeryPulse(t *testing.T) {
	tr := NewSurgery()
	want := tr.RemovalFraction * 10
	for _, day := range []float64{0, 0.2, 0.25} {
		if b := tr.Beta(day); b != want {
			t.Errorf("day %g inside window: expected %g, got %g", day, want, b)
		}
	}
	for _, day := range []float64{0.26, 1, 10} {
		if b := tr.Beta(day); b != 0 {
			t.Errorf("day %g outside window: expected 0, got %g", day, b)
		}
	}
}

func TestLookupAliases(t *testing.T) {
	cases := map[string]Kind{
		"none":          None,
		"Chemotherapy":  Chemotherapy,
		"QUIMIOTERAPIA": Chemotherapy,
		"radiotherapy":  Radiotherapy,
		"radioterapia":  Radiotherapy,
		"immunotherapy": Immunotherapy,
		"inmunoterapia": Immunotherapy,
		"surgery":       Surgery,
		"cirugia":       Surgery,
		" Surgery ":     Surgery,
	}
	for name, want := range cases {
		tr, err := Lookup(name)
		if err != nil {
			t.Errorf("Lookup(%q): %v", name, err)
			continue
		}
		if tr.Kind != want {
			t.Errorf("Lookup(%q): expected %s, got %s", name, want, tr.Kind)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("homeopathy")
	if !errors.Is(err, ErrUnknownTreatment) {
		t.Errorf("expected ErrUnknownTreatment, got %v", err)
	}
}

func TestCodesStable(t *testing.T) {
	want := map[Kind]string{
		None:          "none",
		Chemotherapy:  "chemo",
		Radiotherapy:  "radio",
		Immunotherapy: "immuno",
		Surgery:       "surgery",
	}
	for kind, code := range want {
		if kind.Code() != code {
			t.Errorf("%s: expected code %q, got %q", kind, code, kind.Code())
		}
	}
}
