package tumor

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/oncosim-xyz/go-oncosim/patient"
	"github.com/oncosim-xyz/go-oncosim/treatment"
)

func testProfile(t *testing.T) patient.Profile {
	t.Helper()
	p, err := patient.New(55, false, 0, patient.DietNormal, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestNewRejectsEmptyTumor(t *testing.T) {
	p := testProfile(t)
	if _, err := New(p, 0, 0, DefaultConfig()); !errors.Is(err, ErrEmptyTumor) {
		t.Errorf("expected ErrEmptyTumor, got %v", err)
	}
	if _, err := New(p, -1, 2, DefaultConfig()); !errors.Is(err, ErrEmptyTumor) {
		t.Errorf("expected ErrEmptyTumor for negative volume, got %v", err)
	}
}

func TestCapacityFromSmokingModifier(t *testing.T) {
	smoker, err := patient.New(55, true, 50, patient.DietNormal, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	m, err := New(smoker, 1, 0, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	want := 100 * smoker.SmokingCapacityModifier()
	if math.Abs(m.Capacity()-want) > 1e-12 {
		t.Errorf("expected capacity %g, got %g", want, m.Capacity())
	}

	override, err := NewWithCapacity(smoker, 1, 0, DefaultConfig(), 250)
	if err != nil {
		t.Fatal(err)
	}
	if override.Capacity() != 250 {
		t.Errorf("expected capacity override 250, got %g", override.Capacity())
	}
}

func TestUntreatedGrowthMonotonic(t *testing.T) {
	m, err := New(testProfile(t), 1.0, 0.1, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	points := m.SimulateDays(120)
	prev := 1.1
	for _, p := range points {
		if p.Total < prev-1e-9 {
			t.Fatalf("untreated volume decreased at day %d: %g -> %g", p.Day, prev, p.Total)
		}
		prev = p.Total
	}
	if final := points[len(points)-1].Total; final > m.Capacity()*1.01 {
		t.Errorf("volume %g exceeds capacity %g", final, m.Capacity())
	}
}

func TestCapacityContainment(t *testing.T) {
	// Start near capacity; after 100 untreated days the total must stay
	// within 1% of K.
	m, err := NewWithCapacity(testProfile(t), 200, 40, DefaultConfig(), 250)
	if err != nil {
		t.Fatal(err)
	}
	m.SimulateDays(100)
	if total := m.TotalVolume(); total > 250*1.01 {
		t.Errorf("total %g exceeds capacity bound %g", total, 250*1.01)
	}
}

func TestChemotherapyReducesSensitive(t *testing.T) {
	cfg := Config{
		CapacityBase:  250,
		SensitiveRate: 0.04,
		ResistantRate: 0.032,
		MutationRate:  1e-6,
		StepSize:      0.1,
	}
	m, err := NewWithCapacity(testProfile(t), 20, 2, cfg, 250)
	if err != nil {
		t.Fatal(err)
	}
	initial := m.Sensitive()
	m.SetTreatment(treatment.NewChemotherapy())
	m.SimulateDays(30)
	if m.Sensitive() >= initial {
		t.Errorf("expected sensitive population to shrink under chemo: %g -> %g", initial, m.Sensitive())
	}
}

func TestResistantRateOrdering(t *testing.T) {
	profiles := []patient.Profile{}
	for _, diet := range []patient.Diet{patient.DietHealthy, patient.DietNormal, patient.DietPoor} {
		p, err := patient.New(70, true, 30, diet, 1.8)
		if err != nil {
			t.Fatal(err)
		}
		profiles = append(profiles, p)
	}
	for _, p := range profiles {
		m, err := New(p, 1, 1, DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		if m.ResistantRateAdjusted() >= m.SensitiveRateAdjusted() {
			t.Errorf("diet %s: resistant rate %g should stay below sensitive rate %g",
				p.Diet(), m.ResistantRateAdjusted(), m.SensitiveRateAdjusted())
		}
	}
}

func TestMutationLeakage(t *testing.T) {
	// With no initial resistant cells, the mutation term seeds a small
	// resistant population from the sensitive one.
	m, err := New(testProfile(t), 5, 0, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	m.SimulateDays(30)
	if m.Resistant() <= 0 {
		t.Error("expected mutation to seed the resistant population")
	}
	if m.Resistant() > 0.01 {
		t.Errorf("mutation leakage implausibly large: %g", m.Resistant())
	}
}

func TestZeroDayStepIsNoop(t *testing.T) {
	m, err := New(testProfile(t), 2, 1, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	m.SimulateDays(3)
	ns, nr := m.Sensitive(), m.Resistant()
	clock := m.CurrentTime()
	histLen := len(m.History())

	for _, d := range []float64{0, -1} {
		m.SimulateStep(d)
		if m.Sensitive() != ns || m.Resistant() != nr {
			t.Errorf("step(%g) changed state", d)
		}
		if m.CurrentTime() != clock {
			t.Errorf("step(%g) advanced the clock", d)
		}
		if len(m.History()) != histLen {
			t.Errorf("step(%g) appended history", d)
		}
	}
}

func TestHistoryAppendOnly(t *testing.T) {
	m, err := New(testProfile(t), 2, 1, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	m.SimulateDays(5)
	hist := m.History()
	if len(hist) != 5 {
		t.Fatalf("expected 5 history entries, got %d", len(hist))
	}
	for i := 1; i < len(hist); i++ {
		if hist[i].Time <= hist[i-1].Time {
			t.Errorf("history times not increasing at %d", i)
		}
	}
}

func TestSetTreatmentResetsElapsed(t *testing.T) {
	m, err := New(testProfile(t), 2, 1, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if e := m.TreatmentElapsed(); e != 0 {
		t.Errorf("expected 0 elapsed before assignment, got %g", e)
	}

	m.SimulateDays(10)
	m.SetTreatment(treatment.NewImmunotherapy())
	if e := m.TreatmentElapsed(); e != 0 {
		t.Errorf("elapsed should reset on assignment, got %g", e)
	}
	m.SimulateDays(5)
	if e := m.TreatmentElapsed(); math.Abs(e-5) > 1e-9 {
		t.Errorf("expected 5 days elapsed, got %g", e)
	}

	// Replacing the treatment resets the reference again and records
	// both transitions.
	m.SetTreatment(treatment.NewRadiotherapy())
	if e := m.TreatmentElapsed(); e != 0 {
		t.Errorf("elapsed should reset on replacement, got %g", e)
	}
	changes := m.Changes()
	if len(changes) != 2 {
		t.Fatalf("expected 2 transitions, got %d", len(changes))
	}
	if changes[0].From != treatment.None || changes[0].To != treatment.Immunotherapy {
		t.Errorf("unexpected first transition %+v", changes[0])
	}
	if changes[1].From != treatment.Immunotherapy || changes[1].To != treatment.Radiotherapy {
		t.Errorf("unexpected second transition %+v", changes[1])
	}
	if changes[1].Time != 15 {
		t.Errorf("expected transition at day 15, got %g", changes[1].Time)
	}
}

func TestStagingThresholds(t *testing.T) {
	cases := []struct {
		volume float64
		want   Stage
	}{
		{0.5, StageIA},
		{3, StageIA},
		{3.1, StageIB},
		{14, StageIB},
		{20, StageIIA},
		{28, StageIIA},
		{50, StageIIB},
		{65, StageIIB},
		{80, StageIII},
		{100, StageIII},
		{101, StageIV},
		{500, StageIV},
	}
	prev := StageIA
	for _, tc := range cases {
		got := StageForVolume(tc.volume)
		if got != tc.want {
			t.Errorf("volume %g: expected %s, got %s", tc.volume, tc.want, got)
		}
		if got < prev {
			t.Errorf("staging not monotonic at volume %g", tc.volume)
		}
		prev = got
	}
}

func TestDoublingTime(t *testing.T) {
	m, err := New(testProfile(t), 2, 1, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	want := math.Ln2 / m.SensitiveRateAdjusted()
	if got := m.DoublingTime(); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected doubling time %g, got %g", want, got)
	}

	zero, err := NewWithCapacity(testProfile(t), 2, 1, Config{SensitiveRate: -1}, 100)
	if err != nil {
		t.Fatal(err)
	}
	if dt := zero.DoublingTime(); !math.IsInf(dt, 1) {
		t.Errorf("expected +Inf doubling time for non-positive rate, got %g", dt)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	m, err := New(testProfile(t), 4, 0.5, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	m.SimulateDays(20)
	m.SetTreatment(treatment.NewChemotherapy())
	m.SimulateDays(10)

	snap := m.Snapshot()

	// The snapshot must survive JSON encoding, the boundary format handed
	// to downstream consumers.
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	back, err := FromSnapshot(decoded)
	if err != nil {
		t.Fatal(err)
	}
	if back.Sensitive() != m.Sensitive() || back.Resistant() != m.Resistant() {
		t.Error("volume mismatch after round-trip")
	}
	if back.Capacity() != m.Capacity() || back.CurrentTime() != m.CurrentTime() {
		t.Error("capacity or clock mismatch after round-trip")
	}
	if back.ActiveTreatment().Kind != treatment.Chemotherapy {
		t.Errorf("treatment mismatch after round-trip: %s", back.ActiveTreatment().Name())
	}
	if back.TreatmentElapsed() != m.TreatmentElapsed() {
		t.Error("treatment elapsed mismatch after round-trip")
	}
	if back.Profile() != m.Profile() {
		t.Error("profile mismatch after round-trip")
	}
}

func TestSurgeryPulseShrinksTumor(t *testing.T) {
	m, err := NewWithCapacity(testProfile(t), 30, 3, DefaultConfig(), 250)
	if err != nil {
		t.Fatal(err)
	}
	before := m.Sensitive()
	m.SetTreatment(treatment.NewSurgery())
	m.SimulateDays(2)
	after := m.Sensitive()
	if after >= before {
		t.Errorf("surgery pulse should cut sensitive volume: %g -> %g", before, after)
	}
	// The pulse is approximate, not a full RemovalFraction excision, but
	// it should remove a substantial share.
	if after > before*0.5 {
		t.Errorf("surgery removed too little: %g -> %g", before, after)
	}
}

func TestDerivativeGuards(t *testing.T) {
	m, err := NewWithCapacity(testProfile(t), 50, 50, DefaultConfig(), 100)
	if err != nil {
		t.Fatal(err)
	}
	// At capacity the derivative must vanish.
	d := m.derivatives(0, []float64{60, 40})
	if d[0] != 0 || d[1] != 0 {
		t.Errorf("expected zero derivative at capacity, got %v", d)
	}
	d = m.derivatives(0, []float64{0, 0})
	if d[0] != 0 || d[1] != 0 {
		t.Errorf("expected zero derivative at zero volume, got %v", d)
	}
	// Above capacity, same guard.
	d = m.derivatives(0, []float64{90, 40})
	if d[0] != 0 || d[1] != 0 {
		t.Errorf("expected zero derivative above capacity, got %v", d)
	}
}
