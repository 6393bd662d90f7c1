// Package tumor implements a two-population Gompertz growth model for lung
// tumors: a treatment-sensitive and a treatment-resistant sub-clone sharing
// one carrying capacity, integrated day by day with a fixed-step RK4 solver.
//
// A Model owns one simulation timeline and is not safe for concurrent
// mutation; run independent simulations on independent Model instances.
package tumor

import (
	"errors"
	"fmt"
	"math"

	"github.com/oncosim-xyz/go-oncosim/patient"
	"github.com/oncosim-xyz/go-oncosim/solver"
	"github.com/oncosim-xyz/go-oncosim/treatment"
)

// ErrEmptyTumor is returned when a model is constructed with no tumor volume.
var ErrEmptyTumor = errors.New("tumor must have positive initial volume")

// Config holds the growth-law calibration. Zero fields are replaced with
// the matching DefaultConfig value, so a zero Config is usable as-is.
type Config struct {
	CapacityBase  float64 // base carrying capacity in cm³
	SensitiveRate float64 // base growth rate of the sensitive clone (1/day)
	ResistantRate float64 // base growth rate of the resistant clone (1/day)
	MutationRate  float64 // sensitive -> resistant leakage (1/day)
	StepSize      float64 // integrator step in days
}

// DefaultConfig returns the standard calibration. The resistant base rate is
// intentionally below the sensitive one: absent treatment pressure the
// resistant sub-clone grows slower.
func DefaultConfig() Config {
	return Config{
		CapacityBase:  100,
		SensitiveRate: 0.012,
		ResistantRate: 0.008,
		MutationRate:  1e-6,
		StepSize:      0.1,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.CapacityBase == 0 {
		c.CapacityBase = def.CapacityBase
	}
	if c.SensitiveRate == 0 {
		c.SensitiveRate = def.SensitiveRate
	}
	if c.ResistantRate == 0 {
		c.ResistantRate = def.ResistantRate
	}
	if c.MutationRate == 0 {
		c.MutationRate = def.MutationRate
	}
	if c.StepSize == 0 {
		c.StepSize = def.StepSize
	}
	return c
}

// HistoryPoint is one appended audit entry: the state after a completed
// stepping operation.
type HistoryPoint struct {
	Time      float64 `json:"time"`
	Sensitive float64 `json:"sensitive"`
	Resistant float64 `json:"resistant"`
}

// TreatmentChange records a therapy assignment as an explicit transition
// event rather than a silent field overwrite.
type TreatmentChange struct {
	From treatment.Kind `json:"from"`
	To   treatment.Kind `json:"to"`
	Time float64        `json:"time"`
}

// DayPoint is the observable state at the end of one simulated day.
type DayPoint struct {
	Day       int     `json:"day"`
	Sensitive float64 `json:"sensitive"`
	Resistant float64 `json:"resistant"`
	Total     float64 `json:"total"`
	Stage     string  `json:"stage"`
}

// Model is one mutable tumor simulation instance.
type Model struct {
	cfg     Config
	profile patient.Profile

	sensitive float64
	resistant float64
	capacity  float64

	currentTime    float64
	active         treatment.Treatment
	treatmentStart float64 // +Inf until a treatment is assigned

	history []HistoryPoint
	changes []TreatmentChange

	integ *solver.Integrator
}

// New creates a model with the given initial sensitive and resistant
// volumes (cm³). Carrying capacity is cfg.CapacityBase scaled by the
// patient's smoking capacity modifier. The initial total volume must be
// positive; simulating an empty tumor is undefined.
func New(profile patient.Profile, sensitive, resistant float64, cfg Config) (*Model, error) {
	cfg = cfg.withDefaults()
	capacity := cfg.CapacityBase * profile.SmokingCapacityModifier()
	return NewWithCapacity(profile, sensitive, resistant, cfg, capacity)
}

// NewWithCapacity creates a model with an explicit carrying capacity,
// bypassing the smoking-derived default.
func NewWithCapacity(profile patient.Profile, sensitive, resistant float64, cfg Config, capacity float64) (*Model, error) {
	cfg = cfg.withDefaults()
	if sensitive < 0 || resistant < 0 {
		return nil, fmt.Errorf("%w: negative volume (sensitive=%g resistant=%g)", ErrEmptyTumor, sensitive, resistant)
	}
	if sensitive+resistant <= 0 {
		return nil, fmt.Errorf("%w: total volume is zero", ErrEmptyTumor)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("carrying capacity must be positive, got %g", capacity)
	}

	m := &Model{
		cfg:            cfg,
		profile:        profile,
		sensitive:      sensitive,
		resistant:      resistant,
		capacity:       capacity,
		active:         treatment.NewNone(),
		treatmentStart: math.Inf(1),
	}
	integ, err := solver.New(m.derivatives, cfg.StepSize)
	if err != nil {
		return nil, err
	}
	m.integ = integ
	return m, nil
}

// derivatives is the coupled Gompertz system consumed by the integrator.
// At or beyond capacity, and at zero volume, growth stops rather than
// erroring: those are expected boundary states of a converging system.
func (m *Model) derivatives(t float64, y []float64) []float64 {
	ns, nr := y[0], y[1]
	total := ns + nr
	if total <= 0 || total >= m.capacity {
		return []float64{0, 0}
	}
	g := math.Log(m.capacity / total)

	rs := m.SensitiveRateAdjusted()
	rr := m.ResistantRateAdjusted()
	beta := m.active.Beta(t - m.treatmentStart)
	mu := m.cfg.MutationRate

	return []float64{
		rs*ns*g - beta*ns - mu*ns,
		rr*nr*g + mu*ns,
	}
}

// SensitiveRateAdjusted is the sensitive clone's effective growth rate:
// base rate scaled by age, diet and genetic modifiers.
func (m *Model) SensitiveRateAdjusted() float64 {
	return m.cfg.SensitiveRate * m.profile.AgeGrowthModifier() * m.profile.DietModifier() * m.profile.GeneticFactor()
}

// ResistantRateAdjusted is the resistant clone's effective growth rate.
// Age has no effect on resistant growth.
func (m *Model) ResistantRateAdjusted() float64 {
	return m.cfg.ResistantRate * m.profile.DietModifier() * m.profile.GeneticFactor()
}

// SetTreatment assigns the active therapy, resetting the elapsed-time
// reference to the current clock and recording the transition. The zero
// Treatment value is the None variant, so there is nothing to validate.
func (m *Model) SetTreatment(tr treatment.Treatment) {
	m.changes = append(m.changes, TreatmentChange{
		From: m.active.Kind,
		To:   tr.Kind,
		Time: m.currentTime,
	})
	m.active = tr
	m.treatmentStart = m.currentTime
}

// SimulateStep integrates the model forward by the given number of days,
// advancing the clock and appending one history entry. A non-positive
// duration is an exact no-op: state, clock and history are untouched.
func (m *Model) SimulateStep(days float64) (sensitive, resistant float64) {
	if days <= 0 {
		return m.sensitive, m.resistant
	}
	y, _, err := m.integ.Integrate(m.currentTime, []float64{m.sensitive, m.resistant}, m.currentTime+days, false)
	if err != nil {
		// Unreachable: the target time is always ahead of the clock.
		panic(err)
	}
	m.sensitive, m.resistant = y[0], y[1]
	m.currentTime += days
	m.history = append(m.history, HistoryPoint{
		Time:      m.currentTime,
		Sensitive: m.sensitive,
		Resistant: m.resistant,
	})
	return m.sensitive, m.resistant
}

// SimulateDays steps the model one day at a time, returning the state at
// the end of each day. Day indices are relative to the call, starting at 1.
func (m *Model) SimulateDays(n int) []DayPoint {
	points := make([]DayPoint, 0, max(n, 0))
	for day := 1; day <= n; day++ {
		ns, nr := m.SimulateStep(1.0)
		points = append(points, DayPoint{
			Day:       day,
			Sensitive: ns,
			Resistant: nr,
			Total:     ns + nr,
			Stage:     StageForVolume(ns + nr).String(),
		})
	}
	return points
}

// ApproximateStage maps the current total volume to its TNM-like bucket.
func (m *Model) ApproximateStage() Stage {
	return StageForVolume(m.TotalVolume())
}

// DoublingTime returns ln(2) divided by the adjusted sensitive growth
// rate, in days; +Inf when the rate is not positive.
func (m *Model) DoublingTime() float64 {
	rs := m.SensitiveRateAdjusted()
	if rs <= 0 {
		return math.Inf(1)
	}
	return math.Ln2 / rs
}

// Sensitive returns the sensitive population volume in cm³.
func (m *Model) Sensitive() float64 { return m.sensitive }

// Resistant returns the resistant population volume in cm³.
func (m *Model) Resistant() float64 { return m.resistant }

// TotalVolume returns the combined tumor volume in cm³.
func (m *Model) TotalVolume() float64 { return m.sensitive + m.resistant }

// Capacity returns the carrying capacity in cm³.
func (m *Model) Capacity() float64 { return m.capacity }

// CurrentTime returns the simulated days elapsed.
func (m *Model) CurrentTime() float64 { return m.currentTime }

// ActiveTreatment returns the currently assigned therapy.
func (m *Model) ActiveTreatment() treatment.Treatment { return m.active }

// TreatmentElapsed returns days since the active therapy was assigned,
// or 0 when no therapy has been assigned yet.
func (m *Model) TreatmentElapsed() float64 {
	e := m.currentTime - m.treatmentStart
	if e < 0 || math.IsInf(m.treatmentStart, 1) {
		return 0
	}
	return e
}

// History returns the append-only audit trail, one entry per completed
// stepping operation. The returned slice is shared; callers must not
// mutate it.
func (m *Model) History() []HistoryPoint { return m.history }

// Changes returns the treatment transition log.
func (m *Model) Changes() []TreatmentChange { return m.changes }

// Profile returns the patient profile the model was built with.
func (m *Model) Profile() patient.Profile { return m.profile }

// Config returns the calibration in effect.
func (m *Model) Config() Config { return m.cfg }

// Snapshot is the JSON-ready view of all observable model fields: the
// boundary handed to downstream reporting and persistence.
type Snapshot struct {
	Patient        patient.Snapshot    `json:"patient"`
	Sensitive      float64             `json:"sensitive"`
	Resistant      float64             `json:"resistant"`
	Total          float64             `json:"total"`
	Capacity       float64             `json:"capacity"`
	CurrentTime    float64             `json:"currentTime"`
	Treatment      treatment.Treatment `json:"treatment"`
	TreatmentStart *float64            `json:"treatmentStart,omitempty"` // nil until a treatment is assigned
	Stage          string              `json:"stage"`
	DoublingTime   float64             `json:"doublingTime"`
	Config         Config              `json:"config"`
}

// Snapshot captures the current observable state.
func (m *Model) Snapshot() Snapshot {
	s := Snapshot{
		Patient:      m.profile.Snapshot(),
		Sensitive:    m.sensitive,
		Resistant:    m.resistant,
		Total:        m.TotalVolume(),
		Capacity:     m.capacity,
		CurrentTime:  m.currentTime,
		Treatment:    m.active,
		Stage:        m.ApproximateStage().String(),
		DoublingTime: m.DoublingTime(),
		Config:       m.cfg,
	}
	if !math.IsInf(m.treatmentStart, 1) {
		start := m.treatmentStart
		s.TreatmentStart = &start
	}
	return s
}

// FromSnapshot reconstructs a model from a snapshot. History and the
// treatment transition log are not part of the observable state and start
// empty.
func FromSnapshot(s Snapshot) (*Model, error) {
	profile, err := patient.FromSnapshot(s.Patient)
	if err != nil {
		return nil, err
	}
	m, err := NewWithCapacity(profile, s.Sensitive, s.Resistant, s.Config, s.Capacity)
	if err != nil {
		return nil, err
	}
	m.currentTime = s.CurrentTime
	m.active = s.Treatment
	if s.TreatmentStart != nil {
		m.treatmentStart = *s.TreatmentStart
	}
	return m, nil
}
