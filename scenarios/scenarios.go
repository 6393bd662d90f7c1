// Package scenarios provides preset clinical simulation scenarios.
package scenarios

import (
	"fmt"
	"sort"

	"github.com/oncosim-xyz/go-oncosim/patient"
	"github.com/oncosim-xyz/go-oncosim/treatment"
	"github.com/oncosim-xyz/go-oncosim/tumor"
)

// Plan describes the therapy course a scenario prescribes.
type Plan struct {
	Treatment treatment.Treatment
	StartDay  int // days of untreated growth before the course starts
	Days      int // total simulation horizon
}

// Scenario builds a ready-to-run model and its treatment plan.
type Scenario interface {
	Name() string
	Description() string
	Build() (*tumor.Model, Plan, error)
}

// Registry holds all available scenarios.
var Registry = map[string]Scenario{
	"natural-history":    &NaturalHistory{},
	"elderly-smoker":     &ElderlySmoker{},
	"early-resection":    &EarlyResection{},
	"fractionated-radio": &FractionatedRadio{},
	"immuno-maintenance": &ImmunoMaintenance{},
}

// Get returns a scenario by name.
func Get(name string) (Scenario, error) {
	s, ok := Registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %s", name)
	}
	return s, nil
}

// List returns all scenario names, sorted.
func List() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NaturalHistory follows an untreated tumor in a middle-aged
// nonsmoker over two years.
type NaturalHistory struct{}

func (s *NaturalHistory) Name() string { return "natural-history" }

func (s *NaturalHistory) Description() string {
	return "Untreated growth over two years in a 55-year-old nonsmoker"
}

func (s *NaturalHistory) Build() (*tumor.Model, Plan, error) {
	p, err := patient.New(55, false, 0, patient.DietNormal, 1.0)
	if err != nil {
		return nil, Plan{}, err
	}
	m, err := tumor.New(p, 0.5, 0, tumor.DefaultConfig())
	if err != nil {
		return nil, Plan{}, err
	}
	return m, Plan{Treatment: treatment.NewNone(), Days: 730}, nil
}

// ElderlySmoker models chemotherapy for a 72-year-old heavy smoker
// with an advanced tumor, starting two weeks after diagnosis.
type ElderlySmoker struct{}

func (s *ElderlySmoker) Name() string { return "elderly-smoker" }

func (s *ElderlySmoker) Description() string {
	return "Chemotherapy from day 14 for a 72-year-old with 45 pack-years"
}

func (s *ElderlySmoker) Build() (*tumor.Model, Plan, error) {
	p, err := patient.New(72, true, 45, patient.DietPoor, 1.2)
	if err != nil {
		return nil, Plan{}, err
	}
	m, err := tumor.New(p, 20, 1, tumor.DefaultConfig())
	if err != nil {
		return nil, Plan{}, err
	}
	return m, Plan{Treatment: treatment.NewChemotherapy(), StartDay: 14, Days: 365}, nil
}

// EarlyResection models surgery one week after an early-stage finding
// in a healthy 48-year-old.
type EarlyResection struct{}

func (s *EarlyResection) Name() string { return "early-resection" }

func (s *EarlyResection) Description() string {
	return "Surgical resection on day 7 of an early-stage tumor"
}

func (s *EarlyResection) Build() (*tumor.Model, Plan, error) {
	p, err := patient.New(48, false, 0, patient.DietHealthy, 0.9)
	if err != nil {
		return nil, Plan{}, err
	}
	m, err := tumor.New(p, 2.5, 0, tumor.DefaultConfig())
	if err != nil {
		return nil, Plan{}, err
	}
	course := treatment.NewSurgery()
	course.SurgeryDay = 7
	return m, Plan{Treatment: course, Days: 180}, nil
}

// FractionatedRadio models a standard 5-days-on, 2-days-off
// radiotherapy schedule for a moderate smoker.
type FractionatedRadio struct{}

func (s *FractionatedRadio) Name() string { return "fractionated-radio" }

func (s *FractionatedRadio) Description() string {
	return "Fractionated radiotherapy for a 63-year-old moderate smoker"
}

func (s *FractionatedRadio) Build() (*tumor.Model, Plan, error) {
	p, err := patient.New(63, true, 25, patient.DietNormal, 1.0)
	if err != nil {
		return nil, Plan{}, err
	}
	m, err := tumor.New(p, 12, 0.5, tumor.DefaultConfig())
	if err != nil {
		return nil, Plan{}, err
	}
	return m, Plan{Treatment: treatment.NewRadiotherapy(), Days: 120}, nil
}

// ImmunoMaintenance models a slow-activating immunotherapy course
// started a month into observation.
type ImmunoMaintenance struct{}

func (s *ImmunoMaintenance) Name() string { return "immuno-maintenance" }

func (s *ImmunoMaintenance) Description() string {
	return "Immunotherapy from day 30 in a 66-year-old nonsmoker"
}

func (s *ImmunoMaintenance) Build() (*tumor.Model, Plan, error) {
	p, err := patient.New(66, false, 0, patient.DietNormal, 0.9)
	if err != nil {
		return nil, Plan{}, err
	}
	m, err := tumor.New(p, 8, 0.8, tumor.DefaultConfig())
	if err != nil {
		return nil, Plan{}, err
	}
	return m, Plan{Treatment: treatment.NewImmunotherapy(), StartDay: 30, Days: 365}, nil
}

// Run executes a scenario end to end and returns the daily trajectory.
func Run(s Scenario) (*tumor.Model, []tumor.DayPoint, error) {
	m, plan, err := s.Build()
	if err != nil {
		return nil, nil, err
	}
	return m, Execute(m, plan), nil
}

// Execute simulates a built model under its plan. Callers that need the
// pre-treatment state (the model mutates as it simulates) should read it
// off the model before calling.
func Execute(m *tumor.Model, plan Plan) []tumor.DayPoint {
	var points []tumor.DayPoint
	if plan.Treatment.Kind != treatment.None && plan.StartDay > 0 {
		points = append(points, m.SimulateDays(plan.StartDay)...)
		m.SetTreatment(plan.Treatment)
		rest := m.SimulateDays(plan.Days - plan.StartDay)
		for i := range rest {
			rest[i].Day += plan.StartDay
		}
		points = append(points, rest...)
		return points
	}

	if plan.Treatment.Kind != treatment.None {
		m.SetTreatment(plan.Treatment)
	}
	return m.SimulateDays(plan.Days)
}
