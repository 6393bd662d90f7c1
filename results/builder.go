package results

import (
	"math"
	"time"

	"github.com/oncosim-xyz/go-oncosim/tumor"
)

// Builder helps construct Results from simulation output.
type Builder struct {
	results Results
}

// NewBuilder creates a new results builder.
func NewBuilder() *Builder {
	return &Builder{
		results: Results{
			Version: SchemaVersion,
			Metadata: Metadata{
				Timestamp: time.Now(),
			},
		},
	}
}

// WithModel records the patient, calibration and treatment course of the
// model the run was made with.
func (b *Builder) WithModel(m *tumor.Model, days int) *Builder {
	tr := m.ActiveTreatment()
	b.results.Patient = m.Profile().Snapshot()
	b.results.Simulation = Simulation{
		Days:      days,
		StepSize:  m.Config().StepSize,
		Capacity:  m.Capacity(),
		Treatment: tr.Code(),
		Config:    m.Config(),
	}
	b.results.Changes = m.Changes()
	if changes := m.Changes(); len(changes) > 0 {
		b.results.Simulation.TreatmentDay = changes[len(changes)-1].Time
	}
	return b
}

// WithInitialState records the starting volumes.
func (b *Builder) WithInitialState(sensitive, resistant float64) *Builder {
	b.results.Simulation.InitialSensitive = sensitive
	b.results.Simulation.InitialResistant = resistant
	return b
}

// WithTrajectory processes the per-day simulation output.
func (b *Builder) WithTrajectory(points []tumor.DayPoint, solverName string, computeTime float64) *Builder {
	b.results.Metadata.Solver = solverName
	b.results.Metadata.Status = "success"
	b.results.Metadata.ComputeTime = computeTime

	ts := Timeseries{
		Days:      make([]int, 0, len(points)),
		Sensitive: make([]float64, 0, len(points)),
		Resistant: make([]float64, 0, len(points)),
		Total:     make([]float64, 0, len(points)),
		Stages:    make([]string, 0, len(points)),
	}
	for _, p := range points {
		ts.Days = append(ts.Days, p.Day)
		ts.Sensitive = append(ts.Sensitive, p.Sensitive)
		ts.Resistant = append(ts.Resistant, p.Resistant)
		ts.Total = append(ts.Total, p.Total)
		ts.Stages = append(ts.Stages, p.Stage)
	}
	b.results.Data.Timeseries = ts

	if len(points) > 0 {
		last := points[len(points)-1]
		b.results.Data.Summary = Summary{
			Points:     len(points),
			FinalDay:   last.Day,
			FinalTotal: last.Total,
			FinalStage: last.Stage,
		}
	}
	return b
}

// WithDoublingTime records the model's doubling time unless it is infinite.
func (b *Builder) WithDoublingTime(days float64) *Builder {
	if !math.IsInf(days, 0) && !math.IsNaN(days) {
		b.results.Data.Summary.DoublingTime = days
	}
	return b
}

// WithError sets error status.
func (b *Builder) WithError(err error) *Builder {
	b.results.Metadata.Status = "error"
	b.results.Metadata.Error = err.Error()
	return b
}

// WithAnalysis computes and attaches derived analysis.
func (b *Builder) WithAnalysis() *Builder {
	b.results.Analysis = NewAnalyzer(&b.results).ComputeAll()
	return b
}

// Build returns the constructed Results.
func (b *Builder) Build() *Results {
	return &b.results
}
