// Package results defines the structured output format for tumor growth
// simulation runs: a versioned JSON schema with the patient, the simulation
// parameters, the day-by-day trajectory, and derived clinical analysis.
package results

import (
	"time"

	"github.com/oncosim-xyz/go-oncosim/patient"
	"github.com/oncosim-xyz/go-oncosim/tumor"
)

const SchemaVersion = "1.0.0"

// Results contains complete simulation output.
type Results struct {
	Version    string                  `json:"version"`
	Metadata   Metadata                `json:"metadata"`
	Patient    patient.Snapshot        `json:"patient"`
	Simulation Simulation              `json:"simulation"`
	Data       Data                    `json:"results"`
	Analysis   *Analysis               `json:"analysis,omitempty"`
	Changes    []tumor.TreatmentChange `json:"treatmentChanges,omitempty"`
}

// Metadata contains simulation execution information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	Solver      string    `json:"solver"`
	Status      string    `json:"status"` // success, error
	Error       string    `json:"error,omitempty"`
	ComputeTime float64   `json:"computeTime"` // seconds
}

// Simulation contains the parameters used for the run.
type Simulation struct {
	Days             int          `json:"days"`
	StepSize         float64      `json:"stepSize"`
	InitialSensitive float64      `json:"initialSensitive"`
	InitialResistant float64      `json:"initialResistant"`
	Capacity         float64      `json:"capacity"`
	Treatment        string       `json:"treatment"`
	TreatmentDay     float64      `json:"treatmentDay"`
	Config           tumor.Config `json:"config"`
}

// Data contains the simulation results.
type Data struct {
	Summary    Summary    `json:"summary"`
	Timeseries Timeseries `json:"timeseries"`
}

// Summary provides a quick overview of the run outcome.
type Summary struct {
	Points       int     `json:"points"`
	FinalDay     int     `json:"finalDay"`
	FinalTotal   float64 `json:"finalTotal"`
	FinalStage   string  `json:"finalStage"`
	DoublingTime float64 `json:"doublingTime,omitempty"` // days; omitted when infinite
}

// Timeseries holds the per-day trajectory, one value per variable per day.
type Timeseries struct {
	Days      []int     `json:"days"`
	Sensitive []float64 `json:"sensitive"`
	Resistant []float64 `json:"resistant"`
	Total     []float64 `json:"total"`
	Stages    []string  `json:"stages"`
}

// Analysis contains derived clinical insights.
type Analysis struct {
	Nadir            *Extremum         `json:"nadir,omitempty"`
	Peak             *Extremum         `json:"peak,omitempty"`
	Response         string            `json:"response"` // progressive, stable, partial, complete
	StageTransitions []StageTransition `json:"stageTransitions,omitempty"`
	SteadyState      *SteadyState      `json:"steadyState,omitempty"`
	Statistics       map[string]Stat   `json:"statistics,omitempty"`
}

// Extremum marks a minimum or maximum of the total volume curve.
type Extremum struct {
	Day   int     `json:"day"`
	Value float64 `json:"value"`
}

// StageTransition records the first day a new stage was reached.
type StageTransition struct {
	Day  int    `json:"day"`
	From string `json:"from"`
	To   string `json:"to"`
}

// SteadyState describes whether the trajectory settled.
type SteadyState struct {
	Reached   bool    `json:"reached"`
	Day       int     `json:"day,omitempty"`
	Tolerance float64 `json:"tolerance"`
}

// Stat holds summary statistics for one variable.
type Stat struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Final float64 `json:"final"`
}

// Response classification labels.
const (
	ResponseProgressive = "progressive"
	ResponseStable      = "stable"
	ResponsePartial     = "partial"
	ResponseComplete    = "complete"
)
