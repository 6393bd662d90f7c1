package results

import "math"

// Analyzer computes clinical insights from a finished run.
type Analyzer struct {
	results *Results
}

// NewAnalyzer creates an analyzer for results.
func NewAnalyzer(r *Results) *Analyzer {
	return &Analyzer{results: r}
}

// ComputeAll runs all analysis functions.
func (a *Analyzer) ComputeAll() *Analysis {
	analysis := &Analysis{
		Statistics: make(map[string]Stat),
	}

	ts := a.results.Data.Timeseries
	if len(ts.Total) == 0 {
		analysis.Response = ResponseStable
		return analysis
	}

	analysis.Nadir = a.findNadir()
	analysis.Peak = a.findPeak()
	analysis.Response = a.classifyResponse()
	analysis.StageTransitions = a.findStageTransitions()
	analysis.SteadyState = a.detectSteadyState(0.001, 10)

	analysis.Statistics["sensitive"] = computeStats(ts.Sensitive)
	analysis.Statistics["resistant"] = computeStats(ts.Resistant)
	analysis.Statistics["total"] = computeStats(ts.Total)

	return analysis
}

// findNadir locates the minimum of the total volume curve.
func (a *Analyzer) findNadir() *Extremum {
	ts := a.results.Data.Timeseries
	best := 0
	for i, v := range ts.Total {
		if v < ts.Total[best] {
			best = i
		}
	}
	return &Extremum{Day: ts.Days[best], Value: ts.Total[best]}
}

// findPeak locates the maximum of the total volume curve.
func (a *Analyzer) findPeak() *Extremum {
	ts := a.results.Data.Timeseries
	best := 0
	for i, v := range ts.Total {
		if v > ts.Total[best] {
			best = i
		}
	}
	return &Extremum{Day: ts.Days[best], Value: ts.Total[best]}
}

// classifyResponse buckets the run outcome by the ratio of final to
// initial total volume, RECIST-like: >=1.2x progressive, <=0.7x partial
// response, final volume below 0.1 cm³ complete response, else stable.
func (a *Analyzer) classifyResponse() string {
	ts := a.results.Data.Timeseries
	initial := a.results.Simulation.InitialSensitive + a.results.Simulation.InitialResistant
	final := ts.Total[len(ts.Total)-1]

	if final < 0.1 {
		return ResponseComplete
	}
	if initial <= 0 {
		return ResponseStable
	}
	switch ratio := final / initial; {
	case ratio >= 1.2:
		return ResponseProgressive
	case ratio <= 0.7:
		return ResponsePartial
	default:
		return ResponseStable
	}
}

// findStageTransitions records the first day of every stage change.
func (a *Analyzer) findStageTransitions() []StageTransition {
	ts := a.results.Data.Timeseries
	var transitions []StageTransition
	for i := 1; i < len(ts.Stages); i++ {
		if ts.Stages[i] != ts.Stages[i-1] {
			transitions = append(transitions, StageTransition{
				Day:  ts.Days[i],
				From: ts.Stages[i-1],
				To:   ts.Stages[i],
			})
		}
	}
	return transitions
}

// detectSteadyState reports the first day after which the total volume's
// relative daily change stays below relTol for windowDays consecutive days.
func (a *Analyzer) detectSteadyState(relTol float64, windowDays int) *SteadyState {
	ts := a.results.Data.Timeseries
	state := &SteadyState{Tolerance: relTol}
	if len(ts.Total) <= windowDays {
		return state
	}

	for i := windowDays; i < len(ts.Total); i++ {
		maxChange := 0.0
		for j := i - windowDays; j < i; j++ {
			if ts.Total[j] != 0 {
				change := math.Abs((ts.Total[j+1] - ts.Total[j]) / ts.Total[j])
				maxChange = math.Max(maxChange, change)
			}
		}
		if maxChange < relTol {
			state.Reached = true
			state.Day = ts.Days[i]
			return state
		}
	}
	return state
}

// computeStats returns min/max/mean/final for one series.
func computeStats(data []float64) Stat {
	if len(data) == 0 {
		return Stat{}
	}
	s := Stat{Min: data[0], Max: data[0], Final: data[len(data)-1]}
	sum := 0.0
	for _, v := range data {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = sum / float64(len(data))
	return s
}
