// Package sensitivity provides tools for analyzing how tumor trajectories
// change with the choice of therapy and its calibration: treatment impact
// ranking, efficacy sweeps, and gradient estimation.
package sensitivity

import (
	"math"
	"sort"
	"sync"

	"github.com/oncosim-xyz/go-oncosim/cache"
	"github.com/oncosim-xyz/go-oncosim/patient"
	"github.com/oncosim-xyz/go-oncosim/treatment"
	"github.com/oncosim-xyz/go-oncosim/tumor"
)

// Scorer evaluates a daily trajectory and returns a score. Lower scores
// mean a better clinical outcome for the built-in scorers.
type Scorer func(points []tumor.DayPoint) float64

// FinalVolumeScorer scores a run by its final total volume.
func FinalVolumeScorer() Scorer {
	return func(points []tumor.DayPoint) float64 {
		if len(points) == 0 {
			return 0
		}
		return points[len(points)-1].Total
	}
}

// NadirScorer scores a run by the minimum total volume reached.
func NadirScorer() Scorer {
	return func(points []tumor.DayPoint) float64 {
		if len(points) == 0 {
			return 0
		}
		nadir := points[0].Total
		for _, p := range points {
			if p.Total < nadir {
				nadir = p.Total
			}
		}
		return nadir
	}
}

// StageScorer scores a run by its final stage, IA=0 through IV=5.
func StageScorer() Scorer {
	return func(points []tumor.DayPoint) float64 {
		if len(points) == 0 {
			return 0
		}
		last := points[len(points)-1]
		return float64(tumor.StageForVolume(last.Total))
	}
}

// ResistantShareScorer scores a run by the final resistant fraction of the
// tumor, a proxy for how hard the remaining disease is to treat.
func ResistantShareScorer() Scorer {
	return func(points []tumor.DayPoint) float64 {
		if len(points) == 0 {
			return 0
		}
		last := points[len(points)-1]
		if last.Total == 0 {
			return 0
		}
		return last.Resistant / last.Total
	}
}

// Case is the base scenario an Analyzer perturbs: one patient, one initial
// tumor state, one simulation horizon.
type Case struct {
	Profile   patient.Profile
	Sensitive float64
	Resistant float64
	Capacity  float64 // 0 means derive from the profile
	Days      int
	Config    tumor.Config
}

// Result holds the result of a treatment impact analysis.
type Result struct {
	Baseline float64            // Score of the untreated run
	Scores   map[string]float64 // Score per treatment code
	Impact   map[string]float64 // Change from baseline (Score - Baseline)
	Ranking  []RankedTreatment  // Treatments sorted by absolute impact
}

// RankedTreatment pairs a treatment code with its impact.
type RankedTreatment struct {
	Code   string
	Impact float64
}

// Analyzer evaluates treatment choices against a base case.
type Analyzer struct {
	base   Case
	scorer Scorer
	cache  *cache.TrajectoryCache
}

// NewAnalyzer creates an analyzer for the given base case.
func NewAnalyzer(base Case, scorer Scorer) *Analyzer {
	if scorer == nil {
		scorer = FinalVolumeScorer()
	}
	return &Analyzer{base: base, scorer: scorer}
}

// WithCache memoizes trajectories across sweeps and gradient probes.
// Sweeps over overlapping value grids re-simulate identical scenarios;
// a shared cache eliminates the duplicate work.
func (a *Analyzer) WithCache(c *cache.TrajectoryCache) *Analyzer {
	a.cache = c
	return a
}

// simulate runs one scenario with the given therapy and returns the score.
func (a *Analyzer) simulate(tr treatment.Treatment) (float64, error) {
	points, err := a.trajectory(tr)
	if err != nil {
		return 0, err
	}
	return a.scorer(points), nil
}

func (a *Analyzer) trajectory(tr treatment.Treatment) ([]tumor.DayPoint, error) {
	if a.cache == nil {
		return a.run(tr)
	}
	key := cache.Key{
		Age:       a.base.Profile.Age(),
		PackYears: a.base.Profile.PackYears(),
		Diet:      string(a.base.Profile.Diet()),
		Genetic:   a.base.Profile.GeneticFactor(),
		Sensitive: a.base.Sensitive,
		Resistant: a.base.Resistant,
		Capacity:  a.base.Capacity,
		Days:      a.base.Days,
		Config:    a.base.Config,
	}
	if tr.Kind != treatment.None {
		key.Treatment = &tr
	}
	return a.cache.GetOrCompute(key, func() ([]tumor.DayPoint, error) {
		return a.run(tr)
	})
}

func (a *Analyzer) run(tr treatment.Treatment) ([]tumor.DayPoint, error) {
	var m *tumor.Model
	var err error
	if a.base.Capacity > 0 {
		m, err = tumor.NewWithCapacity(a.base.Profile, a.base.Sensitive, a.base.Resistant, a.base.Config, a.base.Capacity)
	} else {
		m, err = tumor.New(a.base.Profile, a.base.Sensitive, a.base.Resistant, a.base.Config)
	}
	if err != nil {
		return nil, err
	}
	if tr.Kind != treatment.None {
		m.SetTreatment(tr)
	}
	return m.SimulateDays(a.base.Days), nil
}

// AnalyzeTreatments scores every catalog therapy against the untreated
// baseline and ranks them by absolute impact.
func (a *Analyzer) AnalyzeTreatments() (*Result, error) {
	result := &Result{
		Scores: make(map[string]float64),
		Impact: make(map[string]float64),
	}

	baseline, err := a.simulate(treatment.NewNone())
	if err != nil {
		return nil, err
	}
	result.Baseline = baseline

	for _, tr := range treatment.Catalog() {
		if tr.Kind == treatment.None {
			continue
		}
		score, err := a.simulate(tr)
		if err != nil {
			return nil, err
		}
		result.Scores[tr.Code()] = score
		result.Impact[tr.Code()] = score - baseline
	}

	result.Ranking = rankByImpact(result.Impact)
	return result, nil
}

// AnalyzeTreatmentsParallel is AnalyzeTreatments with one goroutine per
// therapy. Each simulation owns its model, so runs share no mutable state.
func (a *Analyzer) AnalyzeTreatmentsParallel() (*Result, error) {
	result := &Result{
		Scores: make(map[string]float64),
		Impact: make(map[string]float64),
	}

	baseline, err := a.simulate(treatment.NewNone())
	if err != nil {
		return nil, err
	}
	result.Baseline = baseline

	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error

	for _, tr := range treatment.Catalog() {
		if tr.Kind == treatment.None {
			continue
		}
		wg.Add(1)
		go func(tr treatment.Treatment) {
			defer wg.Done()
			score, err := a.simulate(tr)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			result.Scores[tr.Code()] = score
			result.Impact[tr.Code()] = score - baseline
		}(tr)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	result.Ranking = rankByImpact(result.Impact)
	return result, nil
}

// rankByImpact sorts treatments by absolute impact (descending).
func rankByImpact(impact map[string]float64) []RankedTreatment {
	ranking := make([]RankedTreatment, 0, len(impact))
	for code, imp := range impact {
		ranking = append(ranking, RankedTreatment{Code: code, Impact: imp})
	}
	sort.Slice(ranking, func(i, j int) bool {
		return math.Abs(ranking[i].Impact) > math.Abs(ranking[j].Impact)
	})
	return ranking
}

// SweepResult holds results from an efficacy sweep.
type SweepResult struct {
	Treatment string
	Values    []float64
	Scores    []float64
	Best      struct {
		Value float64
		Score float64
	}
	Worst struct {
		Value float64
		Score float64
	}
}

// SweepEfficacy tests a range of beta_max values for one therapy kind.
// Best is the lowest score (smallest remaining tumor), Worst the highest.
func (a *Analyzer) SweepEfficacy(tr treatment.Treatment, values []float64) (*SweepResult, error) {
	result := &SweepResult{
		Treatment: tr.Code(),
		Values:    values,
		Scores:    make([]float64, len(values)),
	}

	bestScore := math.Inf(1)
	worstScore := math.Inf(-1)

	for i, val := range values {
		test := tr
		test.MaxEfficacy = val

		score, err := a.simulate(test)
		if err != nil {
			return nil, err
		}
		result.Scores[i] = score

		if score < bestScore {
			bestScore = score
			result.Best.Value = val
			result.Best.Score = score
		}
		if score > worstScore {
			worstScore = score
			result.Worst.Value = val
			result.Worst.Score = score
		}
	}

	return result, nil
}

// SweepEfficacyRange tests evenly spaced beta_max values in [min, max].
// Fewer than two steps collapse to testing min alone.
func (a *Analyzer) SweepEfficacyRange(tr treatment.Treatment, min, max float64, steps int) (*SweepResult, error) {
	if steps < 2 {
		return a.SweepEfficacy(tr, []float64{min})
	}
	values := make([]float64, steps)
	for i := 0; i < steps; i++ {
		values[i] = min + (max-min)*float64(i)/float64(steps-1)
	}
	return a.SweepEfficacy(tr, values)
}

// Gradient estimates d(score)/d(beta_max) for a therapy using a central
// difference: (f(x+h) - f(x-h)) / (2h).
func (a *Analyzer) Gradient(tr treatment.Treatment, h float64) (float64, error) {
	if h == 0 {
		h = 0.01 * tr.MaxEfficacy
		if h == 0 {
			h = 0.01
		}
	}

	plus := tr
	plus.MaxEfficacy = tr.MaxEfficacy + h
	scorePlus, err := a.simulate(plus)
	if err != nil {
		return 0, err
	}

	minus := tr
	minus.MaxEfficacy = tr.MaxEfficacy - h
	if minus.MaxEfficacy < 0 {
		minus.MaxEfficacy = 0
	}
	scoreMinus, err := a.simulate(minus)
	if err != nil {
		return 0, err
	}

	// The lower point clamps at 0, so divide by the actual interval
	// rather than 2h or the estimate is biased for beta_max < h.
	return (scorePlus - scoreMinus) / (plus.MaxEfficacy - minus.MaxEfficacy), nil
}
