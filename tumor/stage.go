package tumor

// Stage is a TNM-like bucket derived from total tumor volume.
type Stage int

const (
	StageIA Stage = iota
	StageIB
	StageIIA
	StageIIB
	StageIII
	StageIV
)

// String returns the clinical label for the stage.
func (s Stage) String() string {
	switch s {
	case StageIA:
		return "IA"
	case StageIB:
		return "IB"
	case StageIIA:
		return "IIA"
	case StageIIB:
		return "IIB"
	case StageIII:
		return "III"
	default:
		return "IV"
	}
}

// stageThresholds are the ascending volume cutoffs (cm³) for each stage
// below IV. Note the wider platform defines a slightly different table for
// detailed staging; the model intentionally keeps its own.
var stageThresholds = []struct {
	limit float64
	stage Stage
}{
	{3, StageIA},
	{14, StageIB},
	{28, StageIIA},
	{65, StageIIB},
	{100, StageIII},
}

// StageForVolume maps a total volume in cm³ to its stage bucket.
// It is a non-decreasing step function of volume.
func StageForVolume(volume float64) Stage {
	for _, t := range stageThresholds {
		if volume <= t.limit {
			return t.stage
		}
	}
	return StageIV
}
