// Package eventlog provides writing and parsing of simulation trajectory
// logs in CSV and JSONL formats, one record per simulated day plus optional
// treatment-course events.
package eventlog

import (
	"fmt"
	"sort"
)

// Record is one logged day of a simulation run.
type Record struct {
	RunID     string  `json:"run_id"`
	Day       int     `json:"day"`
	Sensitive float64 `json:"sensitive"`
	Resistant float64 `json:"resistant"`
	Total     float64 `json:"total"`
	Stage     string  `json:"stage"`
	Treatment string  `json:"treatment"`
	Beta      float64 `json:"beta"`
}

// Log groups trajectory records by run.
type Log struct {
	Runs map[string][]Record
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{Runs: make(map[string][]Record)}
}

// Add appends a record to its run's trajectory.
func (l *Log) Add(rec Record) {
	l.Runs[rec.RunID] = append(l.Runs[rec.RunID], rec)
}

// SortRuns orders every trajectory by day.
func (l *Log) SortRuns() {
	for _, records := range l.Runs {
		sort.Slice(records, func(i, j int) bool {
			return records[i].Day < records[j].Day
		})
	}
}

// RunIDs returns the run identifiers in sorted order.
func (l *Log) RunIDs() []string {
	ids := make([]string, 0, len(l.Runs))
	for id := range l.Runs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NumRuns returns the number of runs in the log.
func (l *Log) NumRuns() int {
	return len(l.Runs)
}

// NumRecords returns the total number of records across all runs.
func (l *Log) NumRecords() int {
	total := 0
	for _, records := range l.Runs {
		total += len(records)
	}
	return total
}

// Trajectory returns the records for one run, or an error if the run is
// not in the log.
func (l *Log) Trajectory(runID string) ([]Record, error) {
	records, ok := l.Runs[runID]
	if !ok {
		return nil, fmt.Errorf("run %q not in log", runID)
	}
	return records, nil
}
