package eventlog

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func sampleRecords() []Record {
	return []Record{
		{RunID: "run-a", Day: 1, Sensitive: 5.1, Resistant: 0.2, Total: 5.3, Stage: "IB", Treatment: "chemo", Beta: 0.05},
		{RunID: "run-a", Day: 2, Sensitive: 5.0, Resistant: 0.25, Total: 5.25, Stage: "IB", Treatment: "chemo", Beta: 0.08},
		{RunID: "run-b", Day: 1, Sensitive: 1.0, Resistant: 0.0, Total: 1.0, Stage: "IA", Treatment: "none", Beta: 0},
	}
}

func TestCSVRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSVWriter(&buf, sampleRecords()); err != nil {
		t.Fatal(err)
	}

	log, err := ParseCSVReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if log.NumRuns() != 2 {
		t.Errorf("expected 2 runs, got %d", log.NumRuns())
	}
	if log.NumRecords() != 3 {
		t.Errorf("expected 3 records, got %d", log.NumRecords())
	}

	traj, err := log.Trajectory("run-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(traj) != 2 || traj[0].Day != 1 || traj[1].Day != 2 {
		t.Errorf("unexpected trajectory %+v", traj)
	}
	if traj[1].Beta != 0.08 || traj[1].Stage != "IB" {
		t.Errorf("record fields lost in round-trip: %+v", traj[1])
	}
}

func TestCSVFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trajectory.csv")
	if err := WriteCSV(path, sampleRecords()); err != nil {
		t.Fatal(err)
	}
	log, err := ParseCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if log.NumRecords() != 3 {
		t.Errorf("expected 3 records, got %d", log.NumRecords())
	}
}

func TestCSVMissingColumn(t *testing.T) {
	input := "run_id,day\nrun-a,1\n"
	if _, err := ParseCSVReader(strings.NewReader(input)); err == nil {
		t.Error("expected error for missing required column")
	}
}

func TestCSVDerivesTotal(t *testing.T) {
	input := "run_id,day,sensitive,resistant\nrun-a,1,2.5,0.5\n"
	log, err := ParseCSVReader(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	traj, _ := log.Trajectory("run-a")
	if traj[0].Total != 3.0 {
		t.Errorf("expected derived total 3.0, got %g", traj[0].Total)
	}
}

func TestJSONLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONLWriter(&buf, sampleRecords()); err != nil {
		t.Fatal(err)
	}

	log, err := ParseJSONLReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if log.NumRuns() != 2 || log.NumRecords() != 3 {
		t.Errorf("expected 2 runs / 3 records, got %d / %d", log.NumRuns(), log.NumRecords())
	}
	traj, err := log.Trajectory("run-b")
	if err != nil {
		t.Fatal(err)
	}
	if traj[0].Treatment != "none" {
		t.Errorf("unexpected record %+v", traj[0])
	}
}

func TestJSONLSkipsEmptyLines(t *testing.T) {
	input := `{"run_id":"r","day":1,"sensitive":1,"resistant":0}

{"run_id":"r","day":2,"sensitive":1.1,"resistant":0}
`
	log, err := ParseJSONLReader(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if log.NumRecords() != 2 {
		t.Errorf("expected 2 records, got %d", log.NumRecords())
	}
}

func TestJSONLBadLine(t *testing.T) {
	input := "{not json}\n"
	if _, err := ParseJSONLReader(strings.NewReader(input)); err == nil {
		t.Error("expected error for invalid JSON line")
	}
}

func TestSortRuns(t *testing.T) {
	log := NewLog()
	log.Add(Record{RunID: "r", Day: 3})
	log.Add(Record{RunID: "r", Day: 1})
	log.Add(Record{RunID: "r", Day: 2})
	log.SortRuns()
	traj, _ := log.Trajectory("r")
	for i, rec := range traj {
		if rec.Day != i+1 {
			t.Fatalf("expected day %d at index %d, got %d", i+1, i, rec.Day)
		}
	}
}
