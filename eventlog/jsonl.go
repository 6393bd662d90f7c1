package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSONL writes trajectory records to a JSONL (JSON Lines) file, one
// JSON object per line.
func WriteJSONL(filename string, records []Record) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := WriteJSONLWriter(f, records); err != nil {
		return err
	}
	return f.Close()
}

// WriteJSONLWriter writes trajectory records as JSONL to a writer.
func WriteJSONLWriter(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// ParseJSONL parses a trajectory log from a JSONL file.
func ParseJSONL(filename string) (*Log, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ParseJSONLReader(f)
}

// ParseJSONLReader parses a trajectory log from a JSONL reader. Empty
// lines are skipped.
func ParseJSONLReader(r io.Reader) (*Log, error) {
	log := NewLog()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}
		if rec.Total == 0 && (rec.Sensitive != 0 || rec.Resistant != 0) {
			rec.Total = rec.Sensitive + rec.Resistant
		}
		log.Add(rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	log.SortRuns()
	return log, nil
}
