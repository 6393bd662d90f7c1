package eventlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// csvHeader is the column order used for trajectory CSV files.
var csvHeader = []string{"run_id", "day", "sensitive", "resistant", "total", "stage", "treatment", "beta"}

// WriteCSV writes trajectory records to a CSV file.
func WriteCSV(filename string, records []Record) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := WriteCSVWriter(f, records); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSVWriter writes trajectory records as CSV to a writer.
func WriteCSVWriter(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, rec := range records {
		row := []string{
			rec.RunID,
			strconv.Itoa(rec.Day),
			strconv.FormatFloat(rec.Sensitive, 'g', -1, 64),
			strconv.FormatFloat(rec.Resistant, 'g', -1, 64),
			strconv.FormatFloat(rec.Total, 'g', -1, 64),
			rec.Stage,
			rec.Treatment,
			strconv.FormatFloat(rec.Beta, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseCSV parses a trajectory log from a CSV file.
func ParseCSV(filename string) (*Log, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ParseCSVReader(f)
}

// ParseCSVReader parses a trajectory log from a CSV reader. The first row
// must be the header written by WriteCSV.
func ParseCSVReader(r io.Reader) (*Log, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"run_id", "day", "sensitive", "resistant"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	log := NewLog()
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		line++

		rec := Record{RunID: row[col["run_id"]]}
		if rec.Day, err = strconv.Atoi(row[col["day"]]); err != nil {
			return nil, fmt.Errorf("line %d: bad day: %w", line, err)
		}
		if rec.Sensitive, err = strconv.ParseFloat(row[col["sensitive"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: bad sensitive volume: %w", line, err)
		}
		if rec.Resistant, err = strconv.ParseFloat(row[col["resistant"]], 64); err != nil {
			return nil, fmt.Errorf("line %d: bad resistant volume: %w", line, err)
		}
		if i, ok := col["total"]; ok {
			if rec.Total, err = strconv.ParseFloat(row[i], 64); err != nil {
				return nil, fmt.Errorf("line %d: bad total: %w", line, err)
			}
		} else {
			rec.Total = rec.Sensitive + rec.Resistant
		}
		if i, ok := col["stage"]; ok {
			rec.Stage = row[i]
		}
		if i, ok := col["treatment"]; ok {
			rec.Treatment = row[i]
		}
		if i, ok := col["beta"]; ok && row[i] != "" {
			if rec.Beta, err = strconv.ParseFloat(row[i], 64); err != nil {
				return nil, fmt.Errorf("line %d: bad beta: %w", line, err)
			}
		}
		log.Add(rec)
	}

	log.SortRuns()
	return log, nil
}
