package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/oncosim-xyz/go-oncosim/eventlog"
	"github.com/oncosim-xyz/go-oncosim/results"
	"github.com/oncosim-xyz/go-oncosim/store"
	"github.com/oncosim-xyz/go-oncosim/treatment"
	"github.com/oncosim-xyz/go-oncosim/tumor"
)

func simulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	pf := registerPatientFlags(fs)
	sensitive := fs.Float64("sensitive", 1.0, "Initial sensitive tumor volume in cm³")
	resistant := fs.Float64("resistant", 0.0, "Initial resistant tumor volume in cm³")
	capacity := fs.Float64("capacity", 0, "Carrying capacity override in cm³ (0 = derive from patient)")
	days := fs.Int("days", 365, "Number of days to simulate")
	step := fs.Float64("step", 0.1, "Integrator step size in days")
	treatmentName := fs.String("treatment", "none", "Treatment name or alias (e.g. chemotherapy, radioterapia)")
	treatmentDay := fs.Int("treatment-day", 0, "Day the treatment course starts")
	output := fs.String("output", "", "Output file for results JSON")
	csvOut := fs.String("csv", "", "Output file for the trajectory in CSV")
	jsonlOut := fs.String("jsonl", "", "Output file for the trajectory in JSONL")
	dbPath := fs.String("db", "", "SQLite database to persist the run into")
	withAnalysis := fs.Bool("analyze", true, "Compute automatic analysis")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: oncosim simulate [options]

Simulate lung tumor growth for one patient, day by day.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Untreated baseline
  oncosim simulate --age 62 --sensitive 1.0 --days 730 --output run.json

  # Smoker on radiotherapy from day 14
  oncosim simulate --age 58 --smoker --pack-years 35 \
    --treatment radiotherapy --treatment-day 14 --days 180 --output run.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	profile, err := pf.profile()
	if err != nil {
		return err
	}
	course, err := treatment.Lookup(*treatmentName)
	if err != nil {
		return err
	}
	if *treatmentDay < 0 || *treatmentDay > *days {
		return fmt.Errorf("treatment day %d outside simulation horizon", *treatmentDay)
	}

	cfg := tumor.DefaultConfig()
	cfg.StepSize = *step

	var model *tumor.Model
	if *capacity > 0 {
		model, err = tumor.NewWithCapacity(profile, *sensitive, *resistant, cfg, *capacity)
	} else {
		model, err = tumor.New(profile, *sensitive, *resistant, cfg)
	}
	if err != nil {
		return err
	}

	logger.Info().
		Int("days", *days).
		Str("treatment", course.Code()).
		Float64("initialVolume", model.TotalVolume()).
		Float64("capacity", model.Capacity()).
		Msg("starting simulation")

	start := time.Now()
	var points []tumor.DayPoint

	if course.Kind != treatment.None && *treatmentDay > 0 {
		points = append(points, model.SimulateDays(*treatmentDay)...)
		model.SetTreatment(course)
		rest := model.SimulateDays(*days - *treatmentDay)
		for i := range rest {
			rest[i].Day += *treatmentDay
		}
		points = append(points, rest...)
	} else {
		if course.Kind != treatment.None {
			model.SetTreatment(course)
		}
		points = model.SimulateDays(*days)
	}
	elapsed := time.Since(start)

	builder := results.NewBuilder().
		WithModel(model, *days).
		WithInitialState(*sensitive, *resistant).
		WithTrajectory(points, "RK4", elapsed.Seconds()).
		WithDoublingTime(model.DoublingTime())
	if *withAnalysis {
		builder.WithAnalysis()
	}
	res := builder.Build()

	logger.Info().
		Float64("finalVolume", res.Data.Summary.FinalTotal).
		Str("finalStage", res.Data.Summary.FinalStage).
		Dur("computeTime", elapsed).
		Msg("simulation complete")

	if *output != "" {
		if err := results.WriteJSON(res, *output); err != nil {
			return err
		}
		logger.Info().Str("file", *output).Msg("results written")
	}

	runID := "local"
	if *dbPath != "" {
		s, err := store.Open(*dbPath)
		if err != nil {
			return err
		}
		defer s.Close()
		runID, err = s.SaveRun(context.Background(), model.Snapshot(), *days, points)
		if err != nil {
			return err
		}
		logger.Info().Str("runID", runID).Str("db", *dbPath).Msg("run persisted")
	}

	if *csvOut != "" || *jsonlOut != "" {
		records := trajectoryRecords(runID, model, points)
		if *csvOut != "" {
			if err := eventlog.WriteCSV(*csvOut, records); err != nil {
				return err
			}
		}
		if *jsonlOut != "" {
			if err := eventlog.WriteJSONL(*jsonlOut, records); err != nil {
				return err
			}
		}
	}

	if *output == "" {
		return printSummary(res)
	}
	return nil
}

// trajectoryRecords converts day points into eventlog records, recovering
// the per-day beta from the treatment course.
func trajectoryRecords(runID string, m *tumor.Model, points []tumor.DayPoint) []eventlog.Record {
	course := m.ActiveTreatment()
	changes := m.Changes()
	startDay := 0.0
	if len(changes) > 0 {
		startDay = changes[len(changes)-1].Time
	}

	records := make([]eventlog.Record, 0, len(points))
	for _, p := range points {
		records = append(records, eventlog.Record{
			RunID:     runID,
			Day:       p.Day,
			Sensitive: p.Sensitive,
			Resistant: p.Resistant,
			Total:     p.Total,
			Stage:     p.Stage,
			Treatment: course.Code(),
			Beta:      course.Beta(float64(p.Day) - startDay),
		})
	}
	return records
}

func printSummary(res *results.Results) error {
	fmt.Printf("Patient: age %d, smoker=%v, diet=%s\n",
		res.Patient.Age, res.Patient.Smoker, res.Patient.Diet)
	fmt.Printf("Treatment: %s\n", res.Simulation.Treatment)
	fmt.Printf("Days simulated: %d\n", res.Data.Summary.FinalDay)
	fmt.Printf("Final volume: %.2f cm³ (stage %s)\n",
		res.Data.Summary.FinalTotal, res.Data.Summary.FinalStage)
	if res.Analysis != nil {
		fmt.Printf("Response: %s\n", res.Analysis.Response)
		if res.Analysis.Nadir != nil {
			fmt.Printf("Nadir: %.2f cm³ on day %d\n", res.Analysis.Nadir.Value, res.Analysis.Nadir.Day)
		}
	}
	return nil
}
