package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/oncosim-xyz/go-oncosim/store"
)

func runs(args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	dbPath := fs.String("db", "runs.db", "SQLite database with persisted runs")
	id := fs.String("id", "", "Show the daily trajectory of one run")
	limit := fs.Int("limit", 20, "Maximum number of runs to list")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: oncosim runs [options]

List persisted simulation runs, or print one run's trajectory.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := context.Background()

	if *id != "" {
		run, err := s.GetRun(ctx, *id)
		if err != nil {
			return err
		}
		points, err := s.LoadTrajectory(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Printf("Run %s: %d days, treatment %s, final %.2f cm³ (stage %s)\n",
			run.ID, run.Days, run.Treatment, run.FinalVolume, run.FinalStage)
		fmt.Printf("%-6s %-12s %-12s %-12s %s\n", "DAY", "SENSITIVE", "RESISTANT", "TOTAL", "STAGE")
		for _, p := range points {
			fmt.Printf("%-6d %-12.3f %-12.3f %-12.3f %s\n",
				p.Day, p.Sensitive, p.Resistant, p.Total, p.Stage)
		}
		return nil
	}

	list, err := s.ListRuns(ctx, *limit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No runs stored.")
		return nil
	}
	fmt.Printf("%-38s %-20s %-10s %-6s %-10s %s\n", "ID", "CREATED", "TREATMENT", "DAYS", "FINAL", "STAGE")
	for _, run := range list {
		fmt.Printf("%-38s %-20s %-10s %-6d %-10.2f %s\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Treatment, run.Days, run.FinalVolume, run.FinalStage)
	}
	return nil
}
