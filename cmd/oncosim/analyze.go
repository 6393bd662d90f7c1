package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/oncosim-xyz/go-oncosim/results"
)

func analyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	output := fs.String("output", "", "Write the re-analyzed results JSON to this file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: oncosim analyze <results.json> [options]

Compute derived clinical insights from a finished simulation run.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("results file required")
	}

	res, err := results.ReadJSON(fs.Arg(0))
	if err != nil {
		return err
	}

	analysis := results.NewAnalyzer(res).ComputeAll()
	res.Analysis = analysis

	fmt.Printf("Run of %d days, final volume %.2f cm³ (stage %s)\n",
		res.Data.Summary.FinalDay, res.Data.Summary.FinalTotal, res.Data.Summary.FinalStage)
	fmt.Printf("Response: %s\n", analysis.Response)
	if analysis.Nadir != nil {
		fmt.Printf("Nadir:    %.2f cm³ on day %d\n", analysis.Nadir.Value, analysis.Nadir.Day)
	}
	if analysis.Peak != nil {
		fmt.Printf("Peak:     %.2f cm³ on day %d\n", analysis.Peak.Value, analysis.Peak.Day)
	}
	if analysis.SteadyState != nil && analysis.SteadyState.Reached {
		fmt.Printf("Steady state reached on day %d\n", analysis.SteadyState.Day)
	}
	for _, tr := range analysis.StageTransitions {
		fmt.Printf("Stage %s -> %s on day %d\n", tr.From, tr.To, tr.Day)
	}
	for name, stat := range analysis.Statistics {
		fmt.Printf("%-10s min %.3f  max %.3f  mean %.3f  final %.3f\n",
			name, stat.Min, stat.Max, stat.Mean, stat.Final)
	}

	if *output != "" {
		return results.WriteJSON(res, *output)
	}
	return nil
}
