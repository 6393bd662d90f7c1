package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/oncosim-xyz/go-oncosim/cache"
	"github.com/oncosim-xyz/go-oncosim/sensitivity"
	"github.com/oncosim-xyz/go-oncosim/treatment"
	"github.com/oncosim-xyz/go-oncosim/tumor"
)

func sweep(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	pf := registerPatientFlags(fs)
	sensitive := fs.Float64("sensitive", 10.0, "Initial sensitive tumor volume in cm³")
	resistant := fs.Float64("resistant", 1.0, "Initial resistant tumor volume in cm³")
	days := fs.Int("days", 180, "Simulation horizon in days")
	efficacyOf := fs.String("efficacy-of", "", "Also sweep beta_max for this treatment")
	steps := fs.Int("steps", 6, "Number of efficacy values to test")
	minEff := fs.Float64("min", 0.05, "Lowest beta_max to test")
	maxEff := fs.Float64("max", 0.30, "Highest beta_max to test")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: oncosim sweep [options]

Rank every treatment in the catalog against the untreated baseline for one
patient, and optionally sweep the efficacy of a single treatment.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	profile, err := pf.profile()
	if err != nil {
		return err
	}

	analyzer := sensitivity.NewAnalyzer(sensitivity.Case{
		Profile:   profile,
		Sensitive: *sensitive,
		Resistant: *resistant,
		Days:      *days,
		Config:    tumor.DefaultConfig(),
	}, sensitivity.FinalVolumeScorer()).
		WithCache(cache.NewTrajectoryCache(0))

	logger.Info().Int("days", *days).Msg("ranking treatments")
	result, err := analyzer.AnalyzeTreatmentsParallel()
	if err != nil {
		return err
	}

	fmt.Printf("Untreated baseline after %d days: %.2f cm³\n\n", *days, result.Baseline)
	fmt.Println("Treatment impact (final volume vs baseline):")
	for _, ranked := range result.Ranking {
		fmt.Printf("  %-8s %+.2f cm³ (final %.2f)\n",
			ranked.Code, ranked.Impact, result.Scores[ranked.Code])
	}

	if *efficacyOf != "" {
		course, err := treatment.Lookup(*efficacyOf)
		if err != nil {
			return err
		}
		sweepRes, err := analyzer.SweepEfficacyRange(course, *minEff, *maxEff, *steps)
		if err != nil {
			return err
		}
		fmt.Printf("\nEfficacy sweep for %s:\n", course.Name())
		for i, v := range sweepRes.Values {
			fmt.Printf("  beta_max %.3f -> final %.2f cm³\n", v, sweepRes.Scores[i])
		}
		fmt.Printf("Best: beta_max %.3f (final %.2f cm³)\n", sweepRes.Best.Value, sweepRes.Best.Score)
	}
	return nil
}
