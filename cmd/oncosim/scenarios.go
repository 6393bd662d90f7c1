package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/oncosim-xyz/go-oncosim/results"
	"github.com/oncosim-xyz/go-oncosim/scenarios"
)

func runScenarios(args []string) error {
	fs := flag.NewFlagSet("scenarios", flag.ExitOnError)
	run := fs.String("run", "", "Run this scenario instead of listing")
	output := fs.String("output", "", "Output file for results JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: oncosim scenarios [options]

List the preset clinical scenarios, or run one end to end.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *run == "" {
		fmt.Println("Available scenarios:")
		for _, name := range scenarios.List() {
			s, _ := scenarios.Get(name)
			fmt.Printf("  %-20s %s\n", name, s.Description())
		}
		return nil
	}

	s, err := scenarios.Get(*run)
	if err != nil {
		return err
	}

	logger.Info().Str("scenario", s.Name()).Msg("running scenario")
	model, plan, err := s.Build()
	if err != nil {
		return err
	}
	initSensitive, initResistant := model.Sensitive(), model.Resistant()

	start := time.Now()
	points := scenarios.Execute(model, plan)
	elapsed := time.Since(start)

	days := 0
	if len(points) > 0 {
		days = points[len(points)-1].Day
	}
	res := results.NewBuilder().
		WithModel(model, days).
		WithInitialState(initSensitive, initResistant).
		WithTrajectory(points, "RK4", elapsed.Seconds()).
		WithDoublingTime(model.DoublingTime()).
		WithAnalysis().
		Build()

	if *output != "" {
		if err := results.WriteJSON(res, *output); err != nil {
			return err
		}
		logger.Info().Str("file", *output).Msg("results written")
		return nil
	}
	return printSummary(res)
}
