package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func main() {
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if os.Getenv("ONCOSIM_DEBUG") == "" {
		logger = logger.Level(zerolog.InfoLevel)
	} else {
		logger = logger.Level(zerolog.DebugLevel)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "simulate":
		if err := simulate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "analyze":
		if err := analyze(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "sweep":
		if err := sweep(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "plot":
		if err := plot(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "treatments":
		if err := treatments(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "scenarios":
		if err := runScenarios(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "runs":
		if err := runs(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("oncosim version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`oncosim - lung tumor growth simulation tool

Usage:
  oncosim <command> [options]

Commands:
  simulate    Run a day-by-day tumor growth simulation
  analyze     Compute insights from simulation results
  sweep       Rank treatments and sweep efficacy parameters
  plot        Render simulation results as an SVG plot
  treatments  List the treatment catalog
  scenarios   List or run preset clinical scenarios
  runs        List or inspect persisted runs
  help        Show this help message
  version     Show version information

Examples:
  # Simulate two years of untreated growth
  oncosim simulate --age 62 --sensitive 1.0 --days 730 --output run.json

  # Chemotherapy starting on day 30
  oncosim simulate --age 62 --treatment chemotherapy --treatment-day 30 \
    --days 365 --output run.json --db runs.db

  # Analyze a finished run
  oncosim analyze run.json

  # Rank treatments for a patient
  oncosim sweep --age 70 --smoker --pack-years 40 --days 180

For command-specific help, run:
  oncosim <command> --help`)
}
