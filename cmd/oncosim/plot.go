package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/oncosim-xyz/go-oncosim/plotter"
	"github.com/oncosim-xyz/go-oncosim/results"
)

func plot(args []string) error {
	fs := flag.NewFlagSet("plot", flag.ExitOnError)
	output := fs.String("output", "", "Write the SVG to this file (default stdout)")
	width := fs.Float64("width", 900, "Plot width in pixels")
	height := fs.Float64("height", 480, "Plot height in pixels")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: oncosim plot <results.json> [options]

Render the volume trajectories of a finished run as an SVG plot.

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

	svg := plotter.PlotResults(res, *width, *height)
	if *output == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(*output, []byte(svg), 0644); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	logger.Info().Str("file", *output).Msg("plot written")
	return nil
}
