package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/oncosim-xyz/go-oncosim/treatment"
)

func treatments(args []string) error {
	fs := flag.NewFlagSet("treatments", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: oncosim treatments\n\nList the treatment catalog.\n")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Printf("%-14s %-8s %-10s %s\n", "NAME", "CODE", "CYCLE", "MAX EFFICACY")
	for _, tr := range treatment.Catalog() {
		cycle := "-"
		if tr.CycleDuration() > 0 {
			cycle = fmt.Sprintf("%.0fd", tr.CycleDuration())
		}
		fmt.Printf("%-14s %-8s %-10s %.2f\n", tr.Name(), tr.Code(), cycle, tr.MaxEfficacy)
	}
	return nil
}
