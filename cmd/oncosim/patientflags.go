package main

import (
	"flag"

	"github.com/oncosim-xyz/go-oncosim/patient"
)

// patientFlags holds the shared patient-profile flag values.
type patientFlags struct {
	age       *int
	smoker    *bool
	packYears *float64
	diet      *string
	genetic   *float64
}

// registerPatientFlags attaches the patient-profile flags to a flag set.
func registerPatientFlags(fs *flag.FlagSet) *patientFlags {
	return &patientFlags{
		age:       fs.Int("age", 55, "Patient age in years (18-100)"),
		smoker:    fs.Bool("smoker", false, "Patient is a smoker"),
		packYears: fs.Float64("pack-years", 0, "Cumulative smoking exposure in pack-years"),
		diet:      fs.String("diet", "normal", "Diet quality: healthy, normal or poor"),
		genetic:   fs.Float64("genetic", 1.0, "Genetic susceptibility factor (0.5-2.0)"),
	}
}

// profile validates the flag values into a Profile.
func (pf *patientFlags) profile() (patient.Profile, error) {
	diet, err := patient.ParseDiet(*pf.diet)
	if err != nil {
		return patient.Profile{}, err
	}
	return patient.New(*pf.age, *pf.smoker, *pf.packYears, diet, *pf.genetic)
}
