// Package patient defines the clinical profile that calibrates tumor growth
// simulations. A profile is validated once at construction and read-only
// afterwards; its derived rate modifiers are pure functions.
package patient

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidProfile is returned when profile parameters are out of range
// or internally inconsistent.
var ErrInvalidProfile = errors.New("invalid patient profile")

// Diet categorizes a patient's diet quality.
type Diet string

const (
	DietHealthy Diet = "healthy"
	DietNormal  Diet = "normal"
	DietPoor    Diet = "poor"
)

// ParseDiet resolves a diet name case-insensitively.
func ParseDiet(s string) (Diet, error) {
	switch Diet(strings.ToLower(s)) {
	case DietHealthy:
		return DietHealthy, nil
	case DietNormal, "":
		return DietNormal, nil
	case DietPoor:
		return DietPoor, nil
	}
	return "", fmt.Errorf("%w: unknown diet %q", ErrInvalidProfile, s)
}

// Profile holds immutable clinical parameters for one patient.
// Construct with New; the zero value is not valid.
type Profile struct {
	age           int
	smoker        bool
	packYears     float64
	diet          Diet
	geneticFactor float64
}

// New validates and constructs a Profile.
//
// Constraints: age in [18,100], packYears >= 0, geneticFactor in [0.5,2.0],
// and the smoking fields must be consistent: a smoker must have packYears > 0
// and a non-smoker must have packYears == 0.
func New(age int, smoker bool, packYears float64, diet Diet, geneticFactor float64) (Profile, error) {
	if age < 18 || age > 100 {
		return Profile{}, fmt.Errorf("%w: age %d outside [18,100]", ErrInvalidProfile, age)
	}
	if packYears < 0 {
		return Profile{}, fmt.Errorf("%w: pack-years %g is negative", ErrInvalidProfile, packYears)
	}
	if geneticFactor < 0.5 || geneticFactor > 2.0 {
		return Profile{}, fmt.Errorf("%w: genetic factor %g outside [0.5,2.0]", ErrInvalidProfile, geneticFactor)
	}
	if !smoker && packYears > 0 {
		return Profile{}, fmt.Errorf("%w: non-smoker with %g pack-years", ErrInvalidProfile, packYears)
	}
	if smoker && packYears == 0 {
		return Profile{}, fmt.Errorf("%w: smoker with zero pack-years", ErrInvalidProfile)
	}
	switch diet {
	case DietHealthy, DietNormal, DietPoor:
	default:
		return Profile{}, fmt.Errorf("%w: unknown diet %q", ErrInvalidProfile, diet)
	}
	return Profile{
		age:           age,
		smoker:        smoker,
		packYears:     packYears,
		diet:          diet,
		geneticFactor: geneticFactor,
	}, nil
}

// Age returns the patient's age in years.
func (p Profile) Age() int { return p.age }

// Smoker reports whether the patient is a smoker.
func (p Profile) Smoker() bool { return p.smoker }

// PackYears returns cumulative smoking exposure (packs/day x years).
func (p Profile) PackYears() float64 { return p.packYears }

// Diet returns the patient's diet category.
func (p Profile) Diet() Diet { return p.diet }

// GeneticFactor returns the genetic susceptibility multiplier.
func (p Profile) GeneticFactor() float64 { return p.geneticFactor }

// AgeGrowthModifier scales growth rates with age: 1 + 0.005*(age-50).
// The value is intentionally unclamped; callers needing a bounded variant
// must clamp it themselves.
func (p Profile) AgeGrowthModifier() float64 {
	return 1.0 + 0.005*float64(p.age-50)
}

// SmokingCapacityModifier shrinks carrying capacity with smoking exposure:
// max(0.5, 1 - 0.003*packYears). Returns exactly 1.0 for never-smokers.
func (p Profile) SmokingCapacityModifier() float64 {
	m := 1.0 - 0.003*p.packYears
	if m < 0.5 {
		return 0.5
	}
	return m
}

// DietModifier returns the diet growth multiplier.
func (p Profile) DietModifier() float64 {
	switch p.diet {
	case DietHealthy:
		return 0.90
	case DietPoor:
		return 1.10
	default:
		return 1.0
	}
}

// CombinedModifier is the product of all rate modifiers and the genetic factor.
func (p Profile) CombinedModifier() float64 {
	return p.AgeGrowthModifier() * p.SmokingCapacityModifier() * p.DietModifier() * p.geneticFactor
}

// Snapshot is the JSON-ready view of a Profile.
type Snapshot struct {
	Age           int     `json:"age"`
	Smoker        bool    `json:"smoker"`
	PackYears     float64 `json:"packYears"`
	Diet          Diet    `json:"diet"`
	GeneticFactor float64 `json:"geneticFactor"`
}

// Snapshot returns the profile's observable fields.
func (p Profile) Snapshot() Snapshot {
	return Snapshot{
		Age:           p.age,
		Smoker:        p.smoker,
		PackYears:     p.packYears,
		Diet:          p.diet,
		GeneticFactor: p.geneticFactor,
	}
}

// FromSnapshot reconstructs a Profile, applying the same validation as New.
func FromSnapshot(s Snapshot) (Profile, error) {
	return New(s.Age, s.Smoker, s.PackYears, s.Diet, s.GeneticFactor)
}
