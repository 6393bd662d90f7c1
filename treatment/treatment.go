// Package treatment models therapy-induced kill pressure on the sensitive
// tumor population. Each therapy is a case of a closed variant family whose
// only behavioral contract is Beta(elapsed): the instantaneous death rate
// applied to sensitive cells, as a function of days since the course started.
//
// Surgery is deliberately expressed through the same pathway: a brief
// high-intensity beta pulse around the surgery day rather than a direct
// volume edit. The resection is approximate instead of instantaneous, which
// keeps a single integration pathway for every therapy kind.
package treatment

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownTreatment is returned when a therapy name cannot be resolved.
var ErrUnknownTreatment = errors.New("unknown treatment")

// Kind enumerates the supported therapy variants.
type Kind int

const (
	None Kind = iota
	Chemotherapy
	Radiotherapy
	Immunotherapy
	Surgery
)

// String returns the display name of the kind.
func (k Kind) String() string {
	switch k {
	case Chemotherapy:
		return "Chemotherapy"
	case Radiotherapy:
		return "Radiotherapy"
	case Immunotherapy:
		return "Immunotherapy"
	case Surgery:
		return "Surgery"
	default:
		return "None"
	}
}

// Code returns the API-stable short code for the kind.
func (k Kind) Code() string {
	switch k {
	case Chemotherapy:
		return "chemo"
	case Radiotherapy:
		return "radio"
	case Immunotherapy:
		return "immuno"
	case Surgery:
		return "surgery"
	default:
		return "none"
	}
}

// Treatment is one therapy course. Construct with the New* helpers; a zero
// Treatment is the None variant. Treatments hold no mutable state: Beta is a
// pure function of elapsed time.
type Treatment struct {
	Kind        Kind    `json:"kind"`
	MaxEfficacy float64 `json:"maxEfficacy"` // beta_max in [0,1]
	CycleDays   float64 `json:"cycleDays"`

	// Chemotherapy: intra-cycle accumulation rate (1/day).
	AccumulationRate float64 `json:"accumulationRate,omitempty"`

	// Radiotherapy: fractionation schedule within each cycle.
	ActiveDays   float64 `json:"activeDays,omitempty"`
	RestEfficacy float64 `json:"restEfficacy,omitempty"`

	// Immunotherapy: immune activation rate (1/day).
	ActivationRate float64 `json:"activationRate,omitempty"`

	// Surgery: fraction of tumor removed and the day the resection happens,
	// measured from the start of the course.
	RemovalFraction float64 `json:"removalFraction,omitempty"`
	SurgeryDay      float64 `json:"surgeryDay,omitempty"`
}

// NewNone returns the baseline no-treatment variant.
func NewNone() Treatment {
	return Treatment{Kind: None}
}

// NewChemotherapy returns a chemotherapy course with default calibration:
// 21-day cycles, intra-cycle drug accumulation, and an efficacy penalty of
// 10% per completed cycle floored at half of beta_max.
func NewChemotherapy() Treatment {
	return Treatment{
		Kind:             Chemotherapy,
		MaxEfficacy:      0.15,
		CycleDays:        21,
		AccumulationRate: 0.4,
	}
}

// NewRadiotherapy returns a fractionated radiotherapy course:
// 5 active days followed by 2 rest days per weekly cycle.
func NewRadiotherapy() Treatment {
	return Treatment{
		Kind:         Radiotherapy,
		MaxEfficacy:  0.12,
		CycleDays:    7,
		ActiveDays:   5,
		RestEfficacy: 0.0,
	}
}

// NewImmunotherapy returns an immunotherapy course with saturating
// activation and no cycling.
func NewImmunotherapy() Treatment {
	return Treatment{
		Kind:           Immunotherapy,
		MaxEfficacy:    0.10,
		ActivationRate: 0.05,
	}
}

// NewSurgery returns a resection on day 0 of the course removing 90% of
// the sensitive population, modeled as a half-day beta pulse.
func NewSurgery() Treatment {
	return Treatment{
		Kind:            Surgery,
		MaxEfficacy:     1.0,
		RemovalFraction: 0.9,
		SurgeryDay:      0,
	}
}

// surgeryWindow is the width in days of the beta pulse that stands in for
// an instantaneous resection.
const surgeryWindow = 0.5

// Beta returns the instantaneous treatment-induced death rate at the given
// elapsed time (days since the course started). Negative elapsed time always
// yields 0. For event-like variants (Surgery) the value may transiently
// exceed MaxEfficacy.
func (tr Treatment) Beta(elapsed float64) float64 {
	if elapsed < 0 {
		return 0
	}
	switch tr.Kind {
	case Chemotherapy:
		cycle := math.Floor(elapsed / tr.CycleDays)
		tInCycle := elapsed - cycle*tr.CycleDays
		resistance := 1.0 - 0.1*cycle
		if resistance < 0.5 {
			resistance = 0.5
		}
		return tr.MaxEfficacy * (1 - math.Exp(-tr.AccumulationRate*tInCycle)) * resistance
	case Radiotherapy:
		tInCycle := math.Mod(elapsed, tr.CycleDays)
		if tInCycle < tr.ActiveDays {
			return tr.MaxEfficacy
		}
		return tr.RestEfficacy
	case Immunotherapy:
		return tr.MaxEfficacy * (1 - math.Exp(-tr.ActivationRate*elapsed))
	case Surgery:
		if math.Abs(elapsed-tr.SurgeryDay) <= surgeryWindow/2 {
			return tr.RemovalFraction * 10
		}
		return 0
	default:
		return 0
	}
}

// Name returns the display name of the therapy.
func (tr Treatment) Name() string { return tr.Kind.String() }

// Code returns the API-stable short code of the therapy.
func (tr Treatment) Code() string { return tr.Kind.Code() }

// CycleDuration returns the length of one therapy cycle in days, or 0 for
// non-cycling variants.
func (tr Treatment) CycleDuration() float64 { return tr.CycleDays }

// aliases maps accepted therapy names (English and Spanish) to constructors.
var aliases = map[string]func() Treatment{
	"none":          NewNone,
	"chemotherapy":  NewChemotherapy,
	"quimioterapia": NewChemotherapy,
	"chemo":         NewChemotherapy,
	"radiotherapy":  NewRadiotherapy,
	"radioterapia":  NewRadiotherapy,
	"radio":         NewRadiotherapy,
	"immunotherapy": NewImmunotherapy,
	"inmunoterapia": NewImmunotherapy,
	"immuno":        NewImmunotherapy,
	"surgery":       NewSurgery,
	"cirugia":       NewSurgery,
}

// Lookup resolves a therapy by name or alias, case-insensitively.
func Lookup(name string) (Treatment, error) {
	ctor, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Treatment{}, fmt.Errorf("%w: %q", ErrUnknownTreatment, name)
	}
	return ctor(), nil
}

// Catalog returns one default course per therapy kind, None first.
func Catalog() []Treatment {
	return []Treatment{
		NewNone(),
		NewChemotherapy(),
		NewRadiotherapy(),
		NewImmunotherapy(),
		NewSurgery(),
	}
}
