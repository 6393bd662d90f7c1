// Package solver implements fixed-step explicit Runge-Kutta integration for
// small non-negative ODE systems such as tumor cell population dynamics.
package solver

import (
	"errors"
	"fmt"
)

// Common solver errors.
var (
	ErrInvalidStepSize  = errors.New("step size must be in (0, 1]")
	ErrInvalidTimeRange = errors.New("final time precedes start time")
)

// DerivFunc computes the derivative dy/dt given time t and state y.
// Implementations must not retain or mutate y.
type DerivFunc func(t float64, y []float64) []float64

// Point is one recorded state along a trajectory.
type Point struct {
	T float64
	Y []float64
}

// DayPoint is the state at the end of a whole simulated day.
type DayPoint struct {
	Day int
	Y   []float64
}

// minPartialStep is the smallest partial step taken when clipping to the
// final time; anything smaller is dropped to avoid pathological tiny steps.
const minPartialStep = 1e-3

// Integrator advances an ODE system with a fixed step size.
//
// Every component of the state is clamped to >= 0 after each step: the
// states integrated here are physical volumes and must never go negative.
// This is the integrator's only domain-specific behavior, and is safe
// because the derivative functions used with it are non-divergent near
// zero.
type Integrator struct {
	f      DerivFunc
	h      float64
	method *Method
}

// New creates an RK4 integrator with the given derivative function and
// step size h in days. Returns ErrInvalidStepSize unless h is in (0, 1].
func New(f DerivFunc, h float64) (*Integrator, error) {
	return NewWithMethod(f, h, RK4())
}

// NewWithMethod creates an integrator using an alternative Runge-Kutta
// method, subject to the same step-size validation as New.
func NewWithMethod(f DerivFunc, h float64, method *Method) (*Integrator, error) {
	if h <= 0 || h > 1.0 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidStepSize, h)
	}
	if f == nil {
		return nil, errors.New("derivative function is required")
	}
	if method == nil {
		method = RK4()
	}
	return &Integrator{f: f, h: h, method: method}, nil
}

// StepSize returns the configured step size in days.
func (in *Integrator) StepSize() float64 { return in.h }

// MethodName returns the name of the Runge-Kutta method in use.
func (in *Integrator) MethodName() string { return in.method.Name }

// Step advances the state by one full step of the configured size and
// returns the new state with all components clamped non-negative.
func (in *Integrator) Step(t float64, y []float64) []float64 {
	return in.step(t, y, in.h)
}

// step computes the Runge-Kutta stages for one step of size h.
func (in *Integrator) step(t float64, y []float64, h float64) []float64 {
	n := len(y)
	numStages := len(in.method.C)
	k := make([][]float64, numStages)
	k[0] = in.f(t, y)

	for stage := 1; stage < numStages; stage++ {
		tstage := t + in.method.C[stage]*h
		ystage := append([]float64(nil), y...)
		for j := 0; j < stage; j++ {
			aj := 0.0
			if len(in.method.A) > stage && len(in.method.A[stage]) > j {
				aj = in.method.A[stage][j]
			}
			if aj != 0 {
				scale := h * aj
				for i := 0; i < n; i++ {
					ystage[i] += scale * k[j][i]
				}
			}
		}
		k[stage] = in.f(tstage, ystage)
	}

	next := append([]float64(nil), y...)
	for j := 0; j < len(in.method.B); j++ {
		if in.method.B[j] != 0 {
			scale := h * in.method.B[j]
			for i := 0; i < n; i++ {
				next[i] += scale * k[j][i]
			}
		}
	}

	// Volumes are never negative.
	for i := range next {
		if next[i] < 0 {
			next[i] = 0
		}
	}
	return next
}

// Integrate advances the state from t0 to tf in fixed steps, clipping the
// final step so it does not overshoot tf. A clipped step smaller than
// 1e-3 days is dropped. When recordHistory is true the returned slice
// holds one Point per completed step, starting with the initial state.
func (in *Integrator) Integrate(t0 float64, y0 []float64, tf float64, recordHistory bool) ([]float64, []Point, error) {
	if tf < t0 {
		return nil, nil, fmt.Errorf("%w: t0=%g tf=%g", ErrInvalidTimeRange, t0, tf)
	}

	y := append([]float64(nil), y0...)
	var history []Point
	if recordHistory {
		history = append(history, Point{T: t0, Y: append([]float64(nil), y...)})
	}

	t := t0
	for t < tf {
		h := in.h
		if t+h > tf {
			h = tf - t
		}
		if h < minPartialStep {
			break
		}
		y = in.step(t, y, h)
		t += h
		if recordHistory {
			history = append(history, Point{T: t, Y: append([]float64(nil), y...)})
		}
	}
	return y, history, nil
}

// IntegrateDays advances the state one whole day at a time for the given
// number of days. When recordDaily is true the returned slice holds the
// state at the end of each day.
func (in *Integrator) IntegrateDays(y0 []float64, days int, recordDaily bool) ([]float64, []DayPoint, error) {
	if days < 0 {
		return nil, nil, fmt.Errorf("%w: %d days", ErrInvalidTimeRange, days)
	}

	y := append([]float64(nil), y0...)
	var daily []DayPoint
	for day := 1; day <= days; day++ {
		next, _, err := in.Integrate(float64(day-1), y, float64(day), false)
		if err != nil {
			return nil, nil, err
		}
		y = next
		if recordDaily {
			daily = append(daily, DayPoint{Day: day, Y: append([]float64(nil), y...)})
		}
	}
	return y, daily, nil
}
