package solver

// This file contains the Runge-Kutta methods available to the integrator.
// The default method (RK4) is what the tumor model uses; the lower-order
// methods are kept for convergence cross-checks.

// Method is an explicit Runge-Kutta method described by its Butcher tableau.
type Method struct {
	Name  string
	Order int
	C     []float64   // Runge-Kutta nodes
	A     [][]float64 // Runge-Kutta matrix
	B     []float64   // Solution weights
}

// RK4 returns the classic 4th order Runge-Kutta method.
// Fixed-step, local error O(h^5), global error O(h^4). Adequate for the
// smooth non-stiff Gompertz dynamics this package integrates.
func RK4() *Method {
	return &Method{
		Name:  "RK4",
		Order: 4,
		C: []float64{
			0,
			0.5,
			0.5,
			1,
		},
		A: [][]float64{
			{},
			{0.5},
			{0, 0.5},
			{0, 0, 1},
		},
		B: []float64{
			1.0 / 6.0,
			1.0 / 3.0,
			1.0 / 3.0,
			1.0 / 6.0,
		},
	}
}

// Euler returns the forward Euler method. First order; useful for
// debugging and for demonstrating the accuracy gap to RK4.
func Euler() *Method {
	return &Method{
		Name:  "Euler",
		Order: 1,
		C:     []float64{0},
		A:     [][]float64{{}},
		B:     []float64{1},
	}
}

// Heun returns Heun's method (improved Euler / RK2), a second-order
// predictor-corrector.
func Heun() *Method {
	return &Method{
		Name:  "Heun",
		Order: 2,
		C: []float64{
			0,
			1,
		},
		A: [][]float64{
			{},
			{1},
		},
		B: []float64{
			0.5,
			0.5,
		},
	}
}

// Midpoint returns the midpoint method (RK2).
func Midpoint() *Method {
	return &Method{
		Name:  "Midpoint",
		Order: 2,
		C: []float64{
			0,
			0.5,
		},
		A: [][]float64{
			{},
			{0.5},
		},
		B: []float64{
			0,
			1,
		},
	}
}
