package sir

import (
	"fmt"
	"math"
)

// Rates holds the rate constants of a run. Values are per unit time (one year).
type Rates struct {
	// Enter is the absolute inflow into Susceptible (births, immigration).
	Enter float64
	// Leave is the per-capita outflow applied to every compartment.
	Leave float64
	// Transmit is the per-capita transmission coefficient, used as a
	// frequency-dependent force of infection: Transmit * I / N.
	Transmit float64
	// Recover is the per-capita recovery rate.
	Recover float64
}

// Validate checks that every rate is finite and non-negative.
func (r Rates) Validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"enter", r.Enter},
		{"leave", r.Leave},
		{"transmit", r.Transmit},
		{"recover", r.Recover},
	} {
		if err := checkValue(v.name+" rate", v.value); err != nil {
			return err
		}
	}
	return nil
}

// ReproductionNumber returns Transmit / (Recover + Leave), the expected number
// of secondary infections per infection in a fully susceptible population.
// It returns +Inf when nobody ever leaves the infected compartment.
func (r Rates) ReproductionNumber() float64 {
	out := r.Recover + r.Leave
	if out == 0 {
		return math.Inf(1)
	}
	return r.Transmit / out
}

func checkValue(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be finite, got %v: %w", name, v, ErrInvalidParameter)
	}
	if v < 0 {
		return fmt.Errorf("%s must be non-negative, got %v: %w", name, v, ErrInvalidParameter)
	}
	return nil
}
