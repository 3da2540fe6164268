package sir

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Scheme selects the explicit integrator used for each sub-step.
type Scheme int

const (
	// SchemeRK4 is the classical four-stage Runge-Kutta method.
	SchemeRK4 Scheme = iota
	// SchemeEuler is the explicit (forward) Euler method.
	SchemeEuler
)

// DefaultSubsteps is the number of sub-steps per unit year.
const DefaultSubsteps = 10

func (s Scheme) String() string {
	switch s {
	case SchemeRK4:
		return "rk4"
	case SchemeEuler:
		return "euler"
	}
	return fmt.Sprintf("Scheme(%d)", int(s))
}

// ParseScheme maps a configuration name to a Scheme. An empty name selects
// SchemeRK4.
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "rk4", "runge-kutta":
		return SchemeRK4, nil
	case "euler":
		return SchemeEuler, nil
	}
	return SchemeRK4, fmt.Errorf("unknown integration scheme %q: %w", name, ErrInvalidParameter)
}

// evaluate writes the derivative of x into dx and the instantaneous flows into
// fl (event-table column order).
//
// Transmission is frequency dependent (Transmit * S * I / N). The rates are
// built as transmit = R0 * recover, which only has the right units under
// frequency-dependent mixing; density-dependent mixing (Transmit * S * I)
// would need a differently scaled coefficient.
func evaluate(r Rates, x, dx, fl []float64) error {
	n := floats.Sum(x)
	if !(n > 0) || math.IsInf(n, 0) {
		return fmt.Errorf("total population %v: %w", n, ErrNumericFailure)
	}
	s, i, rec := x[Susceptible], x[Infected], x[Recovered]

	fl[Enter] = r.Enter
	fl[Leave] = r.Leave * n
	fl[Transmit] = r.Transmit * s * i / n
	fl[Recover] = r.Recover * i

	dx[Susceptible] = fl[Enter] - r.Leave*s - fl[Transmit]
	dx[Infected] = fl[Transmit] - r.Leave*i - fl[Recover]
	dx[Recovered] = fl[Recover] - r.Leave*rec
	return nil
}

// stepper advances a state vector by one sub-step and adds the flow integral
// over that sub-step to an event vector. Both use the same quadrature, so the
// change in total population equals entries minus exits.
type stepper struct {
	rates  Rates
	scheme Scheme
	h      float64

	k   [4][]float64
	f   [4][]float64
	tmp []float64
}

func newStepper(rates Rates, scheme Scheme, h float64) *stepper {
	s := &stepper{rates: rates, scheme: scheme, h: h, tmp: make([]float64, numStates)}
	for j := range s.k {
		s.k[j] = make([]float64, numStates)
		s.f[j] = make([]float64, numEvents)
	}
	return s
}

func (s *stepper) step(x, ev []float64) error {
	switch s.scheme {
	case SchemeEuler:
		return s.euler(x, ev)
	case SchemeRK4:
		return s.rk4(x, ev)
	}
	return fmt.Errorf("unsupported scheme %v: %w", s.scheme, ErrInvalidParameter)
}

func (s *stepper) euler(x, ev []float64) error {
	if err := evaluate(s.rates, x, s.k[0], s.f[0]); err != nil {
		return err
	}
	floats.AddScaled(x, s.h, s.k[0])
	floats.AddScaled(ev, s.h, s.f[0])
	return nil
}

func (s *stepper) rk4(x, ev []float64) error {
	h := s.h
	if err := evaluate(s.rates, x, s.k[0], s.f[0]); err != nil {
		return err
	}
	floats.AddScaledTo(s.tmp, x, h/2, s.k[0])
	if err := evaluate(s.rates, s.tmp, s.k[1], s.f[1]); err != nil {
		return err
	}
	floats.AddScaledTo(s.tmp, x, h/2, s.k[1])
	if err := evaluate(s.rates, s.tmp, s.k[2], s.f[2]); err != nil {
		return err
	}
	floats.AddScaledTo(s.tmp, x, h, s.k[2])
	if err := evaluate(s.rates, s.tmp, s.k[3], s.f[3]); err != nil {
		return err
	}

	weights := [4]float64{h / 6, h / 3, h / 3, h / 6}
	for j, w := range weights {
		floats.AddScaled(x, w, s.k[j])
		floats.AddScaled(ev, w, s.f[j])
	}
	return nil
}

// checkRow reports the first negative or non-finite value in row.
func checkRow(kind string, row []float64) error {
	for j, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s column %d is %v: %w", kind, j, v, ErrNumericFailure)
		}
		if v < 0 {
			return fmt.Errorf("%s column %d is negative (%v): %w", kind, j, v, ErrNumericFailure)
		}
	}
	return nil
}
