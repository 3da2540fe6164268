package sir

import (
	"errors"
	"math"
	"testing"
)

func TestParseScheme(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  Scheme
		expectErr bool
	}{
		{name: "Empty defaults to rk4", input: "", expected: SchemeRK4},
		{name: "rk4", input: "rk4", expected: SchemeRK4},
		{name: "Mixed case euler", input: " Euler ", expected: SchemeEuler},
		{name: "Long name", input: "runge-kutta", expected: SchemeRK4},
		{name: "Unknown", input: "midpoint", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScheme(tt.input)
			if tt.expectErr {
				if !errors.Is(err, ErrInvalidParameter) {
					t.Errorf("ParseScheme(%q) error = %v, expected ErrInvalidParameter", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseScheme(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseScheme(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEvaluateFlows(t *testing.T) {
	r := Rates{Enter: 10, Leave: 0.1, Transmit: 0.5, Recover: 0.2}
	x := []float64{80, 20, 100}
	dx := make([]float64, NumStates())
	fl := make([]float64, NumEvents())

	if err := evaluate(r, x, dx, fl); err != nil {
		t.Fatalf("evaluate() error = %v", err)
	}

	expectedFlows := []float64{10, 20, 4, 4} // enter, 0.1*200, 0.5*80*20/200, 0.2*20
	for j, want := range expectedFlows {
		if math.Abs(fl[j]-want) > 1e-12 {
			t.Errorf("flow %v = %v, expected %v", EventSelector(j), fl[j], want)
		}
	}

	expectedDx := []float64{10 - 8 - 4, 4 - 2 - 4, 4 - 10}
	for j, want := range expectedDx {
		if math.Abs(dx[j]-want) > 1e-12 {
			t.Errorf("d%v = %v, expected %v", StateSelector(j), dx[j], want)
		}
	}

	if got, want := dx[0]+dx[1]+dx[2], fl[Enter]-fl[Leave]; math.Abs(got-want) > 1e-12 {
		t.Errorf("net change %v, expected entries minus exits %v", got, want)
	}
}

func TestEvaluateRejectsEmptyPopulation(t *testing.T) {
	err := evaluate(Rates{Transmit: 1}, []float64{0, 0, 0}, make([]float64, 3), make([]float64, 4))
	if !errors.Is(err, ErrNumericFailure) {
		t.Errorf("evaluate() error = %v, expected ErrNumericFailure", err)
	}
}

func TestReproductionNumber(t *testing.T) {
	r := Rates{Transmit: 0.7, Recover: 0.1}
	if got := r.ReproductionNumber(); math.Abs(got-7) > 1e-12 {
		t.Errorf("ReproductionNumber() = %v, expected 7", got)
	}
	if got := (Rates{Transmit: 1}).ReproductionNumber(); !math.IsInf(got, 1) {
		t.Errorf("ReproductionNumber() = %v, expected +Inf", got)
	}
}
