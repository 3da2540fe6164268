package config

import (
	"fmt"

	"github.com/iwvelando/sir-forecast/pkg/sir"
)

// ScenarioParams holds everything needed to run the engine for one scenario.
type ScenarioParams struct {
	Name      string
	FirstYear int
	FinalYear int
	Rates     sir.Rates
	Initial   sir.State
	Scheme    sir.Scheme
	Substeps  int
}

// Options returns the engine options for the scenario.
func (p ScenarioParams) Options() []sir.Option {
	return []sir.Option{sir.WithScheme(p.Scheme), sir.WithSubsteps(p.Substeps)}
}

// Resolve merges every active scenario with the common parameters and derives
// the engine rates and initial state.
func (conf *Configuration) Resolve() ([]ScenarioParams, error) {
	scheme, err := sir.ParseScheme(conf.Integration.Scheme)
	if err != nil {
		return nil, err
	}
	substeps := conf.Integration.Substeps
	if substeps < 0 {
		return nil, fmt.Errorf("integration substeps must be positive, got %d: %w", substeps, sir.ErrInvalidParameter)
	}
	if substeps == 0 {
		substeps = sir.DefaultSubsteps
	}

	var params []ScenarioParams
	for _, scenario := range conf.ActiveScenarios() {
		p, err := conf.resolveScenario(scenario)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		p.Scheme = scheme
		p.Substeps = substeps
		params = append(params, p)
	}
	return params, nil
}

func (conf *Configuration) resolveScenario(scenario Scenario) (ScenarioParams, error) {
	p := ScenarioParams{
		Name:      scenario.Name,
		FirstYear: conf.Common.FirstYear,
		FinalYear: conf.Common.FinalYear,
	}
	if scenario.FirstYear != nil {
		p.FirstYear = *scenario.FirstYear
	}
	if scenario.FinalYear != nil {
		p.FinalYear = *scenario.FinalYear
	}
	if p.FinalYear < p.FirstYear {
		return p, fmt.Errorf("final year %d precedes first year %d: %w", p.FinalYear, p.FirstYear, sir.ErrInvalidParameter)
	}

	initial, err := scenario.Population.overlay(conf.Common.Population).initialState()
	if err != nil {
		return p, err
	}
	rates, err := scenario.Rates.overlay(conf.Common.Rates).rates(initial.Total())
	if err != nil {
		return p, err
	}
	if err := initial.Validate(); err != nil {
		return p, err
	}
	if err := rates.Validate(); err != nil {
		return p, err
	}

	p.Initial = initial
	p.Rates = rates
	return p, nil
}

// overlay returns p with every unset field taken from base.
func (p Population) overlay(base Population) Population {
	return Population{
		Size:        pick(p.Size, base.Size),
		Prevalence:  pick(p.Prevalence, base.Prevalence),
		Susceptible: pick(p.Susceptible, base.Susceptible),
		Infected:    pick(p.Infected, base.Infected),
		Recovered:   pick(p.Recovered, base.Recovered),
	}
}

func (p Population) initialState() (sir.State, error) {
	if p.Susceptible != nil || p.Infected != nil {
		return sir.State{
			Susceptible: value(p.Susceptible),
			Infected:    value(p.Infected),
			Recovered:   value(p.Recovered),
		}, nil
	}
	if p.Size == nil {
		return sir.State{}, fmt.Errorf("population needs either a size or susceptible/infected counts: %w", sir.ErrInvalidParameter)
	}

	size := *p.Size
	prevalence := value(p.Prevalence)
	if prevalence < 0 || prevalence > 1 {
		return sir.State{}, fmt.Errorf("prevalence must be within [0, 1], got %v: %w", prevalence, sir.ErrInvalidParameter)
	}
	susceptible := size * (1 - prevalence)
	return sir.State{
		Susceptible: susceptible,
		Infected:    size - susceptible,
		Recovered:   value(p.Recovered),
	}, nil
}

// overlay returns r with every unset field taken from base.
func (r RateConfig) overlay(base RateConfig) RateConfig {
	return RateConfig{
		Enter:    pick(r.Enter, base.Enter),
		Leave:    pick(r.Leave, base.Leave),
		Transmit: pick(r.Transmit, base.Transmit),
		Recover:  pick(r.Recover, base.Recover),
		Lifespan: pick(r.Lifespan, base.Lifespan),
		R0:       pick(r.R0, base.R0),
	}
}

// rates derives the engine rates. population is the initial population size,
// used to keep the population stationary when no entry rate is given.
func (r RateConfig) rates(population float64) (sir.Rates, error) {
	var out sir.Rates
	if r.Recover == nil {
		return out, fmt.Errorf("recover rate is required: %w", sir.ErrInvalidParameter)
	}
	out.Recover = *r.Recover

	switch {
	case r.Leave != nil:
		out.Leave = *r.Leave
	case r.Lifespan != nil:
		if *r.Lifespan <= 0 {
			return out, fmt.Errorf("lifespan must be positive, got %v: %w", *r.Lifespan, sir.ErrInvalidParameter)
		}
		out.Leave = 1 / *r.Lifespan
	}

	if r.Enter != nil {
		out.Enter = *r.Enter
	} else {
		out.Enter = population * out.Leave
	}

	switch {
	case r.Transmit != nil:
		out.Transmit = *r.Transmit
	case r.R0 != nil:
		out.Transmit = *r.R0 * out.Recover
	default:
		return out, fmt.Errorf("either a transmit rate or r0 is required: %w", sir.ErrInvalidParameter)
	}
	return out, nil
}

func pick[T any](override, base *T) *T {
	if override != nil {
		return override
	}
	return base
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
