package config

import (
	"fmt"

	"github.com/iwvelando/sir-forecast/pkg/constants"
	"github.com/iwvelando/sir-forecast/pkg/validation"
)

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Errors that prevent a projection are reported by Resolve.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(conf.Scenarios) > 0 && len(conf.ActiveScenarios()) == 0 {
		warnings = append(warnings, "No active scenarios; nothing will be projected")
	}

	for _, scenario := range conf.ActiveScenarios() {
		p, err := conf.resolveScenario(scenario)
		if err != nil {
			// Resolve reports this as an error.
			continue
		}
		warnings = append(warnings, validation.ValidateScenario(validation.ScenarioInfo{
			Name:         p.Name,
			FirstYear:    p.FirstYear,
			FinalYear:    p.FinalYear,
			Susceptible:  p.Initial.Susceptible,
			Infected:     p.Initial.Infected,
			Recovered:    p.Initial.Recovered,
			Reproduction: p.Rates.ReproductionNumber(),
			Transmit:     p.Rates.Transmit,
		})...)

		rates := scenario.Rates.overlay(conf.Common.Rates)
		if rates.Leave != nil && rates.Lifespan != nil {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' sets both leave and lifespan; leave (%v) is used", p.Name, *rates.Leave))
		}
		if rates.Transmit != nil && rates.R0 != nil {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' sets both transmit and r0; transmit (%v) is used", p.Name, *rates.Transmit))
		}
	}

	if conf.Integration.Substeps > 0 && conf.Integration.Substeps < constants.DefaultSubsteps {
		warnings = append(warnings, fmt.Sprintf("Integration uses %d sub-steps per year; results may be inaccurate", conf.Integration.Substeps))
	}

	return warnings
}
