// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/sir-forecast/pkg/constants"
	"github.com/iwvelando/sir-forecast/pkg/mathutil"
)

// MajorityPrevalence is the initial infected share above which validation warns.
const MajorityPrevalence = 0.5

// ScenarioInfo represents the resolved parameters of a scenario.
type ScenarioInfo struct {
	Name         string
	FirstYear    int
	FinalYear    int
	Susceptible  float64
	Infected     float64
	Recovered    float64
	Reproduction float64
	Transmit     float64
}

// ValidateHorizon checks that the projected interval is sensible.
func ValidateHorizon(name string, firstYear, finalYear int) []string {
	var warnings []string

	if finalYear == firstYear {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' projects a single year (%d); only the initial state is reported",
			name, firstYear))
	}

	if span := finalYear - firstYear; span > constants.LongHorizonYears {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' projects %d years (more than %d)",
			name, span, constants.LongHorizonYears))
	}

	return warnings
}

// ValidateEpidemic checks whether an outbreak can take place at all.
func ValidateEpidemic(name string, infected, reproduction, transmit float64) []string {
	var warnings []string

	if mathutil.IsZero(infected) {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' starts without infected individuals; no transmission will occur", name))
	}

	if mathutil.IsPositive(transmit) && reproduction <= 1 {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' has a reproduction number of %.2f (<= 1); infection will die out",
			name, reproduction))
	}

	return warnings
}

// ValidateScenario validates a resolved scenario and returns warnings.
func ValidateScenario(info ScenarioInfo) []string {
	var warnings []string

	warnings = append(warnings, ValidateHorizon(info.Name, info.FirstYear, info.FinalYear)...)
	warnings = append(warnings, ValidateEpidemic(info.Name, info.Infected, info.Reproduction, info.Transmit)...)

	total := info.Susceptible + info.Infected + info.Recovered
	if !mathutil.IsPositive(total) {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' starts with an empty population; the projection will fail", info.Name))
	} else if share := mathutil.Share(info.Infected, total); share >= MajorityPrevalence {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' starts with %.0f%% of the population infected", info.Name, share*100))
	}

	return warnings
}
