package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/sir-forecast/pkg/sir"
)

const demoYAML = `
logging:
  level: debug
  format: console
output:
  format: csv
integration:
  scheme: euler
  substeps: 20
common:
  firstYear: 1970
  finalYear: 2030
  population:
    size: 1000000
    prevalence: 0.001
  rates:
    lifespan: 35
    recover: 0.1
    r0: 7
scenarios:
  - name: baseline
    active: true
  - name: faster recovery
    active: true
    rates:
      recover: 0.2
  - name: short horizon
    active: true
    finalYear: 1980
    population:
      susceptible: 500
      infected: 5
      recovered: 10
  - name: disabled
    active: false
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Demo config",
			configPath: writeConfig(t, demoYAML),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfiguration() error = %v", err)
			}
			if config == nil {
				t.Fatalf("LoadConfiguration() returned nil config")
			}
			if len(config.Scenarios) != 4 {
				t.Errorf("expected 4 scenarios, got %d", len(config.Scenarios))
			}
			if config.Logging.Level != "debug" || config.Output.Format != "csv" {
				t.Errorf("unexpected logging/output config: %+v %+v", config.Logging, config.Output)
			}
			if config.Integration.Scheme != "euler" || config.Integration.Substeps != 20 {
				t.Errorf("unexpected integration config: %+v", config.Integration)
			}
		})
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(`
common:
  population: {size: 100, prevalence: 0.1}
  rates: {recover: 0.5, transmit: 1}
`))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if conf.Common.FirstYear != 1970 || conf.Common.FinalYear != 2030 {
		t.Errorf("expected default years 1970-2030, got %d-%d", conf.Common.FirstYear, conf.Common.FinalYear)
	}
	if conf.Integration.Scheme != "rk4" || conf.Integration.Substeps != 10 {
		t.Errorf("expected default integration rk4/10, got %+v", conf.Integration)
	}

	params, err := conf.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(params) != 1 || params[0].Name != "default" {
		t.Fatalf("expected a single default scenario, got %+v", params)
	}
}

func TestResolveDemo(t *testing.T) {
	conf, err := LoadConfiguration(writeConfig(t, demoYAML))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	params, err := conf.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(params) != 3 {
		t.Fatalf("expected 3 active scenarios, got %d", len(params))
	}

	baseline := params[0]
	leave := 1.0 / 35.0
	expected := sir.Rates{Enter: 1000000 * leave, Leave: leave, Transmit: 0.7, Recover: 0.1}
	if !closeRates(baseline.Rates, expected) {
		t.Errorf("baseline rates = %+v, expected %+v", baseline.Rates, expected)
	}
	if math.Abs(baseline.Initial.Susceptible-999000) > 1e-6 || math.Abs(baseline.Initial.Infected-1000) > 1e-6 || baseline.Initial.Recovered != 0 {
		t.Errorf("baseline initial state = %+v", baseline.Initial)
	}
	if baseline.Scheme != sir.SchemeEuler || baseline.Substeps != 20 {
		t.Errorf("baseline integration = %v/%d", baseline.Scheme, baseline.Substeps)
	}

	faster := params[1]
	if math.Abs(faster.Rates.Recover-0.2) > 1e-12 || math.Abs(faster.Rates.Transmit-1.4) > 1e-12 {
		t.Errorf("faster recovery rates = %+v, expected recover 0.2 and transmit 1.4", faster.Rates)
	}

	short := params[2]
	if short.FinalYear != 1980 || short.FirstYear != 1970 {
		t.Errorf("short horizon years = %d-%d", short.FirstYear, short.FinalYear)
	}
	if short.Initial != (sir.State{Susceptible: 500, Infected: 5, Recovered: 10}) {
		t.Errorf("short horizon initial state = %+v", short.Initial)
	}
	if math.Abs(short.Rates.Enter-515*leave) > 1e-9 {
		t.Errorf("short horizon enter = %v, expected stationary inflow %v", short.Rates.Enter, 515*leave)
	}
}

func closeRates(a, b sir.Rates) bool {
	return math.Abs(a.Enter-b.Enter) < 1e-6 &&
		math.Abs(a.Leave-b.Leave) < 1e-12 &&
		math.Abs(a.Transmit-b.Transmit) < 1e-12 &&
		math.Abs(a.Recover-b.Recover) < 1e-12
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "Missing recover",
			yaml: "common: {population: {size: 10}, rates: {r0: 2}}",
		},
		{
			name: "Missing transmission",
			yaml: "common: {population: {size: 10}, rates: {recover: 0.1}}",
		},
		{
			name: "Missing population",
			yaml: "common: {rates: {recover: 0.1, r0: 2}}",
		},
		{
			name: "Reversed years",
			yaml: "common: {firstYear: 2000, finalYear: 1990, population: {size: 10}, rates: {recover: 0.1, r0: 2}}",
		},
		{
			name: "Negative rate",
			yaml: "common: {population: {size: 10}, rates: {recover: -0.1, r0: 2}}",
		},
		{
			name: "Prevalence above one",
			yaml: "common: {population: {size: 10, prevalence: 2}, rates: {recover: 0.1, r0: 2}}",
		},
		{
			name: "Zero lifespan",
			yaml: "common: {population: {size: 10}, rates: {recover: 0.1, r0: 2, lifespan: 0}}",
		},
		{
			name: "Unknown scheme",
			yaml: "integration: {scheme: midpoint}\ncommon: {population: {size: 10}, rates: {recover: 0.1, r0: 2}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := LoadConfigurationFromReader(strings.NewReader(tt.yaml))
			if err != nil {
				t.Fatalf("LoadConfigurationFromReader() error = %v", err)
			}
			_, err = conf.Resolve()
			if !errors.Is(err, sir.ErrInvalidParameter) {
				t.Errorf("Resolve() error = %v, expected ErrInvalidParameter", err)
			}
		})
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(`
integration: {substeps: 2}
common:
  population: {size: 1000, prevalence: 0}
  rates: {recover: 0.5, transmit: 0.2, r0: 3, leave: 0.01, lifespan: 50}
`))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	warnings := conf.ValidateConfiguration()
	for _, want := range []string{"without infected", "die out", "both leave and lifespan", "both transmit and r0", "sub-steps"} {
		found := false
		for _, w := range warnings {
			if strings.Contains(w, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected a warning containing %q, got %v", want, warnings)
		}
	}
}

func TestValidateConfigurationNoActiveScenarios(t *testing.T) {
	conf := Configuration{Scenarios: []Scenario{{Name: "off", Active: false}}}
	warnings := conf.ValidateConfiguration()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "No active scenarios") {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}
