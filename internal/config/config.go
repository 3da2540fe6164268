// Package config defines the data structures related to configuration and
// includes functions for loading the config and resolving it into projection
// parameters.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/sir-forecast/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for sir-forecast.
type Configuration struct {
	Common      Common            `yaml:"common"`
	Scenarios   []Scenario        `yaml:"scenarios,omitempty"`
	Integration IntegrationConfig `yaml:"integration,omitempty"`
	Logging     LoggingConfig     `yaml:"logging,omitempty"`
	Output      OutputConfig      `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// IntegrationConfig selects the numerical scheme used by the engine.
type IntegrationConfig struct {
	Scheme   string `yaml:"scheme,omitempty"`   // rk4, euler
	Substeps int    `yaml:"substeps,omitempty"` // sub-steps per year
}

// Common holds the projection interval and the parameters shared by all
// scenarios.
type Common struct {
	FirstYear  int        `yaml:"firstYear"`
	FinalYear  int        `yaml:"finalYear"`
	Population Population `yaml:"population"`
	Rates      RateConfig `yaml:"rates"`
}

// Scenario holds the overrides for one projection. Unset fields fall back to
// the Common values.
type Scenario struct {
	Name       string     `yaml:"name"`
	Active     bool       `yaml:"active"`
	FirstYear  *int       `yaml:"firstYear,omitempty"`
	FinalYear  *int       `yaml:"finalYear,omitempty"`
	Population Population `yaml:"population,omitempty"`
	Rates      RateConfig `yaml:"rates,omitempty"`
}

// Population describes the initial compartments. Explicit counts take
// precedence over Size and Prevalence; with only Size and Prevalence the
// population starts with Size*Prevalence infected and nobody recovered.
type Population struct {
	Size        *float64 `yaml:"size,omitempty"`
	Prevalence  *float64 `yaml:"prevalence,omitempty"`
	Susceptible *float64 `yaml:"susceptible,omitempty"`
	Infected    *float64 `yaml:"infected,omitempty"`
	Recovered   *float64 `yaml:"recovered,omitempty"`
}

// RateConfig describes the yearly rates either directly or through the
// epidemiological quantities they are usually built from:
//
//	leave    = 1 / lifespan
//	enter    = initial population * leave (a stationary population)
//	transmit = r0 * recover
type RateConfig struct {
	Enter    *float64 `yaml:"enter,omitempty"`
	Leave    *float64 `yaml:"leave,omitempty"`
	Transmit *float64 `yaml:"transmit,omitempty"`
	Recover  *float64 `yaml:"recover,omitempty"`
	Lifespan *float64 `yaml:"lifespan,omitempty"`
	R0       *float64 `yaml:"r0,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetConfigType("yml")

	v.SetDefault("common.firstYear", constants.DefaultFirstYear)
	v.SetDefault("common.finalYear", constants.DefaultFinalYear)
	v.SetDefault("integration.scheme", constants.DefaultScheme)
	v.SetDefault("integration.substeps", constants.DefaultSubsteps)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ActiveScenarios returns the scenarios to project. A configuration without
// scenarios projects the common parameters as a single scenario named
// "default".
func (conf *Configuration) ActiveScenarios() []Scenario {
	if len(conf.Scenarios) == 0 {
		return []Scenario{{Name: "default", Active: true}}
	}
	var active []Scenario
	for _, scenario := range conf.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}
