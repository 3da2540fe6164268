// Package constants provides shared constants for the sir-forecast application.
package constants

// Projection defaults, matching a population of one million observed from
// 1970 with a 35 year mean lifespan.
const (
	// DefaultFirstYear is the first projected year when none is configured
	DefaultFirstYear = 1970

	// DefaultFinalYear is the final projected year when none is configured
	DefaultFinalYear = 2030

	// DefaultSubsteps is the number of integration sub-steps per year
	DefaultSubsteps = 10

	// DefaultScheme is the integration scheme when none is configured
	DefaultScheme = "rk4"

	// LongHorizonYears is the horizon beyond which validation warns
	LongHorizonYears = 500
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// CSVHeader is the header line of the CSV output format
	CSVHeader = "Year,Susceptible,Infected,Recovered,Entries,Exits,Infections,Recoveries"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Validation constants
const (
	// PopulationTolerance is the tolerance for comparing compartment sizes
	PopulationTolerance = 1e-6
)
