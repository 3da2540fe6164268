// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/sir-forecast/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ResolveOutputFormat picks the output format of a projection run: a non-empty
// CLI override wins over the configured format, and with neither set the
// pretty table is used. The result is validated.
func ResolveOutputFormat(configured, override string) (string, error) {
	format := configured
	if override != "" {
		format = override
	}
	if format == "" {
		format = constants.OutputFormatPretty
	}
	if err := ValidateOutputFormat(format); err != nil {
		return "", err
	}
	return format, nil
}
