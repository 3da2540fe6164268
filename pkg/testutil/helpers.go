// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/sir-forecast/internal/projection"
)

// FindScenario finds a scenario by name in the results slice.
// Returns a pointer to the projection if found, nil otherwise.
func FindScenario(results []projection.Projection, name string) *projection.Projection {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// FindRow returns the row of the projection for year, or nil when the year is
// not part of it.
func FindRow(p *projection.Projection, year int) *projection.Row {
	if p == nil {
		return nil
	}
	for i := range p.Rows {
		if p.Rows[i].Year == year {
			return &p.Rows[i]
		}
	}
	return nil
}
