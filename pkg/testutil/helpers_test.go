package testutil

import (
	"testing"

	"github.com/iwvelando/sir-forecast/internal/projection"
	"github.com/iwvelando/sir-forecast/pkg/sir"
)

func sampleResults() []projection.Projection {
	return []projection.Projection{
		{
			Name:      "baseline",
			FirstYear: 1970,
			FinalYear: 1971,
			Rows: []projection.Row{
				{Year: 1970, State: sir.State{Susceptible: 999, Infected: 1}},
				{Year: 1971, State: sir.State{Susceptible: 990, Infected: 8, Recovered: 2}},
			},
		},
		{Name: "no transmission", FirstYear: 1970, FinalYear: 1970},
		{Name: "baseline", FirstYear: 2000, FinalYear: 2000},
		{Name: "scenario: with/special-chars (v2)", FirstYear: 1970, FinalYear: 1970},
	}
}

func TestFindScenario(t *testing.T) {
	results := sampleResults()

	tests := []struct {
		name      string
		search    string
		wantFound bool
		wantFirst int
	}{
		{name: "first scenario", search: "baseline", wantFound: true, wantFirst: 1970},
		{name: "middle scenario", search: "no transmission", wantFound: true, wantFirst: 1970},
		{name: "special characters", search: "scenario: with/special-chars (v2)", wantFound: true, wantFirst: 1970},
		{name: "missing", search: "nonexistent", wantFound: false},
		{name: "case sensitive", search: "Baseline", wantFound: false},
		{name: "empty name", search: "", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindScenario(results, tt.search)
			if (got != nil) != tt.wantFound {
				t.Fatalf("FindScenario(%q) found = %v, want %v", tt.search, got != nil, tt.wantFound)
			}
			if got != nil && got.FirstYear != tt.wantFirst {
				t.Errorf("FindScenario(%q) first year = %d, want %d", tt.search, got.FirstYear, tt.wantFirst)
			}
		})
	}
}

func TestFindScenarioEmptyResults(t *testing.T) {
	if got := FindScenario(nil, "baseline"); got != nil {
		t.Errorf("FindScenario(nil) = %v, want nil", got)
	}
	if got := FindScenario([]projection.Projection{}, "baseline"); got != nil {
		t.Errorf("FindScenario(empty) = %v, want nil", got)
	}
}

func TestFindScenarioReturnsPointer(t *testing.T) {
	results := sampleResults()

	got := FindScenario(results, "no transmission")
	if got == nil {
		t.Fatal("expected scenario to be found")
	}
	got.FinalYear = 2050
	if results[1].FinalYear != 2050 {
		t.Error("FindScenario should return a pointer into the results slice")
	}
}

func TestFindRow(t *testing.T) {
	results := sampleResults()
	baseline := FindScenario(results, "baseline")

	row := FindRow(baseline, 1971)
	if row == nil {
		t.Fatal("expected row for 1971")
	}
	if row.State.Infected != 8 {
		t.Errorf("row 1971 infected = %v, want 8", row.State.Infected)
	}

	if FindRow(baseline, 1969) != nil {
		t.Error("expected no row before the first year")
	}
	if FindRow(nil, 1970) != nil {
		t.Error("expected no row for a nil projection")
	}
}
