// Package projection defines the data structures related to a given
// projection and includes functions for computing the projections of every
// configured scenario.
package projection

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/sir-forecast/internal/config"
	"github.com/iwvelando/sir-forecast/pkg/sir"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Projection holds the results of one scenario.
type Projection struct {
	Name      string
	RunID     string
	FirstYear int
	FinalYear int
	Rates     sir.Rates
	Rows      []Row
}

// Row holds the compartment sizes at the end of a year and the flows that
// occurred during it.
type Row struct {
	Year   int
	State  sir.State
	Events sir.Events
}

// GetProjections runs the projection of every active scenario.
func GetProjections(logger *zap.Logger, conf config.Configuration) ([]Projection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	params, err := conf.Resolve()
	if err != nil {
		return nil, err
	}

	results := make([]Projection, 0, len(params))
	for _, p := range params {
		result, err := Run(logger, p)
		if err != nil {
			return results, fmt.Errorf("failed to project scenario %s: %w", p.Name, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// Run projects a single scenario. Every run is tagged with a fresh run id in
// the logs and in the result.
func Run(logger *zap.Logger, p config.ScenarioParams) (Projection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.New().String()
	runLogger := logger.With(
		zap.String("runId", runID),
		zap.String("scenario", p.Name),
	)

	start := time.Now()
	engine, err := sir.NewEngine(p.FirstYear, p.FinalYear, append(p.Options(), sir.WithLogger(runLogger))...)
	if err != nil {
		return Projection{}, err
	}
	if err := engine.Initialize(p.Rates, p.Initial); err != nil {
		return Projection{}, err
	}
	if err := engine.Run(); err != nil {
		return Projection{}, err
	}

	runLogger.Info("projection computed",
		zap.String("op", "projection.Run"),
		zap.Int("firstYear", p.FirstYear),
		zap.Int("finalYear", p.FinalYear),
		zap.Stringer("scheme", p.Scheme),
		zap.Int("substeps", p.Substeps),
		zap.Duration("duration", time.Since(start)),
	)

	return Projection{
		Name:      p.Name,
		RunID:     runID,
		FirstYear: p.FirstYear,
		FinalYear: p.FinalYear,
		Rates:     p.Rates,
		Rows:      Rows(engine),
	}, nil
}

// Rows copies the result tables of a completed engine into one Row per year.
// It returns nil if the engine has not completed.
func Rows(engine *sir.Engine) []Row {
	states, events := engine.StateTable(), engine.EventTable()
	if states == nil || events == nil {
		return nil
	}

	rows := make([]Row, engine.Years())
	stateRow := make([]float64, sir.NumStates())
	eventRow := make([]float64, sir.NumEvents())
	for i := range rows {
		mat.Row(stateRow, i, states)
		mat.Row(eventRow, i, events)
		rows[i] = Row{
			Year: engine.FirstYear() + i,
			State: sir.State{
				Susceptible: stateRow[sir.Susceptible],
				Infected:    stateRow[sir.Infected],
				Recovered:   stateRow[sir.Recovered],
			},
			Events: sir.Events{
				Entries:       eventRow[sir.Enter],
				Exits:         eventRow[sir.Leave],
				Transmissions: eventRow[sir.Transmit],
				Recoveries:    eventRow[sir.Recover],
			},
		}
	}
	return rows
}

// Peak returns the row with the largest infected count.
func (p Projection) Peak() (Row, bool) {
	if len(p.Rows) == 0 {
		return Row{}, false
	}
	peak := p.Rows[0]
	for _, row := range p.Rows[1:] {
		if row.State.Infected > peak.State.Infected {
			peak = row
		}
	}
	return peak, true
}
