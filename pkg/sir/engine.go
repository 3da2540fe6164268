// Package sir projects the compartment sizes of a demographically open
// Susceptible-Infected-Recovered model year by year, together with the flow
// totals (entries, exits, transmissions, recoveries) behind each year.
//
// The force of infection is frequency dependent: Transmit * I / N. Transmission
// coefficients are expected to be built as R0 * recover.
package sir

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

type phase int

const (
	phaseUninitialized phase = iota
	phaseInitialized
	phaseCompleted
	phaseFailed
)

func (p phase) String() string {
	switch p {
	case phaseUninitialized:
		return "uninitialized"
	case phaseInitialized:
		return "initialized"
	case phaseCompleted:
		return "completed"
	case phaseFailed:
		return "failed"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Engine holds the rates, the state table and the event table of a single
// projection. It is not safe for concurrent use while running; once Run has
// returned successfully its tables are immutable and may be read concurrently.
type Engine struct {
	firstYear int
	finalYear int
	years     int

	state    *mat.Dense
	events   *mat.Dense
	external bool

	rates    Rates
	scheme   Scheme
	substeps int
	logger   *zap.Logger

	phase phase
	next  int // row of the next year to project
	err   error
}

// NewEngine creates an engine projecting firstYear through finalYear
// inclusive.
func NewEngine(firstYear, finalYear int, opts ...Option) (*Engine, error) {
	if finalYear < firstYear {
		return nil, fmt.Errorf("final year %d precedes first year %d: %w", finalYear, firstYear, ErrInvalidParameter)
	}

	e := &Engine{
		firstYear: firstYear,
		finalYear: finalYear,
		years:     finalYear - firstYear + 1,
		scheme:    SchemeRK4,
		substeps:  DefaultSubsteps,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.scheme != SchemeRK4 && e.scheme != SchemeEuler {
		return nil, fmt.Errorf("unsupported scheme %v: %w", e.scheme, ErrInvalidParameter)
	}

	if !e.external {
		e.state = mat.NewDense(e.years, NumStates(), nil)
		e.events = mat.NewDense(e.years, NumEvents(), nil)
		return e, nil
	}

	state, err := fitStorage("state", e.state, e.years, NumStates())
	if err != nil {
		return nil, err
	}
	events, err := fitStorage("event", e.events, e.years, NumEvents())
	if err != nil {
		return nil, err
	}
	e.state, e.events = state, events
	return e, nil
}

// fitStorage checks a caller-supplied table and returns a view of exactly
// rows x cols over it.
func fitStorage(name string, m *mat.Dense, rows, cols int) (*mat.Dense, error) {
	if m == nil || m.IsEmpty() {
		return nil, fmt.Errorf("%s storage is empty: %w", name, ErrInvalidParameter)
	}
	r, c := m.Dims()
	if c != cols {
		return nil, fmt.Errorf("%s storage has %d columns, want %d: %w", name, c, cols, ErrInvalidParameter)
	}
	if r < rows {
		return nil, fmt.Errorf("%s storage has %d rows, want at least %d: %w", name, r, rows, ErrInvalidParameter)
	}
	if r == rows {
		return m, nil
	}
	return m.Slice(0, rows, 0, cols).(*mat.Dense), nil
}

// FirstYear returns the first projected year.
func (e *Engine) FirstYear() int { return e.firstYear }

// FinalYear returns the final projected year.
func (e *Engine) FinalYear() int { return e.finalYear }

// Years returns the number of projected years, first and final included.
func (e *Engine) Years() int { return e.years }

// Rates returns the rates passed to Initialize.
func (e *Engine) Rates() Rates { return e.rates }

// Scheme returns the integration scheme.
func (e *Engine) Scheme() Scheme { return e.scheme }

// Substeps returns the number of integration sub-steps per year.
func (e *Engine) Substeps() int { return e.substeps }

// Initialize stores the rates and sets the first year to the initial state
// with zero event totals. It must be called exactly once, before Run.
func (e *Engine) Initialize(rates Rates, initial State) error {
	if e.phase != phaseUninitialized {
		return fmt.Errorf("initialize called on %s engine: %w", e.phase, ErrNotInitialized)
	}
	if err := rates.Validate(); err != nil {
		return err
	}
	if err := initial.Validate(); err != nil {
		return err
	}

	e.rates = rates
	e.state.SetRow(0, initial.row())
	e.events.SetRow(0, make([]float64, NumEvents()))
	e.next = 1
	e.phase = phaseInitialized
	return nil
}

// InitializeValues is Initialize with positional arguments: the four rates
// followed by the initial susceptible, infected and recovered counts.
func (e *Engine) InitializeValues(enter, leave, transmit, recover, x0, y0, z0 float64) error {
	return e.Initialize(
		Rates{Enter: enter, Leave: leave, Transmit: transmit, Recover: recover},
		State{Susceptible: x0, Infected: y0, Recovered: z0},
	)
}

// Run projects every remaining year through the final year and completes the
// engine. With firstYear == finalYear there is nothing to step and Run only
// completes it. Calling Run on a completed engine fails rather than
// recomputing; calling it after a numeric failure returns that failure again.
func (e *Engine) Run() error {
	switch e.phase {
	case phaseUninitialized:
		return fmt.Errorf("run called before initialize: %w", ErrNotInitialized)
	case phaseCompleted:
		return fmt.Errorf("run called on completed projection: %w", ErrNotInitialized)
	case phaseFailed:
		return e.err
	}

	st := newStepper(e.rates, e.scheme, 1/float64(e.substeps))
	for e.next < e.years {
		if err := e.advance(st); err != nil {
			return err
		}
	}
	e.phase = phaseCompleted
	return nil
}

// StepYear projects a single year, which must be the year following the last
// projected one. The engine completes once the final year has been stepped.
func (e *Engine) StepYear(year int) error {
	switch e.phase {
	case phaseUninitialized:
		return fmt.Errorf("step called before initialize: %w", ErrNotInitialized)
	case phaseCompleted:
		return fmt.Errorf("step called on completed projection: %w", ErrNotInitialized)
	case phaseFailed:
		return e.err
	}
	if year <= e.firstYear || year > e.finalYear {
		return fmt.Errorf("year %d outside stepped interval [%d, %d]: %w", year, e.firstYear+1, e.finalYear, ErrOutOfRange)
	}
	if want := e.firstYear + e.next; year != want {
		return fmt.Errorf("year %d stepped out of order, next year is %d: %w", year, want, ErrNotInitialized)
	}
	return e.advance(newStepper(e.rates, e.scheme, 1/float64(e.substeps)))
}

// advance computes row e.next from row e.next-1.
func (e *Engine) advance(st *stepper) error {
	t := e.next
	x := e.state.RawRowView(t)
	ev := e.events.RawRowView(t)
	copy(x, e.state.RawRowView(t-1))
	for j := range ev {
		ev[j] = 0
	}

	year := e.firstYear + t
	for step := 0; step < e.substeps; step++ {
		if err := st.step(x, ev); err != nil {
			return e.fail(year, err)
		}
		if err := checkRow("state", x); err != nil {
			return e.fail(year, err)
		}
	}
	if err := checkRow("event", ev); err != nil {
		return e.fail(year, err)
	}

	e.logger.Debug("projected year",
		zap.String("op", "sir.Engine.advance"),
		zap.Int("year", year),
		zap.Float64s("state", x),
		zap.Float64s("events", ev),
	)

	e.next++
	if e.next == e.years {
		e.phase = phaseCompleted
	}
	return nil
}

func (e *Engine) fail(year int, err error) error {
	e.phase = phaseFailed
	e.err = fmt.Errorf("projecting year %d: %w", year, err)
	e.logger.Error("projection failed",
		zap.String("op", "sir.Engine.advance"),
		zap.Int("year", year),
		zap.Error(err),
	)
	return e.err
}

func (e *Engine) row(year int) (int, error) {
	if e.phase != phaseCompleted {
		return 0, fmt.Errorf("results read on %s engine: %w", e.phase, ErrNotInitialized)
	}
	if year < e.firstYear || year > e.finalYear {
		return 0, fmt.Errorf("year %d outside [%d, %d]: %w", year, e.firstYear, e.finalYear, ErrOutOfRange)
	}
	return year - e.firstYear, nil
}

// StateCount returns the size of compartment which in year.
func (e *Engine) StateCount(year int, which StateSelector) (float64, error) {
	t, err := e.row(year)
	if err != nil {
		return 0, err
	}
	if !which.valid() {
		return 0, fmt.Errorf("unknown compartment %v: %w", which, ErrInvalidParameter)
	}
	return e.state.At(t, int(which)), nil
}

// EventCount returns the total of flow which over the year ending in year.
func (e *Engine) EventCount(year int, which EventSelector) (float64, error) {
	t, err := e.row(year)
	if err != nil {
		return 0, err
	}
	if !which.valid() {
		return 0, fmt.Errorf("unknown event %v: %w", which, ErrInvalidParameter)
	}
	return e.events.At(t, int(which)), nil
}

// StateAt returns all compartment sizes in year.
func (e *Engine) StateAt(year int) (State, error) {
	t, err := e.row(year)
	if err != nil {
		return State{}, err
	}
	return stateFromRow(e.state.RawRowView(t)), nil
}

// EventsAt returns all flow totals for the year ending in year.
func (e *Engine) EventsAt(year int) (Events, error) {
	t, err := e.row(year)
	if err != nil {
		return Events{}, err
	}
	return eventsFromRow(e.events.RawRowView(t)), nil
}

// StateTable returns the state table: one row per year starting at the first
// year, columns Susceptible, Infected, Recovered. It returns nil until the
// projection has completed. The table must not be modified.
func (e *Engine) StateTable() mat.Matrix {
	if e.phase != phaseCompleted {
		return nil
	}
	return e.state
}

// EventTable returns the event table: one row per year starting at the first
// year, columns Enter, Leave, Transmit, Recover. It returns nil until the
// projection has completed. The table must not be modified.
func (e *Engine) EventTable() mat.Matrix {
	if e.phase != phaseCompleted {
		return nil
	}
	return e.events
}
