package sir

import "fmt"

// StateSelector names a compartment. Its ordinal is the column of the
// compartment in the state table.
type StateSelector int

// Compartments in state-table column order.
const (
	Susceptible StateSelector = iota
	Infected
	Recovered
	numStates
)

// EventSelector names a flow. Its ordinal is the column of the flow in the
// event table.
type EventSelector int

// Flows in event-table column order.
const (
	Enter EventSelector = iota
	Leave
	Transmit
	Recover
	numEvents
)

// NumStates returns the number of compartments, i.e. state-table columns.
func NumStates() int { return int(numStates) }

// NumEvents returns the number of flows, i.e. event-table columns.
func NumEvents() int { return int(numEvents) }

// States lists every compartment in column order.
func States() []StateSelector {
	return []StateSelector{Susceptible, Infected, Recovered}
}

// EventKinds lists every flow in column order.
func EventKinds() []EventSelector {
	return []EventSelector{Enter, Leave, Transmit, Recover}
}

func (s StateSelector) String() string {
	switch s {
	case Susceptible:
		return "Susceptible"
	case Infected:
		return "Infected"
	case Recovered:
		return "Recovered"
	}
	return fmt.Sprintf("StateSelector(%d)", int(s))
}

func (s StateSelector) valid() bool { return s >= 0 && s < numStates }

func (e EventSelector) String() string {
	switch e {
	case Enter:
		return "Enter"
	case Leave:
		return "Leave"
	case Transmit:
		return "Transmit"
	case Recover:
		return "Recover"
	}
	return fmt.Sprintf("EventSelector(%d)", int(e))
}

func (e EventSelector) valid() bool { return e >= 0 && e < numEvents }

// State holds compartment sizes at a point in time.
type State struct {
	Susceptible float64
	Infected    float64
	Recovered   float64
}

// Total returns the population size.
func (s State) Total() float64 {
	return s.Susceptible + s.Infected + s.Recovered
}

// Validate checks that every count is finite and non-negative.
func (s State) Validate() error {
	if err := checkValue("susceptible count", s.Susceptible); err != nil {
		return err
	}
	if err := checkValue("infected count", s.Infected); err != nil {
		return err
	}
	return checkValue("recovered count", s.Recovered)
}

func (s State) row() []float64 {
	return []float64{s.Susceptible, s.Infected, s.Recovered}
}

func stateFromRow(row []float64) State {
	return State{
		Susceptible: row[Susceptible],
		Infected:    row[Infected],
		Recovered:   row[Recovered],
	}
}

// Events holds flow totals integrated over the year ending at a point in time.
type Events struct {
	Entries       float64
	Exits         float64
	Transmissions float64
	Recoveries    float64
}

func eventsFromRow(row []float64) Events {
	return Events{
		Entries:       row[Enter],
		Exits:         row[Leave],
		Transmissions: row[Transmit],
		Recoveries:    row[Recover],
	}
}
