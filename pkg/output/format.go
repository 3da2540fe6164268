// Package output provides utilities for formatting and displaying projection results.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/sir-forecast/internal/projection"
	"github.com/iwvelando/sir-forecast/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WritePretty writes a human-readable rather than machine-readable table of
// every projection to w.
func WritePretty(w io.Writer, results []projection.Projection) {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		_, _ = fmt.Fprintf(w, "--- Results for scenario %s ---\n", result.Name)
		_, _ = p.Fprintf(w, "R0 %.2f | enter %.2f/yr | leave %.4f | transmit %.4f | recover %.4f\n",
			result.Rates.ReproductionNumber(), result.Rates.Enter, result.Rates.Leave, result.Rates.Transmit, result.Rates.Recover)
		_, _ = fmt.Fprintf(w, "Year | Susceptible | Infected | Recovered | Entries | Exits | Infections | Recoveries\n")
		_, _ = fmt.Fprintf(w, "____ | ___________ | ________ | _________ | _______ | _____ | __________ | __________\n")
		for _, row := range result.Rows {
			_, _ = fmt.Fprintf(w, "%d | %s\n", row.Year, p.Sprintf("%.0f | %.0f | %.0f | %.0f | %.0f | %.0f | %.0f",
				row.State.Susceptible, row.State.Infected, row.State.Recovered,
				row.Events.Entries, row.Events.Exits, row.Events.Transmissions, row.Events.Recoveries))
		}
		if peak, ok := result.Peak(); ok {
			_, _ = fmt.Fprintf(w, "Peak infected: %s in %d\n", p.Sprintf("%.0f", peak.State.Infected), peak.Year)
		}
		if i < len(results)-1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

// CsvString renders the projections in comma-separated value format.
func CsvString(results []projection.Projection) string {
	var b strings.Builder
	WriteCSVs(&b, results)
	return b.String()
}

// WriteCSVs writes every projection as a CSV table. With more than one
// projection each table is preceded by a "# <scenario>" line and followed by a
// blank line.
func WriteCSVs(w io.Writer, results []projection.Projection) {
	for _, result := range results {
		if len(results) > 1 {
			_, _ = fmt.Fprintf(w, "# %s\n", result.Name)
		}
		WriteCSV(w, result)
		if len(results) > 1 {
			_, _ = fmt.Fprintf(w, "\n")
		}
	}
}

// WriteCSV writes a single projection with the header
// Year,Susceptible,Infected,Recovered,Entries,Exits,Infections,Recoveries and
// one row per year.
func WriteCSV(w io.Writer, result projection.Projection) {
	_, _ = fmt.Fprintln(w, constants.CSVHeader)
	for _, row := range result.Rows {
		_, _ = fmt.Fprintf(w, "%d,%f,%f,%f,%f,%f,%f,%f\n",
			row.Year,
			row.State.Susceptible, row.State.Infected, row.State.Recovered,
			row.Events.Entries, row.Events.Exits, row.Events.Transmissions, row.Events.Recoveries)
	}
}
