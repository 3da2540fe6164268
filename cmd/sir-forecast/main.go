// Command sir-forecast projects SIR compartment sizes year by year for the
// scenarios of a YAML configuration, or serves the same projections over HTTP.
package main

import "os"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
