// mutscan enumerates point mutation combinations on a target protein,
// models and validates each candidate through the external engines, and
// reports structural, interface and viability metrics.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
