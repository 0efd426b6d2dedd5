package main

import (
	"os"

	"github.com/BOLT4L/SaleForecast/cmd/salesforecast/commands"
)

// main is the entry point for the sales forecast CLI
// ⭐ 진입점: salesforecast <salesJSON> <period> <model> <start> <end>
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
