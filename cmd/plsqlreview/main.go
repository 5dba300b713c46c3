// Package main is the plsqlreview command.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/leapstack-labs/plsqlreview/internal/cli"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
