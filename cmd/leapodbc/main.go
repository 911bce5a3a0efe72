// Package main provides the leapodbc CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/leapodbc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
