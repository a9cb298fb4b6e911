// Package main provides the mdrun CLI entry point.
package main

import (
	"os"

	"github.com/leapstack-labs/mdrun/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
