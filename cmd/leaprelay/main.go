// Package main provides the leaprelay command.
package main

import (
	"os"

	"github.com/leapstack-labs/leaprelay/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
