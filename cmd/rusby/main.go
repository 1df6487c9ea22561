// Package main is the entry point for the rusby CLI.
package main

import (
	"os"

	"github.com/rusbywallet/rusby/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
