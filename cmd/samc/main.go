// Package main provides the entry point for the samc CLI.
package main

import (
	"fmt"
	"os"

	"github.com/trop3n/samc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
