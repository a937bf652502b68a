// Package main is the entry point for the locus CLI tool.
package main

import (
	"os"

	"github.com/datalocus/locus/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
