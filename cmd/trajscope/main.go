package main

import (
	"os"

	"github.com/shivanikabu/agentic-governance-suite/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
