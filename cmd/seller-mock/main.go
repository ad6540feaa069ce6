// Command seller-mock runs the in-memory seller backend on its own.
package main

import (
	"os"

	"seller-cli/internal/cli"
)

func main() {
	if err := cli.NewMockServerCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
