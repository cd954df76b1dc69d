package main

import (
	"os"

	"github.com/gowake/wakesim/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
