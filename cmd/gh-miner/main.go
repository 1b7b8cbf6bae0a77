package main

import (
	"os"

	"github.com/repolens/gh-miner/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
