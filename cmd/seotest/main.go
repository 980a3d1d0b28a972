package main

import (
	"os"

	"github.com/use-agent/seotest/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
