package main

import (
	"os"

	"github.com/datalode-hq/datalode-go/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
