package main

import (
	"os"

	"github.com/markdave123-py/Uncouple/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
