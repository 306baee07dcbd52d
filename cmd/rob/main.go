package main

import (
	"os"

	"github.com/rustyeddy/rob/cmd/rob/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
