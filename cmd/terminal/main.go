package main

import (
	"os"

	"github.com/rustyeddy/terminal/cmd/terminal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
