package main

import (
	"os"

	"github.com/akarsh/parla/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
