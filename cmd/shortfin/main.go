package main

import (
	"os"

	"github.com/amd-chrissosa/SHARK-Platform/cmd/shortfin/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
