package main

import (
	"os"

	"github.com/corpeningc/unconflict/cmd"
	"github.com/corpeningc/unconflict/internal/ui"
)

func main() {
	if err := cmd.Execute(); err != nil {
		ui.NewReporter(os.Stderr).Error(err)
		os.Exit(1)
	}
}
