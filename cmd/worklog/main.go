package main

import (
	"os"

	"github.com/fatih/color"

	"tableflip.dev/worklog/pkg/commands"
)

func main() {
	if err := commands.New().Execute(); err != nil {
		_, _ = color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "worklog: %v\n", err)
		os.Exit(1)
	}
}
