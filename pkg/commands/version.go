package commands

import (
	"fmt"
	"io"

	goversion "go.hein.dev/go-version"

	"tableflip.dev/worklog/pkg/commands/options"
)

// Set with -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func printVersion(w io.Writer, o *options.VersionOptions) {
	resp := goversion.FuncWithOutput(o.Short, version, commit, date, o.Output)
	fmt.Fprint(w, resp)
}
