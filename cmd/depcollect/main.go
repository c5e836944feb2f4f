// cmd/depcollect/main.go
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/artifactgraph/depcollect/cmd/depcollect/cli"
	"github.com/artifactgraph/depcollect/cmd/depcollect/commands"
)

// Version information (set via ldflags during build)
var (
	version = "0.0.0-dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date
	cli.BuiltBy = builtBy
	cli.SetupVersion()

	cli.AddCommand(commands.NewVersionCommand(cli.Console))
	cli.AddCommand(commands.NewCollectCommand(cli.Console))
	cli.AddCommand(commands.NewStatusCommand(cli.Console))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		os.Exit(130)
	}()

	if err := cli.Execute(); err != nil {
		if err.Error() != "" {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
