// Command mom ranks ticker universes by 12-1 momentum.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/etnz/momentum/cmd"
	"github.com/etnz/momentum/config"
	"github.com/google/subcommands"
)

func main() {
	cmd.Completion().Complete("mom")

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
	}

	commander := subcommands.NewCommander(flag.CommandLine, "mom")
	cmd.Register(commander)
	flag.Parse()

	if name := flag.Arg(0); name != "" && !registered(commander, name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}

// registered reports whether name is a built-in subcommand.
func registered(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, sc subcommands.Command) {
		found = found || sc.Name() == name
	})
	return found
}
