package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/username/tradejournal/backend/src/cli"
	"github.com/username/tradejournal/backend/src/logger"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	for _, c := range cli.Commands {
		commander.Register(c, "")
	}

	logLevel := flag.String("log-level", "warn", "Log level (debug, info, warn, error).")
	flag.Parse()
	logger.InitLoggerTo(os.Stderr, *logLevel)

	os.Exit(int(commander.Execute(context.Background())))
}
