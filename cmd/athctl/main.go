package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/athtracker/athtracker-backend/internal/cli"
	"github.com/athtracker/athtracker-backend/internal/config"
	"github.com/athtracker/athtracker-backend/internal/logging"
	"github.com/google/subcommands"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", os.Stderr).Fatalf("Failed to load configuration: %v", err)
	}

	app := &cli.App{
		Config: cfg,
		Logger: logging.New(cfg.Log.Level, os.Stderr),
		Out:    os.Stdout,
	}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cli.Commands(app) {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
