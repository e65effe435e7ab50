package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/cli"
	"github.com/valnei-junior/Controle-de-Empr-stimos-simples/internal/config"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	cli.Register(commander, cli.NewApp(config.Load(), os.Stdin, os.Stdout, os.Stderr))

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
