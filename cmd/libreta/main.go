package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"libreta/internal/config"
	"libreta/internal/logger"
)

func main() {
	// .env is optional; real environments configure through the shell.
	_ = godotenv.Load()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	deps, err := NewDependencies(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialization failed")
	}
	defer deps.Close()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	commander.Register(&clientsCmd{deps: deps}, "ledger")
	commander.Register(&clientAddCmd{deps: deps}, "ledger")
	commander.Register(&saleCmd{deps: deps}, "ledger")
	commander.Register(&paymentCmd{deps: deps}, "ledger")
	commander.Register(&productsCmd{deps: deps}, "catalog")
	commander.Register(&productAddCmd{deps: deps}, "catalog")
	commander.Register(&exportCmd{deps: deps}, "reports")
	commander.Register(&statsCmd{deps: deps}, "reports")
	commander.Register(&templatesCmd{deps: deps}, "account")
	commander.Register(&syncCmd{deps: deps}, "account")
	commander.Register(&importCmd{deps: deps}, "account")
	commander.Register(&wipeCmd{deps: deps}, "account")

	flag.Parse()
	os.Exit(int(commander.Execute(ctx)))
}
