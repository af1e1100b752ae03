package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"libreta/internal/domain/ledger"
)

type clientAddCmd struct {
	deps     *Dependencies
	name     string
	phone    string
	location string
}

func (*clientAddCmd) Name() string     { return "client-add" }
func (*clientAddCmd) Synopsis() string { return "register a new client" }
func (*clientAddCmd) Usage() string {
	return `libreta client-add -name <name> [-phone <phone>] [-location <location>]

  Registers a client with an empty transaction history.
`
}

func (c *clientAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "client name (required)")
	f.StringVar(&c.phone, "phone", "", "WhatsApp phone number")
	f.StringVar(&c.location, "location", "", "address or neighborhood")
}

func (c *clientAddCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: -name is required")
		return subcommands.ExitUsageError
	}

	client := c.deps.Store.AddClient(ledger.AddClientParams{
		Name:     c.name,
		Phone:    optional(c.phone),
		Location: optional(c.location),
	})

	fmt.Printf("Client %s registered (%s)\n", client.Name, shortID(client.ID))
	return subcommands.ExitSuccess
}

// optional maps an empty flag value to a missing field.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
