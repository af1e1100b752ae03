package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"libreta/internal/domain/statement"
	"libreta/internal/renderer"
)

type exportCmd struct {
	deps   *Dependencies
	client string
	out    string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export a client statement as markdown" }
func (*exportCmd) Usage() string {
	return `libreta export -client <id|name> [-o <file>]

  Builds the client's transaction statement (running balance per row,
  most recent first) and writes it as markdown to the given file, or to
  stdout when -o is omitted.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.client, "client", "", "client id or name (required)")
	f.StringVar(&c.out, "o", "", "output file, defaults to stdout")
}

func (c *exportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.client == "" {
		fmt.Fprintln(os.Stderr, "Error: -client is required")
		return subcommands.ExitUsageError
	}

	client, err := findClient(c.deps.Store, c.client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	st := statement.Build(client, time.Now())
	doc := renderer.StatementMarkdown(st, c.deps.Config.Currency)

	if c.out == "" {
		fmt.Print(doc)
		return subcommands.ExitSuccess
	}

	if err := os.WriteFile(c.out, []byte(doc), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", c.out, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Statement for %s written to %s\n", client.Name, c.out)
	return subcommands.ExitSuccess
}
