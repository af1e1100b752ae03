package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"libreta/internal/domain/ledger"
)

type importCmd struct {
	deps *Dependencies
	file string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the client ledger from a JSON backup" }
func (*importCmd) Usage() string {
	return `libreta import -file <backup.json>

  Wholesale-replaces the client collection with the contents of a
  backup file ({"clients": [...]}). Balances are recomputed from the
  imported histories. Products are not touched.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "backup file to import (required)")
}

func (c *importCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", c.file, err)
		return subcommands.ExitFailure
	}

	var col ledger.ClientCollection
	if err := json.Unmarshal(data, &col); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s is not a valid backup: %v\n", c.file, err)
		return subcommands.ExitFailure
	}

	if !c.deps.Store.ImportData(&col) {
		fmt.Fprintf(os.Stderr, "Error: %s is not a valid backup (missing clients collection)\n", c.file)
		return subcommands.ExitFailure
	}
	c.deps.Store.Save()

	fmt.Printf("Imported %d clients from %s\n", len(col.Clients), c.file)
	return subcommands.ExitSuccess
}
