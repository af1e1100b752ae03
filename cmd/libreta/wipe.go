package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type wipeCmd struct {
	deps *Dependencies
	yes  bool
}

func (*wipeCmd) Name() string     { return "wipe" }
func (*wipeCmd) Synopsis() string { return "erase all clients and products" }
func (*wipeCmd) Usage() string {
	return `libreta wipe -yes

  Empties both collections and the local database. The cloud document,
  if any, is left untouched.
`
}

func (c *wipeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "confirm the wipe")
}

func (c *wipeCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		fmt.Fprintln(os.Stderr, "Refusing to wipe without -yes")
		return subcommands.ExitUsageError
	}

	c.deps.Store.ClearAllData()
	fmt.Println("All data erased.")
	return subcommands.ExitSuccess
}
