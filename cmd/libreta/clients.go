package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"

	"libreta/internal/domain/ledger"
	"libreta/internal/money"
)

// clientsCmd lists clients with their balances.
type clientsCmd struct {
	deps    *Dependencies
	pending bool
}

func (*clientsCmd) Name() string     { return "clients" }
func (*clientsCmd) Synopsis() string { return "list clients and their balances" }
func (*clientsCmd) Usage() string {
	return `libreta clients [-pending]

  Lists every client with their current balance. With -pending, only
  clients that owe money are shown, largest debt first.
`
}

func (c *clientsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.pending, "pending", false, "only clients with a positive balance, largest first")
}

func (c *clientsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	clients := c.deps.Store.Clients()
	if c.pending {
		clients = ledger.Pending(clients)
	}

	if len(clients) == 0 {
		fmt.Println("No clients.")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOMBRE\tTELÉFONO\tSALDO")
	for _, cl := range clients {
		phone := ""
		if cl.Phone != nil {
			phone = *cl.Phone
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			shortID(cl.ID), cl.Name, phone, money.Format(cl.TotalBalance, c.deps.Config.Currency))
	}
	w.Flush()
	return subcommands.ExitSuccess
}

// shortID keeps listings readable; every command still accepts the full
// id or a unique prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// findClient resolves ref against the store: exact id, unique id prefix,
// or exact name (case-insensitive).
func findClient(store *ledger.Store, ref string) (ledger.Client, error) {
	if c, ok := store.ClientByID(ref); ok {
		return c, nil
	}

	var matches []ledger.Client
	for _, c := range store.Clients() {
		if strings.HasPrefix(c.ID, ref) || strings.EqualFold(c.Name, ref) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return ledger.Client{}, fmt.Errorf("no client matches %q", ref)
	default:
		return ledger.Client{}, fmt.Errorf("%q is ambiguous (%d matches), use the full id", ref, len(matches))
	}
}
