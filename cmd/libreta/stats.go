package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"libreta/internal/domain/ledger"
	"libreta/internal/money"
)

type statsCmd struct {
	deps  *Dependencies
	year  int
	month int
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "monthly sales and payments summary" }
func (*statsCmd) Usage() string {
	return `libreta stats [-year <yyyy>] [-month <1-12>]

  Totals sales, payments and transaction count for the month, current
  month by default. Transactions with malformed dates are skipped.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	now := time.Now()
	f.IntVar(&c.year, "year", now.Year(), "year to summarize")
	f.IntVar(&c.month, "month", int(now.Month()), "month to summarize")
}

func (c *statsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.month < 1 || c.month > 12 {
		fmt.Fprintln(os.Stderr, "Error: -month must be between 1 and 12")
		return subcommands.ExitUsageError
	}

	summary := ledger.Summarize(c.deps.Store.Clients(), c.year, time.Month(c.month))
	currency := c.deps.Config.Currency

	fmt.Printf("%s %d\n", time.Month(c.month), c.year)
	fmt.Printf("  Ventas:        %s\n", money.Format(summary.Sales, currency))
	fmt.Printf("  Pagos:         %s\n", money.Format(summary.Payments, currency))
	fmt.Printf("  Neto:          %s\n", money.Format(summary.Net(), currency))
	fmt.Printf("  Transacciones: %d\n", summary.Transactions)
	return subcommands.ExitSuccess
}
