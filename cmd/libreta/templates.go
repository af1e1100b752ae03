package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type templatesCmd struct {
	deps    *Dependencies
	sale    string
	payment string
}

func (*templatesCmd) Name() string     { return "templates" }
func (*templatesCmd) Synopsis() string { return "show or replace the notification templates" }
func (*templatesCmd) Usage() string {
	return `libreta templates [-sale <template>] [-payment <template>]

  Without flags, prints the active WhatsApp templates. With flags,
  replaces them. Placeholders {name}, {amount}, {description} and
  {balance} are substituted when a message is generated.
`
}

func (c *templatesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sale, "sale", "", "new sale template")
	f.StringVar(&c.payment, "payment", "", "new payment template")
}

func (c *templatesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sale, payment := c.deps.Store.Templates()

	if c.sale == "" && c.payment == "" {
		fmt.Printf("Sale template:\n%s\n\nPayment template:\n%s\n", sale, payment)
		return subcommands.ExitSuccess
	}

	if c.sale != "" {
		sale = c.sale
	}
	if c.payment != "" {
		payment = c.payment
	}
	c.deps.Store.UpdateTemplates(sale, payment)

	fmt.Println("Templates updated.")
	return subcommands.ExitSuccess
}
