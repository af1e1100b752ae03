package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"libreta/internal/domain/ledger"
	"libreta/internal/domain/message"
	"libreta/internal/infrastructure/whatsapp"
	"libreta/internal/money"
)

type paymentCmd struct {
	deps        *Dependencies
	client      string
	amount      float64
	description string
	notify      bool
	link        bool
}

func (*paymentCmd) Name() string     { return "payment" }
func (*paymentCmd) Synopsis() string { return "record a payment received" }
func (*paymentCmd) Usage() string {
	return `libreta payment -client <id|name> -amount <n> [-desc <text>] [-notify] [-link]

  Records a payment against the client's account, reducing what they
  owe. With -notify the WhatsApp receipt is dispatched; when the payment
  settles the account, the congratulation message is sent instead.
`
}

func (c *paymentCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.client, "client", "", "client id or name (required)")
	f.Float64Var(&c.amount, "amount", 0, "payment amount (required)")
	f.StringVar(&c.description, "desc", "", "description")
	f.BoolVar(&c.notify, "notify", false, "dispatch a WhatsApp receipt")
	f.BoolVar(&c.link, "link", false, "print a wa.me click-to-chat link with the message")
}

func (c *paymentCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.client == "" || c.amount <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -client and a positive -amount are required")
		return subcommands.ExitUsageError
	}

	client, err := findClient(c.deps.Store, c.client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	tx, err := c.deps.Store.AddTransaction(client.ID, ledger.AddTransactionParams{
		Type:        ledger.TypePayment,
		Amount:      c.amount,
		Description: c.description,
		Notify:      c.notify,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	updated, _ := c.deps.Store.ClientByID(client.ID)
	fmt.Printf("Payment of %s recorded for %s. Balance: %s\n",
		money.Format(tx.Amount, c.deps.Config.Currency), updated.Name,
		money.Format(updated.TotalBalance, c.deps.Config.Currency))

	if c.link && updated.Phone != nil {
		_, paymentTmpl := c.deps.Store.Templates()
		text := message.Payment(message.PaymentParams{
			ClientName:   updated.Name,
			Amount:       tx.Amount,
			Description:  tx.Description,
			Balance:      updated.TotalBalance,
			Template:     paymentTmpl,
			BusinessName: c.deps.Config.BusinessName,
			Currency:     c.deps.Config.Currency,
		})
		fmt.Println(whatsapp.Link(*updated.Phone, text))
	}

	return subcommands.ExitSuccess
}
