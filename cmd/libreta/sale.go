package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"libreta/internal/domain/ledger"
	"libreta/internal/domain/message"
	"libreta/internal/infrastructure/whatsapp"
	"libreta/internal/money"
)

type saleCmd struct {
	deps        *Dependencies
	client      string
	amount      float64
	description string
	notify      bool
	link        bool
	items       itemList
}

func (*saleCmd) Name() string     { return "sale" }
func (*saleCmd) Synopsis() string { return "record a sale on credit" }
func (*saleCmd) Usage() string {
	return `libreta sale -client <id|name> -amount <n> [-desc <text>] [-item qty:product:price]... [-notify] [-link]

  Records a sale against the client's account, increasing what they owe.
  Each -item may name a catalog product by id (its stock is decreased)
  or be a free-form line. With -notify the WhatsApp notification is
  dispatched; with -link a wa.me link is printed instead.
`
}

func (c *saleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.client, "client", "", "client id or name (required)")
	f.Float64Var(&c.amount, "amount", 0, "sale amount (required)")
	f.StringVar(&c.description, "desc", "", "description")
	f.BoolVar(&c.notify, "notify", false, "dispatch a WhatsApp notification")
	f.BoolVar(&c.link, "link", false, "print a wa.me click-to-chat link with the message")
	f.Var(&c.items, "item", "line item as qty:product:price, repeatable")
}

func (c *saleCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.client == "" || c.amount <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -client and a positive -amount are required")
		return subcommands.ExitUsageError
	}

	client, err := findClient(c.deps.Store, c.client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	items, err := c.items.resolve(c.deps.Store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	tx, err := c.deps.Store.AddTransaction(client.ID, ledger.AddTransactionParams{
		Type:        ledger.TypeSale,
		Amount:      c.amount,
		Description: c.description,
		Notify:      c.notify,
		Items:       items,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	updated, _ := c.deps.Store.ClientByID(client.ID)
	fmt.Printf("Sale of %s recorded for %s. Balance: %s\n",
		money.Format(tx.Amount, c.deps.Config.Currency), updated.Name,
		money.Format(updated.TotalBalance, c.deps.Config.Currency))

	if c.link && updated.Phone != nil {
		saleTmpl, _ := c.deps.Store.Templates()
		lines := make([]message.LineItem, 0, len(tx.Items))
		for _, it := range tx.Items {
			lines = append(lines, message.LineItem{Quantity: it.Quantity, Name: it.ProductName, UnitPrice: it.PriceAtSale})
		}
		text := message.Sale(message.SaleParams{
			ClientName:   updated.Name,
			Amount:       tx.Amount,
			Description:  tx.Description,
			Balance:      updated.TotalBalance,
			Template:     saleTmpl,
			Items:        lines,
			BusinessName: c.deps.Config.BusinessName,
			Currency:     c.deps.Config.Currency,
		})
		fmt.Println(whatsapp.Link(*updated.Phone, text))
	}

	return subcommands.ExitSuccess
}

// itemList collects repeated -item flags in qty:product:price form.
// product may be a catalog product id, in which case the price part is
// optional and the catalog snapshot is used.
type itemList []string

func (l *itemList) String() string { return strings.Join(*l, ", ") }

func (l *itemList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func (l itemList) resolve(store *ledger.Store) ([]ledger.TransactionItem, error) {
	var items []ledger.TransactionItem
	for _, raw := range l {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("malformed -item %q, want qty:product[:price]", raw)
		}
		qty, err := strconv.Atoi(parts[0])
		if err != nil || qty < 1 {
			return nil, fmt.Errorf("malformed quantity in -item %q", raw)
		}

		item := ledger.TransactionItem{Quantity: qty}

		if p, ok := productByRef(store, parts[1]); ok {
			item.ProductID = p.ID
			item.ProductName = p.Name
			item.PriceAtSale = p.Price
		} else {
			item.ProductName = parts[1]
		}

		if len(parts) == 3 {
			price, err := strconv.ParseFloat(parts[2], 64)
			if err != nil || price < 0 {
				return nil, fmt.Errorf("malformed price in -item %q", raw)
			}
			item.PriceAtSale = price
		} else if item.ProductID == "" {
			return nil, fmt.Errorf("-item %q names no catalog product, a price is required", raw)
		}

		items = append(items, item)
	}
	return items, nil
}

func productByRef(store *ledger.Store, ref string) (ledger.Product, bool) {
	for _, p := range store.Products() {
		if p.ID == ref || strings.HasPrefix(p.ID, ref) || strings.EqualFold(p.Name, ref) {
			return p, true
		}
	}
	return ledger.Product{}, false
}
