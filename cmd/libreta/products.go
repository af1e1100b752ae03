package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"libreta/internal/domain/ledger"
	"libreta/internal/money"
)

type productsCmd struct {
	deps *Dependencies
}

func (*productsCmd) Name() string     { return "products" }
func (*productsCmd) Synopsis() string { return "list the product catalog" }
func (*productsCmd) Usage() string {
	return `libreta products

  Lists every catalog product with price and stock.
`
}

func (c *productsCmd) SetFlags(*flag.FlagSet) {}

func (c *productsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	products := c.deps.Store.Products()
	if len(products) == 0 {
		fmt.Println("No products.")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNOMBRE\tPRECIO\tSTOCK\tCATEGORÍA")
	for _, p := range products {
		category := ""
		if p.Category != nil {
			category = *p.Category
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			shortID(p.ID), p.Name, money.Format(p.Price, c.deps.Config.Currency), p.Stock, category)
	}
	w.Flush()
	return subcommands.ExitSuccess
}

type productAddCmd struct {
	deps        *Dependencies
	name        string
	price       float64
	stock       int
	description string
	category    string
	imageFile   string
}

func (*productAddCmd) Name() string     { return "product-add" }
func (*productAddCmd) Synopsis() string { return "add a product to the catalog" }
func (*productAddCmd) Usage() string {
	return `libreta product-add -name <name> -price <n> [-stock <n>] [-desc <text>] [-category <c>] [-image-file <path>]

  Adds a catalog product. With -image-file, the image is uploaded to the
  configured storage bucket and the product keeps its public URL.
`
}

func (c *productAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "product name (required)")
	f.Float64Var(&c.price, "price", 0, "unit price (required)")
	f.IntVar(&c.stock, "stock", 0, "units in stock")
	f.StringVar(&c.description, "desc", "", "description")
	f.StringVar(&c.category, "category", "", "category")
	f.StringVar(&c.imageFile, "image-file", "", "local image to upload")
}

func (c *productAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" || c.price <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -name and a positive -price are required")
		return subcommands.ExitUsageError
	}

	var image *string
	if c.imageFile != "" {
		if c.deps.Uploader == nil {
			fmt.Fprintln(os.Stderr, "Error: no storage bucket configured, cannot upload images")
			return subcommands.ExitFailure
		}
		url, err := c.deps.Uploader.UploadFile(ctx, c.imageFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error uploading image: %v\n", err)
			return subcommands.ExitFailure
		}
		image = &url
	}

	p := c.deps.Store.AddProduct(ledger.AddProductParams{
		Name:        c.name,
		Price:       c.price,
		Stock:       c.stock,
		Description: c.description,
		Category:    optional(c.category),
		Image:       image,
	})

	fmt.Printf("Product %s added (%s)\n", p.Name, shortID(p.ID))
	return subcommands.ExitSuccess
}
