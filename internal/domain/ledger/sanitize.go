package ledger

import "strings"

// sanitizeClients prepares the client collection for a remote write.
// Image and avatar URIs are kept only when they point at a remote URL;
// local device paths never leave the machine. The result is a deep copy,
// safe to hand to the persistence queue. Sanitization is idempotent.
func sanitizeClients(clients []Client) []Client {
	out := make([]Client, len(clients))
	for i, c := range clients {
		c.Image = remoteOnly(c.Image)
		c.Avatar = remoteOnly(c.Avatar)
		c.Transactions = copyTransactions(c.Transactions)
		c.TotalBalance = Balance(c.Transactions)
		out[i] = c
	}
	return out
}

// sanitizeProducts prepares the catalog for a remote write, clamping
// numeric fields and stripping local image URIs.
func sanitizeProducts(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		p.Price = clampMoney(p.Price)
		p.Stock = clampStock(p.Stock)
		p.Image = remoteOnly(p.Image)
		out[i] = p
	}
	return out
}

// remoteOnly drops any URI that is not a fully-qualified remote URL.
func remoteOnly(uri *string) *string {
	if uri == nil {
		return nil
	}
	if strings.HasPrefix(*uri, "http://") || strings.HasPrefix(*uri, "https://") {
		u := *uri
		return &u
	}
	return nil
}

// copyClients deep-copies the client collection, normalizing nil
// transaction slices so every client carries an explicit history.
func copyClients(clients []Client) []Client {
	out := make([]Client, len(clients))
	for i, c := range clients {
		c.Phone = copyString(c.Phone)
		c.Location = copyString(c.Location)
		c.Image = copyString(c.Image)
		c.Avatar = copyString(c.Avatar)
		c.Transactions = copyTransactions(c.Transactions)
		out[i] = c
	}
	return out
}

func copyProducts(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		p.Category = copyString(p.Category)
		p.Image = copyString(p.Image)
		out[i] = p
	}
	return out
}

func copyTransactions(transactions []Transaction) []Transaction {
	out := make([]Transaction, len(transactions))
	for i, t := range transactions {
		if t.Items != nil {
			items := make([]TransactionItem, len(t.Items))
			copy(items, t.Items)
			t.Items = items
		}
		out[i] = t
	}
	return out
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
