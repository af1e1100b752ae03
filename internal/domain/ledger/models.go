package ledger

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TransactionType discriminates ledger entries. Sales increase what the
// client owes, payments decrease it.
type TransactionType string

const (
	TypeSale    TransactionType = "sale"
	TypePayment TransactionType = "payment"
)

// Domain errors
var (
	ErrClientNotFound      = errors.New("client not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// memberSinceLayout is the display date recorded when a client is created.
const memberSinceLayout = "02/01/2006"

// Client is a ledger account holder. TotalBalance is derived: it always
// equals the fold of Transactions and is never set independently of them.
// Positive means the client owes money.
type Client struct {
	ID           string        `json:"id" firestore:"id"`
	Name         string        `json:"name" firestore:"name"`
	Phone        *string       `json:"phone" firestore:"phone"`
	Location     *string       `json:"location" firestore:"location"`
	Image        *string       `json:"image" firestore:"image"`
	Avatar       *string       `json:"avatar" firestore:"avatar"`
	MemberSince  string        `json:"memberSince" firestore:"memberSince"`
	Transactions []Transaction `json:"transactions" firestore:"transactions"`
	TotalBalance float64       `json:"totalBalance" firestore:"totalBalance"`
}

// Transaction is owned exclusively by its client and deleted with it.
// Date is an ISO-8601 timestamp; entries with unparseable dates are
// skipped by aggregations, never treated as fatal.
type Transaction struct {
	ID          string            `json:"id" firestore:"id"`
	Type        TransactionType   `json:"type" firestore:"type"`
	Amount      float64           `json:"amount" firestore:"amount"`
	Description string            `json:"description" firestore:"description"`
	Date        string            `json:"date" firestore:"date"`
	Items       []TransactionItem `json:"items" firestore:"items"`
}

// TransactionItem is a line of an itemized sale. ProductName and
// PriceAtSale are snapshots taken at sale time; later catalog edits do
// not affect them. ProductID is empty for manually typed lines.
type TransactionItem struct {
	ProductID   string  `json:"productId,omitempty" firestore:"productId,omitempty"`
	ProductName string  `json:"productName" firestore:"productName"`
	Quantity    int     `json:"quantity" firestore:"quantity"`
	PriceAtSale float64 `json:"priceAtSale" firestore:"priceAtSale"`
}

// Subtotal returns quantity times the price snapshot.
func (i TransactionItem) Subtotal() float64 {
	return float64(i.Quantity) * i.PriceAtSale
}

// Product is a catalog entry. Stock is floored at zero.
type Product struct {
	ID          string  `json:"id" firestore:"id"`
	Name        string  `json:"name" firestore:"name"`
	Price       float64 `json:"price" firestore:"price"`
	Stock       int     `json:"stock" firestore:"stock"`
	Description string  `json:"description" firestore:"description"`
	Category    *string `json:"category" firestore:"category"`
	Image       *string `json:"image" firestore:"image"`
}

// AddClientParams creates a client. Optional fields stay nil.
type AddClientParams struct {
	Name     string
	Phone    *string
	Location *string
}

// UpdateClientParams patches a client; nil means keep the current value.
type UpdateClientParams struct {
	Name     string
	Phone    *string
	Location *string
	Image    *string
}

// AddTransactionParams records a sale or payment against a client.
type AddTransactionParams struct {
	Type        TransactionType
	Amount      float64
	Description string
	Notify      bool
	Items       []TransactionItem
}

// UpdateTransactionParams replaces amount and description in place.
type UpdateTransactionParams struct {
	Amount      float64
	Description string
}

// AddProductParams creates a catalog entry.
type AddProductParams struct {
	Name        string
	Price       float64
	Stock       int
	Description string
	Category    *string
	Image       *string
}

// UpdateProductParams replaces product fields. Image nil keeps the
// current image; the remaining fields are full replacements.
type UpdateProductParams struct {
	Name        string
	Price       float64
	Stock       int
	Description string
	Category    *string
	Image       *string
}

// Balance folds a transaction collection into the owed amount:
// sum of sales minus sum of payments. It is recomputed in full after
// every transaction-level mutation, never adjusted incrementally.
func Balance(transactions []Transaction) float64 {
	var total float64
	for _, t := range transactions {
		amount := clampAmount(t.Amount)
		if t.Type == TypeSale {
			total += amount
		} else {
			total -= amount
		}
	}
	return total
}

// clampAmount keeps malformed numeric input out of balances.
func clampAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// clampMoney normalizes catalog prices: NaN and negatives become 0.
func clampMoney(v float64) float64 {
	v = clampAmount(v)
	if v < 0 {
		return 0
	}
	return v
}

// clampStock normalizes stock counts: negatives become 0.
func clampStock(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func newID() string {
	return uuid.NewString()
}

var clientPalette = []string{
	"#3B82F6", "#8B5CF6", "#10B981", "#F59E0B",
	"#EF4444", "#EC4899", "#6366F1", "#14B8A6",
}

// ClientColor returns a stable accent color for a client, derived from
// a hash of its id and phone so the same client always renders alike.
func ClientColor(c Client) string {
	var phone string
	if c.Phone != nil {
		phone = *c.Phone
	}
	str := c.ID + phone
	var hash int32
	for _, r := range str {
		hash = r + (hash << 5) - hash
	}
	if hash < 0 {
		hash = -hash
	}
	return clientPalette[int(hash)%len(clientPalette)]
}

// ParseDate parses a transaction timestamp, tolerating the ISO-8601
// variants that have shown up in stored data.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
