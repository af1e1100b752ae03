package ledger

import (
	"math"
	"testing"
	"time"
)

func TestBalance(t *testing.T) {
	tests := []struct {
		name         string
		transactions []Transaction
		want         float64
	}{
		{
			name:         "empty history",
			transactions: []Transaction{},
			want:         0,
		},
		{
			name: "sales only",
			transactions: []Transaction{
				{Type: TypeSale, Amount: 500},
				{Type: TypeSale, Amount: 250},
			},
			want: 750,
		},
		{
			name: "sales and payments",
			transactions: []Transaction{
				{Type: TypeSale, Amount: 500},
				{Type: TypePayment, Amount: 200},
			},
			want: 300,
		},
		{
			name: "payments exceed sales",
			transactions: []Transaction{
				{Type: TypePayment, Amount: 200},
			},
			want: -200,
		},
		{
			name: "malformed amounts count as zero",
			transactions: []Transaction{
				{Type: TypeSale, Amount: math.NaN()},
				{Type: TypeSale, Amount: math.Inf(1)},
				{Type: TypeSale, Amount: 100},
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Balance(tt.transactions); got != tt.want {
				t.Errorf("Balance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubtotal(t *testing.T) {
	item := TransactionItem{Quantity: 3, PriceAtSale: 45.5}
	if got := item.Subtotal(); got != 136.5 {
		t.Errorf("Subtotal() = %v, want 136.5", got)
	}
}

func TestClientColor(t *testing.T) {
	phone := "5215512345678"
	c := Client{ID: "abc-123", Phone: &phone}

	first := ClientColor(c)
	if first == "" {
		t.Fatal("ClientColor returned empty string")
	}

	// Same client always renders alike.
	for i := 0; i < 10; i++ {
		if got := ClientColor(c); got != first {
			t.Fatalf("ClientColor not stable: %q then %q", first, got)
		}
	}

	found := false
	for _, p := range clientPalette {
		if p == first {
			found = true
		}
	}
	if !found {
		t.Errorf("ClientColor() = %q, not in palette", first)
	}

	// Nil phone must not panic and still be stable.
	noPhone := Client{ID: "abc-123"}
	if ClientColor(noPhone) != ClientColor(noPhone) {
		t.Error("ClientColor unstable for client without phone")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
		want  time.Time
	}{
		{
			name:  "RFC3339",
			input: "2024-03-15T10:30:00Z",
			ok:    true,
			want:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "RFC3339 with nanos",
			input: "2024-03-15T10:30:00.123456789Z",
			ok:    true,
			want:  time.Date(2024, 3, 15, 10, 30, 0, 123456789, time.UTC),
		},
		{
			name:  "date only",
			input: "2024-03-15",
			ok:    true,
			want:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{name: "empty", input: "", ok: false},
		{name: "whitespace", input: "   ", ok: false},
		{name: "garbage", input: "not-a-date", ok: false},
		{name: "display format rejected", input: "15/03/2024", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseDate(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
