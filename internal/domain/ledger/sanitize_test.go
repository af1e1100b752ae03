package ledger

import (
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestSanitizeClients(t *testing.T) {
	clients := []Client{
		{
			ID:     "c1",
			Name:   "Ana",
			Image:  strPtr("file:///data/user/0/app/cache/photo.jpg"),
			Avatar: strPtr("https://storage.googleapis.com/bucket/avatar.png"),
			Transactions: []Transaction{
				{ID: "t1", Type: TypeSale, Amount: 500},
				{ID: "t2", Type: TypePayment, Amount: 200},
			},
			TotalBalance: 9999, // stale on purpose
		},
		{
			ID:    "c2",
			Name:  "Luis",
			Image: strPtr("http://example.com/pic.jpg"),
		},
	}

	got := sanitizeClients(clients)

	if got[0].Image != nil {
		t.Errorf("local image URI survived sanitization: %q", *got[0].Image)
	}
	if got[0].Avatar == nil || *got[0].Avatar != "https://storage.googleapis.com/bucket/avatar.png" {
		t.Error("remote avatar URI should be kept")
	}
	if got[0].TotalBalance != 300 {
		t.Errorf("TotalBalance = %v, want recomputed 300", got[0].TotalBalance)
	}
	if got[1].Image == nil || *got[1].Image != "http://example.com/pic.jpg" {
		t.Error("http URI should be kept")
	}

	// Input must be untouched.
	if clients[0].Image == nil {
		t.Error("sanitizeClients modified its input")
	}

	// Deep copy: mutating the result must not leak back.
	got[0].Transactions[0].Amount = 1
	if clients[0].Transactions[0].Amount != 500 {
		t.Error("sanitized transactions share memory with the input")
	}

	// Idempotent.
	again := sanitizeClients(got)
	if !reflect.DeepEqual(again, got) {
		t.Error("sanitizeClients is not idempotent")
	}
}

func TestSanitizeProducts(t *testing.T) {
	products := []Product{
		{ID: "p1", Name: "Leche", Price: -10, Stock: -3, Image: strPtr("/sdcard/leche.png")},
		{ID: "p2", Name: "Pan", Price: 25.5, Stock: 4, Image: strPtr("https://cdn.example.com/pan.png")},
	}

	got := sanitizeProducts(products)

	if got[0].Price != 0 {
		t.Errorf("negative price = %v, want 0", got[0].Price)
	}
	if got[0].Stock != 0 {
		t.Errorf("negative stock = %v, want 0", got[0].Stock)
	}
	if got[0].Image != nil {
		t.Error("local image URI survived sanitization")
	}
	if got[1].Price != 25.5 || got[1].Stock != 4 || got[1].Image == nil {
		t.Error("well-formed product should pass through unchanged")
	}
}

func TestCopyClientsNormalizesNilHistory(t *testing.T) {
	got := copyClients([]Client{{ID: "c1", Name: "Ana"}})
	if got[0].Transactions == nil {
		t.Error("nil transaction slice should become an explicit empty history")
	}
}
