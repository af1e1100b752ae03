package statement

import (
	"testing"
	"time"

	"libreta/internal/domain/ledger"
)

func TestBuildRunningBalanceOrder(t *testing.T) {
	// History stored newest first, as the ledger keeps it.
	c := ledger.Client{
		Name:         "Ana",
		TotalBalance: 450,
		Transactions: []ledger.Transaction{
			{ID: "t3", Type: ledger.TypeSale, Amount: 150, Date: "2024-03-20T10:00:00Z", Description: "tercera"},
			{ID: "t2", Type: ledger.TypePayment, Amount: 200, Date: "2024-03-10T10:00:00Z", Description: "abono"},
			{ID: "t1", Type: ledger.TypeSale, Amount: 500, Date: "2024-03-01T10:00:00Z", Description: "primera"},
		},
	}

	st := Build(c, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))

	if len(st.Rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(st.Rows))
	}

	// Display order is newest first.
	if st.Rows[0].Description != "tercera" || st.Rows[2].Description != "primera" {
		t.Errorf("display order wrong: [%s %s %s]",
			st.Rows[0].Description, st.Rows[1].Description, st.Rows[2].Description)
	}

	// Running balances were computed oldest first: 500, 300, 450.
	wantBalances := []float64{450, 300, 500}
	for i, want := range wantBalances {
		if st.Rows[i].RunningBalance != want {
			t.Errorf("row %d running balance = %v, want %v", i, st.Rows[i].RunningBalance, want)
		}
	}

	// Payments carry a negative signed amount.
	if st.Rows[1].SignedAmount != -200 {
		t.Errorf("payment signed amount = %v, want -200", st.Rows[1].SignedAmount)
	}
	if st.Rows[0].SignedAmount != 150 {
		t.Errorf("sale signed amount = %v, want 150", st.Rows[0].SignedAmount)
	}
}

func TestBuildSkipsMalformedDates(t *testing.T) {
	c := ledger.Client{
		Name: "Ana",
		Transactions: []ledger.Transaction{
			{ID: "t1", Type: ledger.TypeSale, Amount: 100, Date: "2024-03-01T10:00:00Z"},
			{ID: "t2", Type: ledger.TypeSale, Amount: 999, Date: "corrupted"},
			{ID: "t3", Type: ledger.TypeSale, Amount: 999, Date: ""},
		},
	}

	st := Build(c, time.Now())

	if len(st.Rows) != 1 {
		t.Fatalf("got %d rows, want 1 (malformed dates skipped)", len(st.Rows))
	}
	if st.Rows[0].RunningBalance != 100 {
		t.Errorf("running balance = %v, want 100 (skipped rows must not contribute)", st.Rows[0].RunningBalance)
	}
}

func TestBuildHeaderFields(t *testing.T) {
	phone := "5215512345678"
	location := "Col. Centro"
	c := ledger.Client{
		Name:         "Ana",
		Phone:        &phone,
		Location:     &location,
		MemberSince:  "15/01/2024",
		TotalBalance: 75,
	}

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	st := Build(c, now)

	if st.ClientName != "Ana" || st.Phone != phone || st.Location != location {
		t.Errorf("header = %+v, want client contact data carried over", st)
	}
	if st.MemberSince != "15/01/2024" {
		t.Errorf("MemberSince = %q", st.MemberSince)
	}
	if st.TotalBalance != 75 {
		t.Errorf("TotalBalance = %v, want 75", st.TotalBalance)
	}
	if !st.GeneratedAt.Equal(now) {
		t.Errorf("GeneratedAt = %v, want %v", st.GeneratedAt, now)
	}
	if len(st.Rows) != 0 {
		t.Errorf("empty history should yield no rows, got %d", len(st.Rows))
	}
}

func TestBuildDecimalPrecision(t *testing.T) {
	// 0.1 + 0.2 style drift must not show up in running balances.
	c := ledger.Client{
		Name: "Ana",
		Transactions: []ledger.Transaction{
			{ID: "t2", Type: ledger.TypePayment, Amount: 0.2, Date: "2024-03-02T10:00:00Z"},
			{ID: "t1", Type: ledger.TypeSale, Amount: 0.3, Date: "2024-03-01T10:00:00Z"},
		},
	}

	st := Build(c, time.Now())

	if got := st.Rows[0].RunningBalance; got != 0.1 {
		t.Errorf("running balance = %v, want exactly 0.1", got)
	}
}
