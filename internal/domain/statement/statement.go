// Package statement builds a printable account statement for one client.
// The running balance is computed in chronological order; the rows are
// then presented newest first. Those two orders are deliberately
// different and must not be conflated.
package statement

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"libreta/internal/domain/ledger"
)

// Row is one statement line. SignedAmount carries the sale/payment sign
// (+/−); RunningBalance is the balance immediately after this
// transaction, computed by replaying the history oldest first.
type Row struct {
	Date           time.Time
	Type           ledger.TransactionType
	Description    string
	SignedAmount   float64
	RunningBalance float64
}

// Statement is the complete renderable document for one client.
type Statement struct {
	ClientName   string
	Phone        string
	Location     string
	MemberSince  string
	TotalBalance float64
	GeneratedAt  time.Time
	Rows         []Row
}

// Build produces the statement for a client. Transactions with missing
// or unparseable dates are skipped. The returned rows are ordered most
// recent first while each row keeps the balance annotation computed in
// chronological order.
func Build(c ledger.Client, now time.Time) Statement {
	st := Statement{
		ClientName:   c.Name,
		MemberSince:  c.MemberSince,
		TotalBalance: c.TotalBalance,
		GeneratedAt:  now,
	}
	if c.Phone != nil {
		st.Phone = *c.Phone
	}
	if c.Location != nil {
		st.Location = *c.Location
	}

	type dated struct {
		tx ledger.Transaction
		ts time.Time
	}
	entries := make([]dated, 0, len(c.Transactions))
	for _, t := range c.Transactions {
		ts, ok := ledger.ParseDate(t.Date)
		if !ok {
			continue
		}
		entries = append(entries, dated{tx: t, ts: ts})
	}

	// Oldest first for the balance walk.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ts.Before(entries[j].ts)
	})

	running := decimal.Zero
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		amount := decimal.NewFromFloat(e.tx.Amount)
		signed := amount
		if e.tx.Type == ledger.TypeSale {
			running = running.Add(amount)
		} else {
			running = running.Sub(amount)
			signed = amount.Neg()
		}
		rows = append(rows, Row{
			Date:           e.ts,
			Type:           e.tx.Type,
			Description:    e.tx.Description,
			SignedAmount:   signed.InexactFloat64(),
			RunningBalance: running.InexactFloat64(),
		})
	}

	// Newest first for display, annotations untouched.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	st.Rows = rows
	return st
}
