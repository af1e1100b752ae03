package ledger

import (
	"sort"
	"time"
)

// MonthlySummary aggregates one calendar month of activity across the
// whole ledger.
type MonthlySummary struct {
	Year         int
	Month        time.Month
	Sales        float64
	Payments     float64
	Transactions int
}

// Net is sales minus payments for the month.
func (m MonthlySummary) Net() float64 {
	return m.Sales - m.Payments
}

// Summarize walks every client's history and totals the transactions
// falling in the given month. Entries with missing or unparseable dates
// are skipped.
func Summarize(clients []Client, year int, month time.Month) MonthlySummary {
	sum := MonthlySummary{Year: year, Month: month}
	for _, c := range clients {
		for _, t := range c.Transactions {
			ts, ok := ParseDate(t.Date)
			if !ok {
				continue
			}
			if ts.Year() != year || ts.Month() != month {
				continue
			}
			sum.Transactions++
			if t.Type == TypeSale {
				sum.Sales += clampAmount(t.Amount)
			} else {
				sum.Payments += clampAmount(t.Amount)
			}
		}
	}
	return sum
}

// Pending returns the clients that still owe money, largest debt first.
// The input is not modified.
func Pending(clients []Client) []Client {
	out := make([]Client, 0, len(clients))
	for _, c := range clients {
		if c.TotalBalance > 0 {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalBalance > out[j].TotalBalance
	})
	return out
}
