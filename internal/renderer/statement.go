// Package renderer turns domain reports into markdown documents. The
// concrete print/share technology (PDF conversion, sharing sheet) is an
// external collaborator; markdown is the hand-off format.
package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"libreta/internal/domain/ledger"
	"libreta/internal/domain/statement"
	"libreta/internal/money"
)

// StatementMarkdown renders a client statement as a markdown document:
// header, account summary and the transaction table, most recent first.
func StatementMarkdown(st statement.Statement, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Historial de transacciones - %s", st.ClientName))
	doc.PlainTextf("Generado el %s", st.GeneratedAt.Format("02/01/2006"))
	doc.LF()

	contact := ""
	if st.Phone != "" {
		contact = "📱 " + st.Phone
	}
	if st.Location != "" {
		if contact != "" {
			contact += " • "
		}
		contact += "📍 " + st.Location
	}
	if contact != "" {
		doc.PlainText(contact)
	}
	if st.MemberSince != "" {
		doc.PlainTextf("Cliente desde: %s", st.MemberSince)
	}
	doc.LF()

	doc.H2("Saldo actual")
	doc.PlainText(money.Format(st.TotalBalance, currency))
	doc.LF()

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Fecha", "Tipo", "Descripción", "Monto", "Saldo"},
		Rows:   [][]string{},
	}
	for _, row := range st.Rows {
		table.Rows = append(table.Rows, []string{
			row.Date.Format("02/01/2006"),
			typeLabel(row.Type),
			row.Description,
			signedAmount(row.SignedAmount, currency),
			money.Format(row.RunningBalance, currency),
		})
	}
	doc.Table(table)

	return doc.String()
}

func typeLabel(t ledger.TransactionType) string {
	if t == ledger.TypeSale {
		return "Venta"
	}
	return "Pago"
}

func signedAmount(v float64, currency string) string {
	if v >= 0 {
		return "+" + money.Format(v, currency)
	}
	return money.Format(v, currency)
}
