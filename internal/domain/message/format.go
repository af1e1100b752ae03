// Package message turns transaction events into user-facing WhatsApp
// text. Everything here is pure; actually delivering the text is the
// dispatch adapter's problem.
package message

import (
	"fmt"
	"strings"

	"libreta/internal/money"
)

// DefaultSaleTemplate is the out-of-the-box sale notification. Users may
// edit it; placeholders are {name}, {amount}, {description} and {balance},
// each replaced globally.
const DefaultSaleTemplate = `Hola {name}! 👋

Se ha registrado una nueva compra:
📦 {description}
💵 {amount}

Tu saldo actual es: {balance}

¡Gracias por tu preferencia! 😊`

// DefaultPaymentTemplate is the out-of-the-box payment notification.
const DefaultPaymentTemplate = `Hola {name}! 👋

Se ha registrado tu pago:
💰 {amount}
📝 {description}

Tu saldo pendiente es: {balance}

¡Gracias por tu pago! 😊`

// LineItem is one row of an itemized sale. Name and unit price are
// snapshots from the transaction, not live catalog values.
type LineItem struct {
	Quantity  int
	Name      string
	UnitPrice float64
}

// SaleParams feeds Sale.
type SaleParams struct {
	ClientName   string
	Amount       float64
	Description  string
	Balance      float64
	Template     string
	Items        []LineItem
	BusinessName string
	Currency     string
}

// PaymentParams feeds Payment.
type PaymentParams struct {
	ClientName   string
	Amount       float64
	Description  string
	Balance      float64
	Template     string
	BusinessName string
	Currency     string
}

// Sale renders a sale notification. When line items are present an
// itemized detail block is appended to the description placeholder, one
// line per item.
func Sale(p SaleParams) string {
	tmpl := p.Template
	if tmpl == "" {
		tmpl = DefaultSaleTemplate
	}

	description := p.Description
	if len(p.Items) > 0 {
		var b strings.Builder
		b.WriteString(description)
		b.WriteString("\n\n*Detalle de compra:*")
		for _, item := range p.Items {
			subtotal := float64(item.Quantity) * item.UnitPrice
			fmt.Fprintf(&b, "\n✅ %dx %s .... %s", item.Quantity, item.Name, money.Format(subtotal, p.Currency))
		}
		description = b.String()
	}

	return header(p.BusinessName) + substitute(tmpl, p.ClientName, p.Amount, description, p.Balance, p.Currency)
}

// Payment renders a payment notification. When the unmodified default
// template is in use and the payment settles the account (balance ≤ 0),
// the substitution is discarded in favor of a fixed celebratory message.
// A user-customized template is always honored as written.
func Payment(p PaymentParams) string {
	tmpl := p.Template
	if tmpl == "" {
		tmpl = DefaultPaymentTemplate
	}

	if tmpl == DefaultPaymentTemplate && p.Balance <= 0 {
		return header(p.BusinessName) + settled(p.ClientName, p.Amount, p.Description, p.Currency)
	}

	return header(p.BusinessName) + substitute(tmpl, p.ClientName, p.Amount, p.Description, p.Balance, p.Currency)
}

func substitute(tmpl, name string, amount float64, description string, balance float64, currency string) string {
	out := strings.ReplaceAll(tmpl, "{name}", name)
	out = strings.ReplaceAll(out, "{amount}", money.Format(amount, currency))
	out = strings.ReplaceAll(out, "{description}", description)
	out = strings.ReplaceAll(out, "{balance}", money.Format(balance, currency))
	return out
}

func header(businessName string) string {
	if businessName == "" {
		return ""
	}
	return "*" + businessName + "*\n\n"
}

func settled(name string, amount float64, description, currency string) string {
	return fmt.Sprintf("Hola %s! 👋\n\n"+
		"Se ha registrado tu pago:\n"+
		"💰 %s\n"+
		"📝 %s\n\n"+
		"✅ ¡Felicidades! Tu cuenta está al día.\n\n"+
		"¡Gracias por tu pago! 😊",
		name, money.Format(amount, currency), description)
}
