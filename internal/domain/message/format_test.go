package message

import (
	"strings"
	"testing"
)

func TestSale(t *testing.T) {
	tests := []struct {
		name     string
		params   SaleParams
		contains []string
		excludes []string
	}{
		{
			name: "default template substitutes all placeholders",
			params: SaleParams{
				ClientName:  "Ana",
				Amount:      150,
				Description: "despensa",
				Balance:     150,
				Currency:    "MXN",
			},
			contains: []string{"Hola Ana!", "📦 despensa", "💵 $150", "Tu saldo actual es: $150"},
			excludes: []string{"{name}", "{amount}", "{description}", "{balance}"},
		},
		{
			name: "custom template with repeated placeholder",
			params: SaleParams{
				ClientName: "Ana",
				Amount:     1500,
				Balance:    2000,
				Template:   "{name} {name} debe {amount}, saldo {balance}",
				Currency:   "MXN",
			},
			contains: []string{"Ana Ana debe $1,500, saldo $2,000"},
		},
		{
			name: "itemized detail block",
			params: SaleParams{
				ClientName:  "Ana",
				Amount:      165,
				Description: "despensa",
				Balance:     165,
				Currency:    "MXN",
				Items: []LineItem{
					{Quantity: 2, Name: "Leche", UnitPrice: 30},
					{Quantity: 1, Name: "Pan", UnitPrice: 105},
				},
			},
			contains: []string{
				"*Detalle de compra:*",
				"✅ 2x Leche .... $60",
				"✅ 1x Pan .... $105",
			},
		},
		{
			name: "business name header",
			params: SaleParams{
				ClientName:   "Ana",
				Amount:       100,
				Balance:      100,
				BusinessName: "Abarrotes Lupita",
				Currency:     "MXN",
			},
			contains: []string{"*Abarrotes Lupita*\n\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sale(tt.params)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Sale() missing %q:\n%s", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("Sale() left placeholder %q unsubstituted:\n%s", bad, got)
				}
			}
		})
	}
}

func TestSaleExactSubstitution(t *testing.T) {
	got := Sale(SaleParams{
		ClientName: "Ana",
		Balance:    150,
		Template:   "Hola {name}, debes {balance}",
		Currency:   "MXN",
	})
	if got != "Hola Ana, debes $150" {
		t.Errorf("Sale() = %q, want %q", got, "Hola Ana, debes $150")
	}
}

func TestPayment(t *testing.T) {
	tests := []struct {
		name        string
		params      PaymentParams
		contains    []string
		excludes    []string
		wantSettled bool
	}{
		{
			name: "default template with outstanding balance",
			params: PaymentParams{
				ClientName:  "Ana",
				Amount:      200,
				Description: "abono",
				Balance:     300,
				Currency:    "MXN",
			},
			contains: []string{"Hola Ana!", "💰 $200", "Tu saldo pendiente es: $300"},
		},
		{
			name: "settled account overrides the default template",
			params: PaymentParams{
				ClientName:  "Ana",
				Amount:      150,
				Description: "liquidación",
				Balance:     0,
				Currency:    "MXN",
			},
			wantSettled: true,
			contains:    []string{"💰 $150", "📝 liquidación"},
		},
		{
			name: "overpayment also counts as settled",
			params: PaymentParams{
				ClientName: "Ana",
				Amount:     500,
				Balance:    -50,
				Currency:   "MXN",
			},
			wantSettled: true,
		},
		{
			name: "customized template is honored even at zero balance",
			params: PaymentParams{
				ClientName: "Ana",
				Amount:     150,
				Balance:    0,
				Template:   "Gracias {name}, recibimos {amount}. Saldo: {balance}",
				Currency:   "MXN",
			},
			contains: []string{"Gracias Ana, recibimos $150. Saldo: $0"},
		},
		{
			name: "business name header precedes the settled message",
			params: PaymentParams{
				ClientName:   "Ana",
				Amount:       150,
				Balance:      0,
				BusinessName: "Abarrotes Lupita",
				Currency:     "MXN",
			},
			wantSettled: true,
			contains:    []string{"*Abarrotes Lupita*\n\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Payment(tt.params)
			settled := strings.Contains(got, "¡Felicidades! Tu cuenta está al día")
			if settled != tt.wantSettled {
				t.Errorf("settled message = %v, want %v:\n%s", settled, tt.wantSettled, got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Payment() missing %q:\n%s", want, got)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("Payment() contains %q:\n%s", bad, got)
				}
			}
		})
	}
}
