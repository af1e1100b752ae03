package money

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		code   string
		want   string
	}{
		{"Small whole amount", 150, "MXN", "$150"},
		{"Thousands separator", 1500, "MXN", "$1,500"},
		{"Millions", 1234567, "MXN", "$1,234,567"},
		{"Zero", 0, "MXN", "$0"},
		{"Fractional", 230.5, "MXN", "$230.50"},
		{"Negative", -230.5, "MXN", "-$230.50"},
		{"Negative whole", -200, "MXN", "-$200"},
		{"Rounds half cent", 10.005, "MXN", "$10.01"},
		{"Exactly one thousand", 1000, "MXN", "$1,000"},
		{"Unknown code falls back", 1500, "???", "$1,500"},
		{"Euro grapheme", 1500, "EUR", "€1.500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.amount, tt.code); got != tt.want {
				t.Errorf("Format(%v, %q) = %q, want %q", tt.amount, tt.code, got, tt.want)
			}
		})
	}
}
