package decimal

import (
	"testing"

	stddec "github.com/shopspring/decimal"
)

func money(s string) Money { return NewMoneyFromDecimal(stddec.RequireFromString(s)) }

func TestNewMoneyFromDecimal(t *testing.T) {
	d := stddec.RequireFromString("10.125")
	m := NewMoneyFromDecimal(d)
	if !m.Decimal.Equal(d) {
		t.Fatalf("NewMoneyFromDecimal mismatch: got %s want %s", m.Decimal, d)
	}
}

func TestStringRoundsToPaise(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"0", "0.00"},
		{"2.345", "2.35"},
		{"24797.1377749021", "24797.14"},
		{"2323390.7635", "2323390.76"},
		{"-5.055", "-5.06"},
	}
	for _, c := range cases {
		if got := money(c.in).String(); got != c.out {
			t.Errorf("String(%s) got %s want %s", c.in, got, c.out)
		}
	}
}

func TestFormatIndianGrouping(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"0", "₹0.00"},
		{"999", "₹999.00"},
		{"1000", "₹1,000.00"},
		{"100000", "₹1,00,000.00"},
		{"2323390.7635", "₹23,23,390.76"},
		{"123456789.5", "₹12,34,56,789.50"},
		{"-24797.14", "-₹24,797.14"},
		{"-0.001", "₹0.00"},
	}
	for _, c := range cases {
		if got := money(c.in).Format(); got != c.out {
			t.Errorf("Format(%s) got %s want %s", c.in, got, c.out)
		}
	}
}

func TestCompact(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"50000", "₹50,000.00"},
		{"2323390.76", "₹23.23 L"},
		{"12000000", "₹1.20 Cr"},
		{"-150000", "-₹1.50 L"},
	}
	for _, c := range cases {
		if got := money(c.in).Compact(); got != c.out {
			t.Errorf("Compact(%s) got %s want %s", c.in, got, c.out)
		}
	}
}
