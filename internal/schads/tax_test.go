package schads

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBracketTaxBoundaries(t *testing.T) {
	tax := NewBracketTax()

	tests := []struct {
		gross string
		want  string
	}{
		{"0", "0"},
		{"499.99", "0"},
		{"500", "95"},
		{"999.99", "190"},
		{"1000", "290"},
		{"1425", "413.25"},
		{"1999.99", "580"},
		{"2000", "640"},
		{"5000", "1600"},
	}

	for _, tc := range tests {
		t.Run(tc.gross, func(t *testing.T) {
			got := tax.Withheld(decimal.RequireFromString(tc.gross))
			assertDecimal(t, tc.want, got)
		})
	}
}
