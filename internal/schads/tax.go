package schads

import "github.com/shopspring/decimal"

// TaxCalculator computes the withholding amount for a gross pay figure. It is
// an interface so the simplified bracket table can be swapped for a
// jurisdiction-accurate one without touching the rest of the engine.
type TaxCalculator interface {
	Withheld(gross decimal.Decimal) decimal.Decimal
}

type taxBracket struct {
	// floor is the lowest gross amount (inclusive) the rate applies to.
	floor decimal.Decimal
	rate  decimal.Decimal
}

// BracketTax is a simplified flat-bracket approximation of PAYG withholding:
// the single rate of the bracket the gross falls into applies to the whole
// amount. It is not a marginal tax table.
type BracketTax struct {
	brackets []taxBracket
}

// NewBracketTax returns the default withholding table: 0% below 500, 19% from
// 500, 29% from 1000 and 32% from 2000.
func NewBracketTax() *BracketTax {
	return &BracketTax{
		brackets: []taxBracket{
			{floor: decimal.NewFromInt(2000), rate: decimal.NewFromFloat(0.32)},
			{floor: decimal.NewFromInt(1000), rate: decimal.NewFromFloat(0.29)},
			{floor: decimal.NewFromInt(500), rate: decimal.NewFromFloat(0.19)},
		},
	}
}

// Withheld returns the tax amount for the given gross pay, rounded to cents.
func (t *BracketTax) Withheld(gross decimal.Decimal) decimal.Decimal {
	for _, b := range t.brackets {
		if gross.GreaterThanOrEqual(b.floor) {
			return gross.Mul(b.rate).Round(2)
		}
	}
	return decimal.Zero
}
