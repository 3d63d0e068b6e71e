package schads

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/careops-au/ndis-ops-api/internal/models"
)

// Input carries everything the pay calculation depends on. All hour
// categories and allowances are independently optional.
type Input struct {
	Hours          models.HoursBreakdown
	Allowances     models.Allowances
	BaseRate       decimal.Decimal
	EmploymentType models.EmploymentType
}

// Result is the itemised outcome of one calculation.
type Result struct {
	Calculations      models.CategoryPays
	GrossPay          decimal.Decimal
	Tax               decimal.Decimal
	SuperContribution decimal.Decimal
	NetPay            decimal.Decimal
}

// Calculator converts an hours breakdown into an itemised pay result. It
// holds no mutable state; the same input always yields the same result.
type Calculator struct {
	tax TaxCalculator
}

// NewCalculator builds a Calculator. A nil tax calculator falls back to the
// default bracket table.
func NewCalculator(tax TaxCalculator) *Calculator {
	if tax == nil {
		tax = NewBracketTax()
	}
	return &Calculator{tax: tax}
}

// Calculate applies the award rules to the input. Superannuation is an
// employer contribution reported alongside the payslip; net pay is gross
// minus tax only.
func (c *Calculator) Calculate(in Input) (*Result, error) {
	if !in.BaseRate.IsPositive() {
		return nil, fmt.Errorf("base rate must be positive, got %s", in.BaseRate)
	}
	if err := validateHours(in.Hours); err != nil {
		return nil, err
	}

	loading := decimal.Zero
	if in.EmploymentType == models.EmploymentCasual {
		loading = CasualLoading
	}

	calc := models.CategoryPays{
		Ordinary:        categoryPay(in.Hours.Ordinary, in.BaseRate, OrdinaryMultiplier, loading),
		Weekend:         categoryPay(in.Hours.Weekend, in.BaseRate, WeekendMultiplier, loading),
		PublicHoliday:   categoryPay(in.Hours.PublicHoliday, in.BaseRate, PublicHolidayMultiplier, loading),
		Evening:         categoryPay(in.Hours.Evening, in.BaseRate, EveningMultiplier, loading),
		Night:           categoryPay(in.Hours.Night, in.BaseRate, NightMultiplier, loading),
		Overtime:        overtimePay(in.Hours.Overtime, in.BaseRate, loading),
		TotalAllowances: decimal.NewFromFloat(in.Allowances.Total()).Round(2),
	}

	gross := calc.Ordinary.
		Add(calc.Weekend).
		Add(calc.PublicHoliday).
		Add(calc.Evening).
		Add(calc.Night).
		Add(calc.Overtime).
		Add(calc.TotalAllowances)

	tax := c.tax.Withheld(gross)
	super := gross.Mul(SuperGuaranteeRate).Round(2)
	net := gross.Sub(tax)

	return &Result{
		Calculations:      calc,
		GrossPay:          gross,
		Tax:               tax,
		SuperContribution: super,
		NetPay:            net,
	}, nil
}

func categoryPay(hours float64, rate, multiplier, loading decimal.Decimal) decimal.Decimal {
	if hours == 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(hours).Mul(rate).Mul(multiplier.Add(loading)).Round(2)
}

// overtimePay applies the tiered overtime rule: the first two hours at the
// tier-1 multiplier, anything beyond at tier 2.
func overtimePay(hours float64, rate, loading decimal.Decimal) decimal.Decimal {
	if hours == 0 {
		return decimal.Zero
	}
	tier1 := hours
	tier2 := 0.0
	if hours > OvertimeTier1Hours {
		tier1 = OvertimeTier1Hours
		tier2 = hours - OvertimeTier1Hours
	}
	pay := decimal.NewFromFloat(tier1).Mul(rate).Mul(OvertimeTier1Multiplier.Add(loading))
	if tier2 > 0 {
		pay = pay.Add(decimal.NewFromFloat(tier2).Mul(rate).Mul(OvertimeTier2Multiplier.Add(loading)))
	}
	return pay.Round(2)
}

func validateHours(h models.HoursBreakdown) error {
	categories := map[string]float64{
		"ordinary":       h.Ordinary,
		"overtime":       h.Overtime,
		"weekend":        h.Weekend,
		"public_holiday": h.PublicHoliday,
		"evening":        h.Evening,
		"night":          h.Night,
	}
	for name, v := range categories {
		if v < 0 {
			return fmt.Errorf("%s hours must not be negative, got %v", name, v)
		}
	}
	return nil
}
