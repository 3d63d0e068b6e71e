// Package schads implements the SCHADS award pay calculation. Calculations
// are pure functions of their inputs so a breakdown can be recomputed and
// audited at any time.
package schads

import "github.com/shopspring/decimal"

// Penalty multipliers applied to the base hourly rate per hour category.
// Casual staff receive an additional 0.25 loading on top of every multiplier.
var (
	OrdinaryMultiplier      = decimal.NewFromFloat(1.0)
	WeekendMultiplier       = decimal.NewFromFloat(1.5)
	PublicHolidayMultiplier = decimal.NewFromFloat(2.5)
	EveningMultiplier       = decimal.NewFromFloat(1.125)
	NightMultiplier         = decimal.NewFromFloat(1.15)
	OvertimeTier1Multiplier = decimal.NewFromFloat(1.5)
	OvertimeTier2Multiplier = decimal.NewFromFloat(2.0)

	CasualLoading = decimal.NewFromFloat(0.25)

	// SuperGuaranteeRate is the employer superannuation contribution rate.
	SuperGuaranteeRate = decimal.NewFromFloat(0.115)
)

// OvertimeTier1Hours is the number of overtime hours paid at the first tier
// before the second tier multiplier applies.
const OvertimeTier1Hours = 2.0
