package schads

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careops-au/ndis-ops-api/internal/models"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

func mustCalc(t *testing.T, in Input) *Result {
	t.Helper()
	res, err := NewCalculator(nil).Calculate(in)
	require.NoError(t, err)
	return res
}

func rate(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestCalculateCasualOrdinaryWeek(t *testing.T) {
	res := mustCalc(t, Input{
		Hours:          models.HoursBreakdown{Ordinary: 38},
		BaseRate:       rate("30"),
		EmploymentType: models.EmploymentCasual,
	})

	assertDecimal(t, "1425", res.GrossPay)
	assertDecimal(t, "413.25", res.Tax)
	assertDecimal(t, "163.88", res.SuperContribution)
	assertDecimal(t, "1011.75", res.NetPay)
}

func TestCalculateCategoryMultipliers(t *testing.T) {
	tests := []struct {
		name  string
		hours models.HoursBreakdown
		want  string
	}{
		{"ordinary", models.HoursBreakdown{Ordinary: 4}, "160"},
		{"weekend", models.HoursBreakdown{Weekend: 4}, "240"},
		{"public holiday", models.HoursBreakdown{PublicHoliday: 4}, "400"},
		{"evening", models.HoursBreakdown{Evening: 4}, "180"},
		{"night", models.HoursBreakdown{Night: 4}, "184"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := mustCalc(t, Input{
				Hours:          tc.hours,
				BaseRate:       rate("40"),
				EmploymentType: models.EmploymentPartTime,
			})
			assertDecimal(t, tc.want, res.GrossPay)
		})
	}
}

func TestCalculateOvertimeTiering(t *testing.T) {
	base := Input{BaseRate: rate("30"), EmploymentType: models.EmploymentFullTime}

	base.Hours = models.HoursBreakdown{Overtime: 2}
	res := mustCalc(t, base)
	assertDecimal(t, "90", res.Calculations.Overtime)

	base.Hours = models.HoursBreakdown{Overtime: 3}
	res = mustCalc(t, base)
	assertDecimal(t, "150", res.Calculations.Overtime)

	base.Hours = models.HoursBreakdown{Overtime: 1.5}
	res = mustCalc(t, base)
	assertDecimal(t, "67.5", res.Calculations.Overtime)
}

func TestCalculateCasualLoadingAppliesToEveryCategory(t *testing.T) {
	hours := models.HoursBreakdown{Ordinary: 2, Overtime: 3, Weekend: 2, PublicHoliday: 1, Evening: 1, Night: 1}
	in := Input{Hours: hours, BaseRate: rate("32.50"), EmploymentType: models.EmploymentFullTime}

	permanent := mustCalc(t, in)
	in.EmploymentType = models.EmploymentCasual
	casual := mustCalc(t, in)

	assert.True(t, casual.GrossPay.GreaterThan(permanent.GrossPay))
	// Loading is a flat +0.25 on every multiplier, so the difference is
	// exactly 0.25 * rate * total hours.
	wantDiff := rate("32.50").Mul(decimal.NewFromFloat(0.25)).Mul(decimal.NewFromInt(10))
	assert.True(t, casual.GrossPay.Sub(permanent.GrossPay).Equal(wantDiff))
}

func TestCalculateGrossMonotonicInHours(t *testing.T) {
	in := Input{
		Hours:          models.HoursBreakdown{Ordinary: 10, Weekend: 5},
		BaseRate:       rate("35"),
		EmploymentType: models.EmploymentCasual,
	}
	prev := mustCalc(t, in).GrossPay

	for _, bump := range []models.HoursBreakdown{
		{Ordinary: 11, Weekend: 5},
		{Ordinary: 11, Weekend: 6},
		{Ordinary: 11, Weekend: 6, Night: 1},
		{Ordinary: 11, Weekend: 6, Night: 1, Overtime: 4},
	} {
		in.Hours = bump
		got := mustCalc(t, in).GrossPay
		assert.True(t, got.GreaterThanOrEqual(prev), "gross must not decrease when hours increase")
		prev = got
	}
}

func TestCalculateAllowancesSumIntoGross(t *testing.T) {
	res := mustCalc(t, Input{
		Hours:    models.HoursBreakdown{Ordinary: 10},
		BaseRate: rate("30"),
		Allowances: models.Allowances{
			BrokenShift: 17.02,
			Sleepover:   60.02,
			Meal:        15.50,
		},
		EmploymentType: models.EmploymentPartTime,
	})

	assertDecimal(t, "92.54", res.Calculations.TotalAllowances)
	assertDecimal(t, "392.54", res.GrossPay)
}

func TestCalculateDeterministic(t *testing.T) {
	in := Input{
		Hours:          models.HoursBreakdown{Ordinary: 23.5, Overtime: 4.25, Evening: 3, Night: 2},
		BaseRate:       rate("41.76"),
		Allowances:     models.Allowances{Travel: 12.40},
		EmploymentType: models.EmploymentCasual,
	}

	first := mustCalc(t, in)
	second := mustCalc(t, in)

	assert.True(t, first.GrossPay.Equal(second.GrossPay))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.SuperContribution.Equal(second.SuperContribution))
	assert.True(t, first.NetPay.Equal(second.NetPay))
}

func TestCalculateRejectsBadInput(t *testing.T) {
	_, err := NewCalculator(nil).Calculate(Input{BaseRate: decimal.Zero})
	assert.Error(t, err)

	_, err = NewCalculator(nil).Calculate(Input{
		BaseRate: rate("30"),
		Hours:    models.HoursBreakdown{Overtime: -1},
	})
	assert.Error(t, err)
}

func TestCalculateZeroHoursZeroAllowances(t *testing.T) {
	res := mustCalc(t, Input{BaseRate: rate("30"), EmploymentType: models.EmploymentCasual})
	assert.True(t, res.GrossPay.IsZero())
	assert.True(t, res.Tax.IsZero())
	assert.True(t, res.NetPay.IsZero())
}
