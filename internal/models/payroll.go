package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// HoursBreakdown holds worked hours per SCHADS category for one staff member
// and pay period. Immutable once a pay run has consumed it.
type HoursBreakdown struct {
	Ordinary      float64 `db:"ordinary_hours" json:"ordinary_hours"`
	Overtime      float64 `db:"overtime_hours" json:"overtime_hours"`
	Weekend       float64 `db:"weekend_hours" json:"weekend_hours"`
	PublicHoliday float64 `db:"public_holiday_hours" json:"public_holiday_hours"`
	Evening       float64 `db:"evening_hours" json:"evening_hours"`
	Night         float64 `db:"night_hours" json:"night_hours"`
}

// Total returns the sum of all categories.
func (h HoursBreakdown) Total() float64 {
	return h.Ordinary + h.Overtime + h.Weekend + h.PublicHoliday + h.Evening + h.Night
}

// Allowances holds optional fixed add-on amounts. A zero value means the
// allowance was not claimed.
type Allowances struct {
	BrokenShift float64 `db:"broken_shift_allowance" json:"broken_shift,omitempty"`
	Sleepover   float64 `db:"sleepover_allowance" json:"sleepover,omitempty"`
	OnCall      float64 `db:"on_call_allowance" json:"on_call,omitempty"`
	Travel      float64 `db:"travel_allowance" json:"travel,omitempty"`
	Meal        float64 `db:"meal_allowance" json:"meal,omitempty"`
}

// Total returns the sum of all claimed allowances.
func (a Allowances) Total() float64 {
	return a.BrokenShift + a.Sleepover + a.OnCall + a.Travel + a.Meal
}

// CategoryPays itemises the pay attributable to each hour category.
type CategoryPays struct {
	Ordinary        decimal.Decimal `json:"ordinary_pay"`
	Overtime        decimal.Decimal `json:"overtime_pay"`
	Weekend         decimal.Decimal `json:"weekend_pay"`
	PublicHoliday   decimal.Decimal `json:"public_holiday_pay"`
	Evening         decimal.Decimal `json:"evening_pay"`
	Night           decimal.Decimal `json:"night_pay"`
	TotalAllowances decimal.Decimal `json:"total_allowances"`
}

// PayBreakdown is the fully itemised result of one pay calculation. It is
// derived data: a new calculation always produces a new breakdown.
type PayBreakdown struct {
	StaffID           string          `json:"staff_id"`
	StaffName         string          `json:"staff_name"`
	PayPeriodStart    time.Time       `json:"pay_period_start"`
	PayPeriodEnd      time.Time       `json:"pay_period_end"`
	AwardLevel        string          `json:"award_level"`
	EmploymentType    EmploymentType  `json:"employment_type"`
	BaseHourlyRate    decimal.Decimal `json:"base_hourly_rate"`
	Hours             HoursBreakdown  `json:"hours_breakdown"`
	Allowances        Allowances      `json:"allowances"`
	Calculations      CategoryPays    `json:"calculations"`
	GrossPay          decimal.Decimal `json:"gross_pay"`
	Tax               decimal.Decimal `json:"tax"`
	SuperContribution decimal.Decimal `json:"super_contribution"`
	NetPay            decimal.Decimal `json:"net_pay"`
}

// PayCalculationRequest is the input for an ad-hoc pay preview for one staff
// member.
type PayCalculationRequest struct {
	PayPeriodStart time.Time      `json:"pay_period_start" validate:"required"`
	PayPeriodEnd   time.Time      `json:"pay_period_end" validate:"required"`
	Hours          HoursBreakdown `json:"hours_breakdown"`
	Allowances     Allowances     `json:"allowances"`
}

// PayRunRequest starts a pay run over a closed period.
type PayRunRequest struct {
	PeriodStart time.Time `json:"period_start" validate:"required"`
	PeriodEnd   time.Time `json:"period_end" validate:"required"`
	PayDate     time.Time `json:"pay_date" validate:"required"`
}

// PayRunStatus tracks a pay run from creation to completion.
type PayRunStatus string

const (
	PayRunDraft     PayRunStatus = "draft"
	PayRunCompleted PayRunStatus = "completed"
)

// PayRun is a batch of payslips for one period.
type PayRun struct {
	ID           string          `db:"id" json:"id"`
	PeriodStart  time.Time       `db:"period_start" json:"period_start"`
	PeriodEnd    time.Time       `db:"period_end" json:"period_end"`
	PayDate      time.Time       `db:"pay_date" json:"pay_date"`
	Status       PayRunStatus    `db:"status" json:"status"`
	TotalGross   decimal.Decimal `db:"total_gross" json:"total_gross"`
	TotalTax     decimal.Decimal `db:"total_tax" json:"total_tax"`
	TotalSuper   decimal.Decimal `db:"total_super" json:"total_super"`
	TotalNet     decimal.Decimal `db:"total_net" json:"total_net"`
	BankFilePath *string         `db:"bank_file_path" json:"bank_file_path,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// Payslip is one staff member's line in a pay run.
type Payslip struct {
	ID                string          `db:"id" json:"id"`
	PayRunID          string          `db:"pay_run_id" json:"pay_run_id"`
	StaffID           string          `db:"staff_id" json:"staff_id"`
	StaffName         string          `db:"staff_name" json:"staff_name"`
	GrossPay          decimal.Decimal `db:"gross_pay" json:"gross_pay"`
	TaxWithheld       decimal.Decimal `db:"tax_withheld" json:"tax_withheld"`
	SuperContribution decimal.Decimal `db:"super_contribution" json:"super_contribution"`
	NetPay            decimal.Decimal `db:"net_pay" json:"net_pay"`
	HoursBreakdown
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
