package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AwardRate is an effective-dated SCHADS base rate keyed by
// (award level, employment type). The applicable rate for a pay period is the
// most recent active rate with EffectiveFrom on or before the period end.
type AwardRate struct {
	ID             string          `db:"id" json:"id"`
	Level          string          `db:"level" json:"level"`
	EmploymentType EmploymentType  `db:"employment_type" json:"employment_type"`
	BaseHourlyRate decimal.Decimal `db:"base_hourly_rate" json:"base_hourly_rate"`
	EffectiveFrom  time.Time       `db:"effective_from" json:"effective_from"`
	Active         bool            `db:"active" json:"active"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
