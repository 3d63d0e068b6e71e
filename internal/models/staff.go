package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// EmploymentType distinguishes casual staff, who attract the 25% loading,
// from permanent staff.
type EmploymentType string

const (
	EmploymentCasual   EmploymentType = "casual"
	EmploymentPartTime EmploymentType = "part_time"
	EmploymentFullTime EmploymentType = "full_time"
)

// Staff represents a support worker on the roster.
type Staff struct {
	ID               string          `db:"id" json:"id"`
	FirstName        string          `db:"first_name" json:"first_name"`
	LastName         string          `db:"last_name" json:"last_name"`
	Email            string          `db:"email" json:"email"`
	Phone            *string         `db:"phone" json:"phone,omitempty"`
	EmploymentType   EmploymentType  `db:"employment_type" json:"employment_type"`
	AwardLevel       string          `db:"award_level" json:"award_level"`
	HourlyRate       decimal.Decimal `db:"hourly_rate" json:"hourly_rate"`
	Qualifications   pq.StringArray  `db:"qualifications" json:"qualifications"`
	ReliabilityScore *float64        `db:"reliability_score" json:"reliability_score,omitempty"`
	Latitude         *float64        `db:"latitude" json:"latitude,omitempty"`
	Longitude        *float64        `db:"longitude" json:"longitude,omitempty"`
	BSB              *string         `db:"bsb" json:"bsb,omitempty"`
	AccountNumber    *string         `db:"account_number" json:"account_number,omitempty"`
	Active           bool            `db:"active" json:"active"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// FullName returns the display name used on payslips and bank files.
func (s Staff) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StaffFilter captures filtering options for listing staff.
type StaffFilter struct {
	Search         string
	EmploymentType *EmploymentType
	Active         *bool
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}
