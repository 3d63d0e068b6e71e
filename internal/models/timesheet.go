package models

import "time"

// TimesheetCategory mirrors the SCHADS hour categories.
type TimesheetCategory string

const (
	CategoryOrdinary      TimesheetCategory = "ordinary"
	CategoryOvertime      TimesheetCategory = "overtime"
	CategoryWeekend       TimesheetCategory = "weekend"
	CategoryPublicHoliday TimesheetCategory = "public_holiday"
	CategoryEvening       TimesheetCategory = "evening"
	CategoryNight         TimesheetCategory = "night"
)

// TimesheetEntry is one categorised block of worked hours. Entries are
// written at clock-out (or as manual adjustments, e.g. overtime) and are the
// sole input the pay run aggregates.
type TimesheetEntry struct {
	ID        string            `db:"id" json:"id"`
	StaffID   string            `db:"staff_id" json:"staff_id"`
	ShiftID   *string           `db:"shift_id" json:"shift_id,omitempty"`
	WorkDate  time.Time         `db:"work_date" json:"work_date"`
	Category  TimesheetCategory `db:"category" json:"category"`
	Hours     float64           `db:"hours" json:"hours"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

// StaffPeriodHours aggregates one staff member's timesheet entries for a pay
// period into the category breakdown the pay engine consumes.
type StaffPeriodHours struct {
	StaffID string `db:"staff_id" json:"staff_id"`
	HoursBreakdown
}

// StaffUnavailability is an approved or pending window in which a staff
// member cannot be rostered.
type StaffUnavailability struct {
	ID          string     `db:"id" json:"id"`
	StaffID     string     `db:"staff_id" json:"staff_id"`
	DateFrom    time.Time  `db:"date_from" json:"date_from"`
	DateTo      time.Time  `db:"date_to" json:"date_to"`
	AllDay      bool       `db:"all_day" json:"all_day"`
	StartTime   *string    `db:"start_time" json:"start_time,omitempty"`
	EndTime     *string    `db:"end_time" json:"end_time,omitempty"`
	Reason      *string    `db:"reason" json:"reason,omitempty"`
	Status      string     `db:"status" json:"status"`
	SubmittedAt time.Time  `db:"submitted_at" json:"submitted_at"`
	DecidedAt   *time.Time `db:"decided_at" json:"decided_at,omitempty"`
}

// Unavailability review states.
const (
	UnavailabilityPending  = "pending"
	UnavailabilityApproved = "approved"
	UnavailabilityRejected = "rejected"
)
