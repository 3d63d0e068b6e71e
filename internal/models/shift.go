package models

import (
	"time"

	"github.com/lib/pq"
)

// ShiftStatus tracks a shift through its lifecycle. Completed and cancelled
// are terminal.
type ShiftStatus string

const (
	ShiftUnallocated ShiftStatus = "unallocated"
	ShiftConfirmed   ShiftStatus = "confirmed"
	ShiftInProgress  ShiftStatus = "in_progress"
	ShiftCompleted   ShiftStatus = "completed"
	ShiftCancelled   ShiftStatus = "cancelled"
)

// Shift is a scheduled block of support for a participant. AssignedStaffID is
// nil until an offer is accepted.
type Shift struct {
	ID                    string      `db:"id" json:"id"`
	ParticipantID         string      `db:"participant_id" json:"participant_id"`
	AssignedStaffID       *string     `db:"assigned_staff_id" json:"assigned_staff_id,omitempty"`
	ShiftDate             time.Time   `db:"shift_date" json:"shift_date"`
	StartTime             string      `db:"start_time" json:"start_time"`
	EndTime               string      `db:"end_time" json:"end_time"`
	Location              *string     `db:"location" json:"location,omitempty"`
	ServiceType           string      `db:"service_type" json:"service_type"`
	RequiredSkills        pq.StringArray `db:"required_skills" json:"required_skills"`
	Status                ShiftStatus `db:"status" json:"status"`
	ClockInTime           *time.Time  `db:"clock_in_time" json:"clock_in_time,omitempty"`
	ClockOutTime          *time.Time  `db:"clock_out_time" json:"clock_out_time,omitempty"`
	ActualDurationMinutes *int        `db:"actual_duration_minutes" json:"actual_duration_minutes,omitempty"`
	CreatedAt             time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time   `db:"updated_at" json:"updated_at"`
}

// ShiftFilter captures filtering options for listing shifts.
type ShiftFilter struct {
	ParticipantID string
	StaffID       string
	Status        *ShiftStatus
	DateFrom      *time.Time
	DateTo        *time.Time
	Page          int
	PageSize      int
}
