package models

import "time"

// ShiftAttendance records clock-in/clock-out events for a shift. A geo-fence
// violation never blocks the clock-in; it flags the record for supervisor
// review.
type ShiftAttendance struct {
	ID                    string     `db:"id" json:"id"`
	ShiftID               string     `db:"shift_id" json:"shift_id"`
	StaffID               string     `db:"staff_id" json:"staff_id"`
	ClockInTime           time.Time  `db:"clock_in_time" json:"clock_in_time"`
	ClockInLat            *float64   `db:"clock_in_lat" json:"clock_in_lat,omitempty"`
	ClockInLng            *float64   `db:"clock_in_lng" json:"clock_in_lng,omitempty"`
	ClockInAddress        *string    `db:"clock_in_address" json:"clock_in_address,omitempty"`
	ClockOutTime          *time.Time `db:"clock_out_time" json:"clock_out_time,omitempty"`
	ClockOutLat           *float64   `db:"clock_out_lat" json:"clock_out_lat,omitempty"`
	ClockOutLng           *float64   `db:"clock_out_lng" json:"clock_out_lng,omitempty"`
	ClockOutAddress       *string    `db:"clock_out_address" json:"clock_out_address,omitempty"`
	GeoFenceViolation     bool       `db:"geo_fence_violation" json:"geo_fence_violation"`
	RequiresOverride      bool       `db:"requires_override" json:"requires_override"`
	ActualDurationMinutes *int       `db:"actual_duration_minutes" json:"actual_duration_minutes,omitempty"`
	ProgressNotes         *string    `db:"progress_notes" json:"progress_notes,omitempty"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updated_at"`
}

// Location is a reported position at clock-in or clock-out.
type Location struct {
	Lat     float64 `json:"lat" validate:"required"`
	Lng     float64 `json:"lng" validate:"required"`
	Address string  `json:"address"`
}

// ClockInRequest reports the worker's position at the start of a shift.
// Location is optional: a device without a fix clocks in unverified.
type ClockInRequest struct {
	Location *Location `json:"location"`
}

// ClockOutRequest closes out a shift with optional position and notes.
type ClockOutRequest struct {
	Location      *Location `json:"location"`
	ProgressNotes *string   `json:"progress_notes"`
}
