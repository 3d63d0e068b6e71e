package models

import "time"

// StaffAllocationScore is the persisted rationale for one (shift, candidate)
// ranking decision. Written once per allocation attempt, never updated.
type StaffAllocationScore struct {
	ID               string    `db:"id" json:"id"`
	ShiftID          string    `db:"shift_id" json:"shift_id"`
	StaffID          string    `db:"staff_id" json:"staff_id"`
	DistanceKm       float64   `db:"distance_km" json:"distance_km"`
	DistanceKnown    bool      `db:"distance_known" json:"distance_known"`
	DistanceScore    float64   `db:"distance_score" json:"distance_score"`
	SkillsScore      float64   `db:"skills_score" json:"skills_score"`
	PreferenceScore  float64   `db:"preference_score" json:"preference_score"`
	ContinuityScore  float64   `db:"continuity_score" json:"continuity_score"`
	ReliabilityScore float64   `db:"reliability_score" json:"reliability_score"`
	CostScore        float64   `db:"cost_score" json:"cost_score"`
	TotalScore       int       `db:"total_score" json:"total_score"`
	Rank             int       `db:"rank" json:"rank"`
	Eligible         bool      `db:"eligible" json:"eligible"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// OfferStatus is the response state of a shift offer.
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferDeclined OfferStatus = "declined"
)

// ShiftOffer is a time-limited invitation for one staff member to take a
// shift. At most one offer per shift may ever reach accepted.
type ShiftOffer struct {
	ID            string      `db:"id" json:"id"`
	ShiftID       string      `db:"shift_id" json:"shift_id"`
	StaffID       string      `db:"staff_id" json:"staff_id"`
	OfferRank     int         `db:"offer_rank" json:"offer_rank"`
	OfferedAt     time.Time   `db:"offered_at" json:"offered_at"`
	ExpiresAt     time.Time   `db:"expires_at" json:"expires_at"`
	ResponseStatus OfferStatus `db:"response_status" json:"response_status"`
	RespondedAt   *time.Time  `db:"responded_at" json:"responded_at,omitempty"`
	DeclineReason *string     `db:"decline_reason" json:"decline_reason,omitempty"`
	AutoDeclined  bool        `db:"auto_declined" json:"auto_declined"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// AllocationResult summarises one allocation run for a shift.
type AllocationResult struct {
	ShiftID         string                 `json:"shift_id"`
	CandidatesFound int                    `json:"candidates_found"`
	OffersSent      int                    `json:"offers_sent"`
	Scores          []StaffAllocationScore `json:"scores"`
}
