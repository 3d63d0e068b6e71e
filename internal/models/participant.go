package models

import (
	"time"

	"github.com/lib/pq"
)

// Participant represents an NDIS participant receiving support.
type Participant struct {
	ID               string         `db:"id" json:"id"`
	FirstName        string         `db:"first_name" json:"first_name"`
	LastName         string         `db:"last_name" json:"last_name"`
	NDISNumber       string         `db:"ndis_number" json:"ndis_number"`
	Address          *string        `db:"address" json:"address,omitempty"`
	Latitude         *float64       `db:"latitude" json:"latitude,omitempty"`
	Longitude        *float64       `db:"longitude" json:"longitude,omitempty"`
	PreferredStaffID pq.StringArray `db:"preferred_staff_ids" json:"preferred_staff_ids"`
	Active           bool           `db:"active" json:"active"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// ParticipantFilter captures filtering options for listing participants.
type ParticipantFilter struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
