package models

import "time"

// DashboardSummary is the coordinator landing-page snapshot.
type DashboardSummary struct {
	UnallocatedShifts   int       `json:"unallocated_shifts"`
	ShiftsToday         int       `json:"shifts_today"`
	ShiftsInProgress    int       `json:"shifts_in_progress"`
	PendingOffers       int       `json:"pending_offers"`
	PendingOverrides    int       `json:"pending_overrides"`
	PendingAvailability int       `json:"pending_availability"`
	ActiveStaff         int       `json:"active_staff"`
	ActiveParticipants  int       `json:"active_participants"`
	GeneratedAt         time.Time `json:"generated_at"`
}

// SystemMetrics is a lightweight aggregate for the operations dashboard,
// derived from the Prometheus counters.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	PayRunsProcessed         uint64    `json:"pay_runs_processed"`
	OffersCreated            uint64    `json:"offers_created"`
	OffersAccepted           uint64    `json:"offers_accepted"`
	GeoFenceViolations       uint64    `json:"geo_fence_violations"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
