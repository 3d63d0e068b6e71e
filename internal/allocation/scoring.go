package allocation

import (
	"math"
	"sort"
	"time"

	"github.com/careops-au/ndis-ops-api/internal/models"
)

// Weights controls the relative contribution of each component score.
type Weights struct {
	Distance    float64
	Skills      float64
	Preference  float64
	Continuity  float64
	Reliability float64
	Cost        float64
}

// DefaultWeights returns the production weighting.
func DefaultWeights() Weights {
	return Weights{
		Distance:    0.30,
		Skills:      0.25,
		Preference:  0.15,
		Continuity:  0.15,
		Reliability: 0.10,
		Cost:        0.05,
	}
}

// SkillsScorer rates how well a candidate's qualifications cover a shift's
// required skills. Pluggable so the matching rule can evolve without touching
// the weighting or ranking.
type SkillsScorer interface {
	Score(required, held []string) float64
}

// PreferenceScorer rates a candidate against the participant's stated staff
// preferences.
type PreferenceScorer interface {
	Score(participant *models.Participant, staffID string) float64
}

// OverlapSkills scores by set overlap: the fraction of required skills the
// candidate holds, scaled to 0-100. No required skills means any candidate
// fully qualifies.
type OverlapSkills struct{}

func (OverlapSkills) Score(required, held []string) float64 {
	if len(required) == 0 {
		return 100
	}
	heldSet := make(map[string]struct{}, len(held))
	for _, h := range held {
		heldSet[h] = struct{}{}
	}
	matched := 0
	for _, r := range required {
		if _, ok := heldSet[r]; ok {
			matched++
		}
	}
	return 100 * float64(matched) / float64(len(required))
}

// PreferredStaff scores 100 when the candidate appears on the participant's
// preferred staff list and a neutral default otherwise.
type PreferredStaff struct {
	Neutral float64
}

func (p PreferredStaff) Score(participant *models.Participant, staffID string) float64 {
	if participant != nil {
		for _, id := range participant.PreferredStaffID {
			if id == staffID {
				return 100
			}
		}
	}
	if p.Neutral > 0 {
		return p.Neutral
	}
	return 70
}

const (
	defaultReliability = 85
	defaultHourlyRate  = 35
	continuityPerShift = 20
)

// Candidate pairs a staff member with the context needed to score them.
type Candidate struct {
	Staff models.Staff
	// CompletedShiftsWithParticipant is the number of prior completed
	// shifts between this candidate and the shift's participant.
	CompletedShiftsWithParticipant int
}

// Engine computes and ranks allocation scores.
type Engine struct {
	weights       Weights
	skills        SkillsScorer
	preference    PreferenceScorer
	maxDistanceKm float64
}

// NewEngine builds an Engine. Nil scorers fall back to the defaults and a
// non-positive max distance falls back to 30 km.
func NewEngine(weights Weights, skills SkillsScorer, preference PreferenceScorer, maxDistanceKm float64) *Engine {
	if skills == nil {
		skills = OverlapSkills{}
	}
	if preference == nil {
		preference = PreferredStaff{}
	}
	if maxDistanceKm <= 0 {
		maxDistanceKm = 30
	}
	return &Engine{
		weights:       weights,
		skills:        skills,
		preference:    preference,
		maxDistanceKm: maxDistanceKm,
	}
}

// Score ranks every candidate for the shift. The returned slice is sorted by
// total score descending with stable tie-breaking on input order, and Rank is
// the 1-based position. Candidates beyond the distance limit are marked
// ineligible but still recorded for audit.
func (e *Engine) Score(shift models.Shift, participant models.Participant, candidates []Candidate) []models.StaffAllocationScore {
	scores := make([]models.StaffAllocationScore, 0, len(candidates))

	for _, cand := range candidates {
		s := models.StaffAllocationScore{
			ShiftID:       shift.ID,
			StaffID:       cand.Staff.ID,
			DistanceScore: 100,
			CreatedAt:     time.Now().UTC(),
		}

		if participant.Latitude != nil && participant.Longitude != nil &&
			cand.Staff.Latitude != nil && cand.Staff.Longitude != nil {
			s.DistanceKnown = true
			s.DistanceKm = DistanceKm(*participant.Latitude, *participant.Longitude, *cand.Staff.Latitude, *cand.Staff.Longitude)
			s.DistanceScore = distanceBand(s.DistanceKm)
		}

		s.SkillsScore = e.skills.Score(shift.RequiredSkills, cand.Staff.Qualifications)
		s.PreferenceScore = e.preference.Score(&participant, cand.Staff.ID)
		s.ContinuityScore = math.Min(100, float64(cand.CompletedShiftsWithParticipant)*continuityPerShift)
		s.ReliabilityScore = defaultReliability
		if cand.Staff.ReliabilityScore != nil {
			s.ReliabilityScore = *cand.Staff.ReliabilityScore
		}
		s.CostScore = costScore(hourlyRate(cand.Staff))

		s.TotalScore = int(math.Round(
			s.DistanceScore*e.weights.Distance +
				s.SkillsScore*e.weights.Skills +
				s.PreferenceScore*e.weights.Preference +
				s.ContinuityScore*e.weights.Continuity +
				s.ReliabilityScore*e.weights.Reliability +
				s.CostScore*e.weights.Cost))

		s.Eligible = !s.DistanceKnown || (s.DistanceKm <= e.maxDistanceKm && s.DistanceScore > 0)

		scores = append(scores, s)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].TotalScore > scores[j].TotalScore
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}

	return scores
}

// distanceBand discretises a distance into the scoring bands.
func distanceBand(km float64) float64 {
	switch {
	case km <= 10:
		return 100
	case km <= 20:
		return 75
	case km <= 30:
		return 50
	default:
		return 0
	}
}

func costScore(rate float64) float64 {
	return math.Max(0, 100-(rate-30)*5)
}

func hourlyRate(s models.Staff) float64 {
	if s.HourlyRate.IsPositive() {
		return s.HourlyRate.InexactFloat64()
	}
	return defaultHourlyRate
}
