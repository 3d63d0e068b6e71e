package allocation

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careops-au/ndis-ops-api/internal/models"
)

func ptr[T any](v T) *T { return &v }

// latOffset returns a latitude that is km kilometres due north of lat.
func latOffset(lat, km float64) float64 {
	return lat + (km/earthRadiusKm)*(180/math.Pi)
}

func testEngine() *Engine {
	return NewEngine(DefaultWeights(), nil, nil, 30)
}

func candidateAt(id string, participantLat, participantLng, km float64) Candidate {
	return Candidate{
		Staff: models.Staff{
			ID:               id,
			HourlyRate:       decimal.NewFromInt(35),
			ReliabilityScore: ptr(85.0),
			Latitude:         ptr(latOffset(participantLat, km)),
			Longitude:        ptr(participantLng),
		},
	}
}

func TestDistanceBands(t *testing.T) {
	tests := []struct {
		km   float64
		want float64
	}{
		{0, 100},
		{10.0, 100},
		{10.01, 75},
		{20.0, 75},
		{20.01, 50},
		{30.0, 50},
		{30.01, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, distanceBand(tc.km), "band for %.2f km", tc.km)
	}
}

func TestScoreDistanceBandsAndEligibility(t *testing.T) {
	participant := models.Participant{
		ID:        "p1",
		Latitude:  ptr(-33.87),
		Longitude: ptr(151.21),
	}
	shift := models.Shift{ID: "s1", ParticipantID: participant.ID}

	scores := testEngine().Score(shift, participant, []Candidate{
		candidateAt("near", -33.87, 151.21, 5),
		candidateAt("mid", -33.87, 151.21, 25),
		candidateAt("far", -33.87, 151.21, 45),
	})
	require.Len(t, scores, 3)

	byStaff := make(map[string]models.StaffAllocationScore)
	for _, s := range scores {
		byStaff[s.StaffID] = s
	}

	assert.Equal(t, 100.0, byStaff["near"].DistanceScore)
	assert.True(t, byStaff["near"].Eligible)

	assert.Equal(t, 50.0, byStaff["mid"].DistanceScore)
	assert.InDelta(t, 25, byStaff["mid"].DistanceKm, 0.05)
	assert.True(t, byStaff["mid"].Eligible)

	assert.Equal(t, 0.0, byStaff["far"].DistanceScore)
	assert.False(t, byStaff["far"].Eligible)
}

func TestScoreUnknownCoordinatesOptimisticDefault(t *testing.T) {
	participant := models.Participant{ID: "p1"}
	shift := models.Shift{ID: "s1"}

	scores := testEngine().Score(shift, participant, []Candidate{
		{Staff: models.Staff{ID: "nowhere", HourlyRate: decimal.NewFromInt(35)}},
	})
	require.Len(t, scores, 1)

	s := scores[0]
	assert.False(t, s.DistanceKnown)
	assert.Zero(t, s.DistanceKm)
	assert.Equal(t, 100.0, s.DistanceScore)
	assert.True(t, s.Eligible)
}

func TestScoreComponentValues(t *testing.T) {
	participant := models.Participant{
		ID:               "p1",
		PreferredStaffID: []string{"fav"},
	}
	shift := models.Shift{ID: "s1", RequiredSkills: []string{"first_aid", "manual_handling"}}

	scores := testEngine().Score(shift, participant, []Candidate{
		{
			Staff: models.Staff{
				ID:               "fav",
				HourlyRate:       decimal.NewFromInt(30),
				Qualifications:   []string{"first_aid"},
				ReliabilityScore: ptr(92.0),
			},
			CompletedShiftsWithParticipant: 3,
		},
		{
			Staff: models.Staff{
				ID:             "other",
				HourlyRate:     decimal.NewFromInt(50),
				Qualifications: []string{"first_aid", "manual_handling"},
			},
			CompletedShiftsWithParticipant: 9,
		},
	})
	require.Len(t, scores, 2)

	byStaff := make(map[string]models.StaffAllocationScore)
	for _, s := range scores {
		byStaff[s.StaffID] = s
	}

	fav := byStaff["fav"]
	assert.Equal(t, 50.0, fav.SkillsScore, "one of two required skills held")
	assert.Equal(t, 100.0, fav.PreferenceScore)
	assert.Equal(t, 60.0, fav.ContinuityScore, "3 completed shifts x 20")
	assert.Equal(t, 92.0, fav.ReliabilityScore)
	assert.Equal(t, 100.0, fav.CostScore, "at the $30 baseline")

	other := byStaff["other"]
	assert.Equal(t, 100.0, other.SkillsScore)
	assert.Equal(t, 70.0, other.PreferenceScore, "neutral default")
	assert.Equal(t, 100.0, other.ContinuityScore, "capped at 100")
	assert.Equal(t, 85.0, other.ReliabilityScore, "default when unset")
	assert.Equal(t, 0.0, other.CostScore, "$50/hr prices the candidate out")
}

func TestScoreTotalWithinRangeAndWeighted(t *testing.T) {
	participant := models.Participant{ID: "p1"}
	shift := models.Shift{ID: "s1"}

	scores := testEngine().Score(shift, participant, []Candidate{
		{
			Staff:                          models.Staff{ID: "a", HourlyRate: decimal.NewFromInt(35), ReliabilityScore: ptr(85.0)},
			CompletedShiftsWithParticipant: 2,
		},
	})
	require.Len(t, scores, 1)

	// 0.30*100 + 0.25*100 + 0.15*70 + 0.15*40 + 0.10*85 + 0.05*75 = 83.75 -> 84
	assert.Equal(t, 84, scores[0].TotalScore)
	assert.GreaterOrEqual(t, scores[0].TotalScore, 0)
	assert.LessOrEqual(t, scores[0].TotalScore, 100)
}

func TestScoreRankingStableDescending(t *testing.T) {
	participant := models.Participant{ID: "p1"}
	shift := models.Shift{ID: "s1"}

	mk := func(id string, reliability float64) Candidate {
		return Candidate{Staff: models.Staff{
			ID:               id,
			HourlyRate:       decimal.NewFromInt(35),
			ReliabilityScore: ptr(reliability),
		}}
	}

	scores := testEngine().Score(shift, participant, []Candidate{
		mk("low", 50), mk("tie1", 85), mk("tie2", 85), mk("high", 100),
	})
	require.Len(t, scores, 4)

	assert.Equal(t, "high", scores[0].StaffID)
	assert.Equal(t, 1, scores[0].Rank)
	// Equal totals keep their input order.
	assert.Equal(t, "tie1", scores[1].StaffID)
	assert.Equal(t, "tie2", scores[2].StaffID)
	assert.Equal(t, "low", scores[3].StaffID)
	assert.Equal(t, 4, scores[3].Rank)

	for i := 1; i < len(scores); i++ {
		assert.LessOrEqual(t, scores[i].TotalScore, scores[i-1].TotalScore)
	}
}
