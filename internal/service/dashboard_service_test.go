package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/careops-au/ndis-ops-api/internal/models"
)

type mockDashboardRepo struct {
	calls int
}

func (m *mockDashboardRepo) Summary(ctx context.Context, today time.Time) (*models.DashboardSummary, error) {
	m.calls++
	return &models.DashboardSummary{
		UnallocatedShifts: 4,
		ShiftsToday:       9,
		PendingOffers:     2,
		GeneratedAt:       time.Now().UTC(),
	}, nil
}

func TestDashboardServiceSummaryCaches(t *testing.T) {
	repo := &mockDashboardRepo{}
	svc := NewDashboardService(repo, newTestCache(), nil, zap.NewNop(), time.Minute)

	first, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, first.UnallocatedShifts)
	assert.Equal(t, 1, repo.calls)

	second, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.UnallocatedShifts, second.UnallocatedShifts)
	assert.Equal(t, 1, repo.calls, "second read should come from cache")
}
