package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/careops-au/ndis-ops-api/internal/models"
	appErrors "github.com/careops-au/ndis-ops-api/pkg/errors"
)

type awardRateAdminRepository interface {
	List(ctx context.Context, level string) ([]models.AwardRate, error)
	Create(ctx context.Context, rate *models.AwardRate) error
	Deactivate(ctx context.Context, id string) error
}

// AwardRateService manages the effective-dated rate table. Mutations drop the
// rate cache so the next lookup sees the new table.
type AwardRateService struct {
	repo    awardRateAdminRepository
	payroll *PayrollService
	logger  *zap.Logger
}

// NewAwardRateService constructs an AwardRateService.
func NewAwardRateService(repo awardRateAdminRepository, payroll *PayrollService, logger *zap.Logger) *AwardRateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AwardRateService{repo: repo, payroll: payroll, logger: logger}
}

// List returns the rate history, optionally filtered by level.
func (s *AwardRateService) List(ctx context.Context, level string) ([]models.AwardRate, error) {
	rates, err := s.repo.List(ctx, level)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list award rates")
	}
	return rates, nil
}

// Create appends a new effective-dated rate.
func (s *AwardRateService) Create(ctx context.Context, rate *models.AwardRate) error {
	if rate.Level == "" {
		return appErrors.Clone(appErrors.ErrValidation, "award level is required")
	}
	switch rate.EmploymentType {
	case models.EmploymentCasual, models.EmploymentPartTime, models.EmploymentFullTime:
	default:
		return appErrors.Clone(appErrors.ErrValidation, "unknown employment type")
	}
	if rate.BaseHourlyRate.Cmp(decimal.Zero) <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "base hourly rate must be positive")
	}
	if rate.EffectiveFrom.IsZero() {
		return appErrors.Clone(appErrors.ErrValidation, "effective date is required")
	}
	rate.Active = true

	if err := s.repo.Create(ctx, rate); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create award rate")
	}
	if s.payroll != nil {
		s.payroll.InvalidateRateCache(ctx)
	}
	return nil
}

// Deactivate retires a rate row.
func (s *AwardRateService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate award rate")
	}
	if s.payroll != nil {
		s.payroll.InvalidateRateCache(ctx)
	}
	return nil
}
