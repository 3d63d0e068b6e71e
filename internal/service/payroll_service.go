package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/careops-au/ndis-ops-api/internal/models"
	"github.com/careops-au/ndis-ops-api/internal/schads"
	appErrors "github.com/careops-au/ndis-ops-api/pkg/errors"
)

type payrollStaffRepository interface {
	FindByID(ctx context.Context, id string) (*models.Staff, error)
}

type awardRateRepository interface {
	FindActiveRate(ctx context.Context, level string, employmentType models.EmploymentType, asOf time.Time) (*models.AwardRate, error)
}

// PayrollService runs ad-hoc pay calculations and resolves award rates with a
// cache in front of the rate table.
type PayrollService struct {
	staff        payrollStaffRepository
	rates        awardRateRepository
	cache        *CacheService
	calc         *schads.Calculator
	validator    *validator.Validate
	logger       *zap.Logger
	rateCacheTTL time.Duration
}

// NewPayrollService constructs a PayrollService.
func NewPayrollService(staff payrollStaffRepository, rates awardRateRepository, cache *CacheService, calc *schads.Calculator, validate *validator.Validate, logger *zap.Logger, rateCacheTTL time.Duration) *PayrollService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if calc == nil {
		calc = schads.NewCalculator(nil)
	}
	if rateCacheTTL <= 0 {
		rateCacheTTL = 10 * time.Minute
	}
	return &PayrollService{
		staff:        staff,
		rates:        rates,
		cache:        cache,
		calc:         calc,
		validator:    validate,
		logger:       logger,
		rateCacheTTL: rateCacheTTL,
	}
}

// ResolveRate returns the award rate applicable for the level, employment
// type and date, consulting the cache first. The cache key includes the date
// so effective-dated changes roll over cleanly.
func (s *PayrollService) ResolveRate(ctx context.Context, level string, employmentType models.EmploymentType, asOf time.Time) (*models.AwardRate, error) {
	key := fmt.Sprintf("award_rate:%s:%s:%s", level, employmentType, asOf.Format("2006-01-02"))

	var cached models.AwardRate
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	rate, err := s.rates.FindActiveRate(ctx, level, employmentType, asOf)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrRateNotFound, fmt.Sprintf("no active rate for level %s (%s)", level, employmentType))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve award rate")
	}

	if err := s.cache.Set(ctx, key, rate, s.rateCacheTTL); err != nil {
		s.logger.Warn("failed to cache award rate", zap.String("key", key), zap.Error(err))
	}
	return rate, nil
}

// CalculateStaffPay previews one staff member's pay for a period from a
// supplied hours breakdown.
func (s *PayrollService) CalculateStaffPay(ctx context.Context, staffID string, req models.PayCalculationRequest) (*models.PayBreakdown, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pay calculation payload")
	}
	if req.PayPeriodEnd.Before(req.PayPeriodStart) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "pay period end must not precede start")
	}

	staff, err := s.staff.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}

	rate, err := s.ResolveRate(ctx, staff.AwardLevel, staff.EmploymentType, req.PayPeriodEnd)
	if err != nil {
		return nil, err
	}

	result, err := s.calc.Calculate(schads.Input{
		Hours:          req.Hours,
		Allowances:     req.Allowances,
		BaseRate:       rate.BaseHourlyRate,
		EmploymentType: staff.EmploymentType,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "pay calculation rejected")
	}

	return &models.PayBreakdown{
		StaffID:           staff.ID,
		StaffName:         staff.FullName(),
		PayPeriodStart:    req.PayPeriodStart,
		PayPeriodEnd:      req.PayPeriodEnd,
		AwardLevel:        staff.AwardLevel,
		EmploymentType:    staff.EmploymentType,
		BaseHourlyRate:    rate.BaseHourlyRate,
		Hours:             req.Hours,
		Allowances:        req.Allowances,
		Calculations:      result.Calculations,
		GrossPay:          result.GrossPay,
		Tax:               result.Tax,
		SuperContribution: result.SuperContribution,
		NetPay:            result.NetPay,
	}, nil
}

// InvalidateRateCache drops cached award rates after the rate table changes.
func (s *PayrollService) InvalidateRateCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "award_rate:*"); err != nil {
		s.logger.Warn("failed to invalidate award rate cache", zap.Error(err))
	}
}
