package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/careops-au/ndis-ops-api/internal/models"
	appErrors "github.com/careops-au/ndis-ops-api/pkg/errors"
)

type participantRepository interface {
	List(ctx context.Context, filter models.ParticipantFilter) ([]models.Participant, int, error)
	FindByID(ctx context.Context, id string) (*models.Participant, error)
	Create(ctx context.Context, participant *models.Participant) error
	Update(ctx context.Context, participant *models.Participant) error
	Deactivate(ctx context.Context, id string) error
}

// ParticipantService manages the participant directory.
type ParticipantService struct {
	repo      participantRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewParticipantService constructs a ParticipantService.
func NewParticipantService(repo participantRepository, validate *validator.Validate, logger *zap.Logger) *ParticipantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ParticipantService{repo: repo, validator: validate, logger: logger}
}

// List returns participants for the filter with pagination metadata.
func (s *ParticipantService) List(ctx context.Context, filter models.ParticipantFilter) ([]models.Participant, *models.Pagination, error) {
	participants, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list participants")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return participants, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get loads one participant.
func (s *ParticipantService) Get(ctx context.Context, id string) (*models.Participant, error) {
	participant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "participant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participant")
	}
	return participant, nil
}

// Create registers a new participant.
func (s *ParticipantService) Create(ctx context.Context, participant *models.Participant) error {
	if participant.FirstName == "" || participant.LastName == "" || participant.NDISNumber == "" {
		return appErrors.Clone(appErrors.ErrValidation, "name and NDIS number are required")
	}
	participant.Active = true
	if err := s.repo.Create(ctx, participant); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create participant")
	}
	return nil
}

// Update modifies a participant record.
func (s *ParticipantService) Update(ctx context.Context, participant *models.Participant) error {
	if _, err := s.Get(ctx, participant.ID); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, participant); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update participant")
	}
	return nil
}

// Deactivate removes a participant from the active list.
func (s *ParticipantService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate participant")
	}
	return nil
}
