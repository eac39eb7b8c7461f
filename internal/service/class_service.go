package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/literacy-go-api/internal/dto"
	"github.com/noah-isme/literacy-go-api/internal/models"
	"github.com/noah-isme/literacy-go-api/internal/repository"
)

// ClassService exposes class management for teachers.
type ClassService interface {
	Create(ctx context.Context, principal Principal, req dto.ClassCreateRequest) (dto.ClassResponse, error)
	List(ctx context.Context, principal Principal, filter dto.ClassFilter) ([]dto.ClassResponse, error)
	Get(ctx context.Context, principal Principal, id uint) (dto.ClassResponse, error)
	Update(ctx context.Context, principal Principal, id uint, req dto.ClassUpdateRequest) (dto.ClassResponse, error)
	Delete(ctx context.Context, principal Principal, id uint) error
}

type classService struct {
	repo      repository.ClassRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(repo repository.ClassRepository, validate *validator.Validate, logger zerolog.Logger) ClassService {
	return &classService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "class_service").Logger(),
	}
}

// readScope lets administrators read every roster while teachers only see their own.
func readScope(principal Principal) repository.Scope {
	if principal.IsAdmin() {
		return repository.Everything()
	}
	return repository.OwnedBy(principal.UserID)
}

func (s *classService) Create(ctx context.Context, principal Principal, req dto.ClassCreateRequest) (dto.ClassResponse, error) {
	if err := RequireRole(principal, models.RoleTeacher); err != nil {
		return dto.ClassResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.ClassResponse{}, validationError(err)
	}

	class := models.Class{
		Name:   strings.TrimSpace(req.Name),
		UserID: principal.UserID,
	}
	if err := s.repo.Create(ctx, &class); err != nil {
		return dto.ClassResponse{}, persistenceError(s.logger, "class", err)
	}

	s.logger.Info().Uint("class_id", class.ID).Uint("user_id", principal.UserID).Msg("class created")
	return dto.NewClassResponse(class), nil
}

func (s *classService) List(ctx context.Context, principal Principal, filter dto.ClassFilter) ([]dto.ClassResponse, error) {
	if err := requireAnyRole(principal, models.RoleTeacher, models.RoleAdmin); err != nil {
		return nil, err
	}

	classes, err := s.repo.List(ctx, readScope(principal), filter.IncludeArchived)
	if err != nil {
		return nil, persistenceError(s.logger, "class", err)
	}

	return dto.NewClassResponseSlice(classes), nil
}

func (s *classService) Get(ctx context.Context, principal Principal, id uint) (dto.ClassResponse, error) {
	if err := requireAnyRole(principal, models.RoleTeacher, models.RoleAdmin); err != nil {
		return dto.ClassResponse{}, err
	}

	class, err := s.repo.Get(ctx, id, readScope(principal))
	if err != nil {
		return dto.ClassResponse{}, persistenceError(s.logger, "class", err)
	}

	return dto.NewClassResponse(class), nil
}

func (s *classService) Update(ctx context.Context, principal Principal, id uint, req dto.ClassUpdateRequest) (dto.ClassResponse, error) {
	if err := RequireRole(principal, models.RoleTeacher); err != nil {
		return dto.ClassResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.ClassResponse{}, validationError(err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return dto.ClassResponse{}, invalid("name", "is required")
		}
		updates["name"] = name
	}
	if req.Archived != nil {
		updates["archived"] = *req.Archived
	}

	class, err := s.repo.Update(ctx, id, repository.OwnedBy(principal.UserID), updates)
	if err != nil {
		return dto.ClassResponse{}, persistenceError(s.logger, "class", err)
	}

	return dto.NewClassResponse(class), nil
}

func (s *classService) Delete(ctx context.Context, principal Principal, id uint) error {
	if err := RequireRole(principal, models.RoleTeacher); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, repository.OwnedBy(principal.UserID)); err != nil {
		if errors.Is(err, repository.ErrClassNotEmpty) {
			return conflict("class still has students; move or remove them first")
		}
		return persistenceError(s.logger, "class", err)
	}

	s.logger.Info().Uint("class_id", id).Uint("user_id", principal.UserID).Msg("class deleted")
	return nil
}
