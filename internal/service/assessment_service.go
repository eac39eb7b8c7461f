package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/literacy-go-api/internal/dto"
	"github.com/noah-isme/literacy-go-api/internal/models"
	"github.com/noah-isme/literacy-go-api/internal/repository"
)

// AssessmentService records assessments taken by students.
type AssessmentService interface {
	Create(ctx context.Context, principal Principal, req dto.AssessmentCreateRequest) (dto.AssessmentResponse, error)
	ListByStudent(ctx context.Context, principal Principal, studentID uint) ([]dto.AssessmentResponse, error)
	Get(ctx context.Context, principal Principal, id uint) (dto.AssessmentResponse, error)
	Delete(ctx context.Context, principal Principal, id uint) error
}

type assessmentService struct {
	assessments repository.AssessmentRepository
	students    repository.StudentRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewAssessmentService constructs an AssessmentService.
func NewAssessmentService(assessments repository.AssessmentRepository, students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) AssessmentService {
	return &assessmentService{
		assessments: assessments,
		students:    students,
		validator:   validate,
		logger:      logger.With().Str("component", "assessment_service").Logger(),
	}
}

func (s *assessmentService) Create(ctx context.Context, principal Principal, req dto.AssessmentCreateRequest) (dto.AssessmentResponse, error) {
	if err := RequireRole(principal, models.RoleTeacher); err != nil {
		return dto.AssessmentResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.AssessmentResponse{}, validationError(err)
	}

	if _, err := s.students.Get(ctx, req.StudentID, repository.OwnedBy(principal.UserID)); err != nil {
		return dto.AssessmentResponse{}, persistenceError(s.logger, "student", err)
	}

	assessment := models.Assessment{
		StudentID: req.StudentID,
		Type:      models.AssessmentType(req.Type),
	}
	if err := s.assessments.Create(ctx, &assessment); err != nil {
		return dto.AssessmentResponse{}, persistenceError(s.logger, "assessment", err)
	}

	return dto.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) ListByStudent(ctx context.Context, principal Principal, studentID uint) ([]dto.AssessmentResponse, error) {
	if err := requireAnyRole(principal, models.RoleTeacher, models.RoleAdmin); err != nil {
		return nil, err
	}

	scope := readScope(principal)
	if _, err := s.students.Get(ctx, studentID, scope); err != nil {
		return nil, persistenceError(s.logger, "student", err)
	}

	assessments, err := s.assessments.ListByStudent(ctx, studentID, scope)
	if err != nil {
		return nil, persistenceError(s.logger, "assessment", err)
	}

	return dto.NewAssessmentResponseSlice(assessments), nil
}

func (s *assessmentService) Get(ctx context.Context, principal Principal, id uint) (dto.AssessmentResponse, error) {
	if err := requireAnyRole(principal, models.RoleTeacher, models.RoleAdmin); err != nil {
		return dto.AssessmentResponse{}, err
	}

	assessment, err := s.assessments.Get(ctx, id, readScope(principal))
	if err != nil {
		return dto.AssessmentResponse{}, persistenceError(s.logger, "assessment", err)
	}

	return dto.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) Delete(ctx context.Context, principal Principal, id uint) error {
	if err := RequireRole(principal, models.RoleTeacher); err != nil {
		return err
	}

	if err := s.assessments.Delete(ctx, id, repository.OwnedBy(principal.UserID)); err != nil {
		return persistenceError(s.logger, "assessment", err)
	}

	return nil
}
