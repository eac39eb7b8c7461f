package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/literacy-go-api/internal/dto"
	"github.com/noah-isme/literacy-go-api/internal/models"
	"github.com/noah-isme/literacy-go-api/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// StudentService exposes student roster management.
type StudentService interface {
	Create(ctx context.Context, principal Principal, req dto.StudentCreateRequest) (dto.StudentResponse, error)
	List(ctx context.Context, principal Principal, filter dto.StudentFilter) (dto.StudentListResponse, error)
	Get(ctx context.Context, principal Principal, id uint) (dto.StudentResponse, error)
	Update(ctx context.Context, principal Principal, id uint, req dto.StudentUpdateRequest) (dto.StudentResponse, error)
	Delete(ctx context.Context, principal Principal, id uint) error
}

type studentService struct {
	students  repository.StudentRepository
	classes   repository.ClassRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewStudentService constructs a StudentService.
func NewStudentService(students repository.StudentRepository, classes repository.ClassRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		students:  students,
		classes:   classes,
		validator: validate,
		logger:    logger.With().Str("component", "student_service").Logger(),
		now:       time.Now,
	}
}

func (s *studentService) Create(ctx context.Context, principal Principal, req dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := RequireRole(principal, models.RoleTeacher); err != nil {
		return dto.StudentResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, validationError(err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return dto.StudentResponse{}, invalid("name", "is required")
	}

	if _, err := s.classes.Get(ctx, req.ClassID, repository.OwnedBy(principal.UserID)); err != nil {
		return dto.StudentResponse{}, persistenceError(s.logger, "class", err)
	}

	student := models.Student{
		Name:       name,
		Level:      req.Level,
		ClassID:    req.ClassID,
		SchoolYear: models.SchoolYearFor(s.now()),
	}
	if err := s.students.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, persistenceError(s.logger, "student", err)
	}

	s.logger.Info().Uint("student_id", student.ID).Uint("class_id", student.ClassID).Msg("student created")
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) List(ctx context.Context, principal Principal, filter dto.StudentFilter) (dto.StudentListResponse, error) {
	if err := requireAnyRole(principal, models.RoleTeacher, models.RoleAdmin); err != nil {
		return dto.StudentListResponse{}, err
	}
	if err := s.validator.Struct(filter); err != nil {
		return dto.StudentListResponse{}, validationError(err)
	}

	page := maxInt(filter.Page, 1)
	pageSize := clampPageSize(filter.PageSize)

	students, total, err := s.students.List(ctx, readScope(principal), repository.StudentFilter{
		ClassID:  filter.ClassID,
		Search:   filter.Search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return dto.StudentListResponse{}, persistenceError(s.logger, "student", err)
	}

	return dto.StudentListResponse{
		Items:      dto.NewStudentResponseSlice(students),
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *studentService) Get(ctx context.Context, principal Principal, id uint) (dto.StudentResponse, error) {
	if err := requireAnyRole(principal, models.RoleTeacher, models.RoleAdmin); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.students.Get(ctx, id, readScope(principal))
	if err != nil {
		return dto.StudentResponse{}, persistenceError(s.logger, "student", err)
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, principal Principal, id uint, req dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := RequireRole(principal, models.RoleTeacher); err != nil {
		return dto.StudentResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, validationError(err)
	}

	scope := repository.OwnedBy(principal.UserID)
	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return dto.StudentResponse{}, invalid("name", "is required")
		}
		updates["name"] = name
	}
	if req.Level != nil {
		updates["level"] = *req.Level
	}
	if req.ClassID != nil {
		if _, err := s.classes.Get(ctx, *req.ClassID, scope); err != nil {
			return dto.StudentResponse{}, persistenceError(s.logger, "class", err)
		}
		updates["class_id"] = *req.ClassID
	}

	student, err := s.students.Update(ctx, id, scope, updates)
	if err != nil {
		return dto.StudentResponse{}, persistenceError(s.logger, "student", err)
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Delete(ctx context.Context, principal Principal, id uint) error {
	if err := RequireRole(principal, models.RoleTeacher); err != nil {
		return err
	}

	if err := s.students.Delete(ctx, id, repository.OwnedBy(principal.UserID)); err != nil {
		return persistenceError(s.logger, "student", err)
	}

	s.logger.Info().Uint("student_id", id).Uint("user_id", principal.UserID).Msg("student deleted")
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampPageSize(size int) int {
	if size <= 0 {
		return defaultPageSize
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}
