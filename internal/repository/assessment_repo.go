package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/literacy-go-api/internal/models"
)

// AssessmentRepository provides access to assessments of students visible in a scope.
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *models.Assessment) error
	ListByStudent(ctx context.Context, studentID uint, scope Scope) ([]models.Assessment, error)
	Get(ctx context.Context, id uint, scope Scope) (models.Assessment, error)
	Delete(ctx context.Context, id uint, scope Scope) error
}

type assessmentRepository struct {
	db *gorm.DB
}

// NewAssessmentRepository constructs an assessment repository.
func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	return r.db.WithContext(ctx).Omit("Student").Create(assessment).Error
}

func (r *assessmentRepository) ListByStudent(ctx context.Context, studentID uint, scope Scope) ([]models.Assessment, error) {
	var assessments []models.Assessment
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("student_id IN (?)", scope.studentIDs(r.db)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&assessments).Error
	if err != nil {
		return nil, err
	}

	return assessments, nil
}

func (r *assessmentRepository) Get(ctx context.Context, id uint, scope Scope) (models.Assessment, error) {
	return r.get(r.db.WithContext(ctx), id, scope)
}

func (r *assessmentRepository) get(db *gorm.DB, id uint, scope Scope) (models.Assessment, error) {
	var assessment models.Assessment
	err := db.
		Where("id = ?", id).
		Where("student_id IN (?)", scope.studentIDs(r.db)).
		First(&assessment).Error
	if err != nil {
		return models.Assessment{}, err
	}

	return assessment, nil
}

// Delete removes the assessment and detaches any sessions that referenced it.
func (r *assessmentRepository) Delete(ctx context.Context, id uint, scope Scope) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.get(tx, id, scope); err != nil {
			return err
		}

		err := tx.Model(&models.OralReadingSession{}).
			Where("assessment_id = ?", id).
			Update("assessment_id", nil).Error
		if err != nil {
			return err
		}

		return tx.Delete(&models.Assessment{}, id).Error
	})
}
