package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/literacy-go-api/internal/models"
)

// StudentFilter describes listing options for students.
type StudentFilter struct {
	ClassID  *uint
	Search   string
	Page     int
	PageSize int
}

// StudentRepository provides access to student records. Students are reached only through
// classes visible in the scope.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	List(ctx context.Context, scope Scope, filter StudentFilter) ([]models.Student, int64, error)
	Get(ctx context.Context, id uint, scope Scope) (models.Student, error)
	Update(ctx context.Context, id uint, scope Scope, updates map[string]interface{}) (models.Student, error)
	Delete(ctx context.Context, id uint, scope Scope) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) List(ctx context.Context, scope Scope, filter StudentFilter) ([]models.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{}).
		Where("students.class_id IN (?)", scope.classIDs(r.db))

	if filter.ClassID != nil {
		query = query.Where("students.class_id = ?", *filter.ClassID)
	}

	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		query = query.Where("LOWER(students.name) LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var students []models.Student
	query = applyPage(query.Order("students.name ASC").Order("students.id ASC"), filter.Page, filter.PageSize)
	if err := query.Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *studentRepository) Get(ctx context.Context, id uint, scope Scope) (models.Student, error) {
	return r.get(r.db.WithContext(ctx), id, scope)
}

func (r *studentRepository) get(db *gorm.DB, id uint, scope Scope) (models.Student, error) {
	var student models.Student
	err := db.
		Where("students.id = ?", id).
		Where("students.class_id IN (?)", scope.classIDs(r.db)).
		First(&student).Error
	if err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) Update(ctx context.Context, id uint, scope Scope, updates map[string]interface{}) (models.Student, error) {
	var updated models.Student
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			result := tx.Model(&models.Student{}).
				Where("id = ?", id).
				Where("class_id IN (?)", scope.classIDs(r.db)).
				Updates(updates)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		student, err := r.get(tx, id, scope)
		if err != nil {
			return err
		}
		updated = student
		return nil
	})
	if err != nil {
		return models.Student{}, err
	}

	return updated, nil
}

// Delete removes the student along with the assessments and reading sessions recorded for them.
func (r *studentRepository) Delete(ctx context.Context, id uint, scope Scope) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.get(tx, id, scope); err != nil {
			return err
		}

		sessionIDs := tx.Session(&gorm.Session{NewDB: true}).Model(&models.OralReadingSession{}).
			Select("id").
			Where("student_id = ?", id)
		if err := deleteSessionRecords(tx, sessionIDs); err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&models.OralReadingSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&models.Assessment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Student{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
