package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/literacy-go-api/internal/models"
)

// ErrClassNotEmpty indicates a class cannot be deleted while students are enrolled.
var ErrClassNotEmpty = errors.New("class still has students")

// ClassRepository defines persistence operations for classes. Every lookup carries the
// ownership scope as part of its WHERE clause.
type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	List(ctx context.Context, scope Scope, includeArchived bool) ([]models.Class, error)
	Get(ctx context.Context, id uint, scope Scope) (models.Class, error)
	Update(ctx context.Context, id uint, scope Scope, updates map[string]interface{}) (models.Class, error)
	Delete(ctx context.Context, id uint, scope Scope) error
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository instantiates a GORM-backed repository.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classRepository) List(ctx context.Context, scope Scope, includeArchived bool) ([]models.Class, error) {
	query := r.db.WithContext(ctx).
		Preload("Students", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "class_id")
		}).
		Where("classes.id IN (?)", scope.classIDs(r.db))
	if !includeArchived {
		query = query.Where("classes.archived = ?", false)
	}

	var classes []models.Class
	if err := query.Order("classes.name ASC").Order("classes.id ASC").Find(&classes).Error; err != nil {
		return nil, err
	}

	return classes, nil
}

func (r *classRepository) Get(ctx context.Context, id uint, scope Scope) (models.Class, error) {
	return r.get(r.db.WithContext(ctx), id, scope)
}

func (r *classRepository) get(db *gorm.DB, id uint, scope Scope) (models.Class, error) {
	var class models.Class
	err := db.
		Preload("Students", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "class_id")
		}).
		Where("classes.id = ?", id).
		Where("classes.id IN (?)", scope.classIDs(r.db)).
		First(&class).Error
	if err != nil {
		return models.Class{}, err
	}

	return class, nil
}

func (r *classRepository) Update(ctx context.Context, id uint, scope Scope, updates map[string]interface{}) (models.Class, error) {
	var updated models.Class
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			result := tx.Model(&models.Class{}).
				Where("id = ?", id).
				Where("id IN (?)", scope.classIDs(r.db)).
				Updates(updates)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		class, err := r.get(tx, id, scope)
		if err != nil {
			return err
		}
		updated = class
		return nil
	})
	if err != nil {
		return models.Class{}, err
	}

	return updated, nil
}

func (r *classRepository) Delete(ctx context.Context, id uint, scope Scope) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := r.get(tx, id, scope); err != nil {
			return err
		}

		var enrolled int64
		if err := tx.Model(&models.Student{}).Where("class_id = ?", id).Count(&enrolled).Error; err != nil {
			return err
		}
		if enrolled > 0 {
			return ErrClassNotEmpty
		}

		result := tx.Delete(&models.Class{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
