package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/literacy-go-api/internal/models"
)

// ErrPassageInUse indicates reading sessions still reference the passage.
var ErrPassageInUse = errors.New("passage is referenced by reading sessions")

// PassageFilter describes search and pagination options.
type PassageFilter struct {
	Language string
	Level    *int
	Tags     string
	TestType string
	Search   string
	Page     int
	PageSize int
}

// PassageRepository defines persistence operations for passages.
type PassageRepository interface {
	Create(ctx context.Context, passage *models.Passage) error
	List(ctx context.Context, filter PassageFilter) ([]models.Passage, int64, error)
	GetByID(ctx context.Context, id uint) (models.Passage, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Passage, error)
	Delete(ctx context.Context, id uint) error
}

type passageRepository struct {
	db *gorm.DB
}

// NewPassageRepository instantiates a GORM-backed repository.
func NewPassageRepository(db *gorm.DB) PassageRepository {
	return &passageRepository{db: db}
}

func (r *passageRepository) Create(ctx context.Context, passage *models.Passage) error {
	return r.db.WithContext(ctx).Create(passage).Error
}

func (r *passageRepository) List(ctx context.Context, filter PassageFilter) ([]models.Passage, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Passage{})

	if language := strings.TrimSpace(filter.Language); language != "" {
		query = query.Where("LOWER(language) = ?", strings.ToLower(language))
	}
	if filter.Level != nil {
		query = query.Where("level = ?", *filter.Level)
	}
	if filter.Tags != "" {
		query = query.Where("tags = ?", filter.Tags)
	}
	if filter.TestType != "" {
		query = query.Where("test_type = ?", filter.TestType)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var passages []models.Passage
	query = applyPage(query.Order("level ASC").Order("title ASC").Order("id ASC"), filter.Page, filter.PageSize)
	if err := query.Find(&passages).Error; err != nil {
		return nil, 0, err
	}

	return passages, total, nil
}

func (r *passageRepository) GetByID(ctx context.Context, id uint) (models.Passage, error) {
	var passage models.Passage
	if err := r.db.WithContext(ctx).First(&passage, id).Error; err != nil {
		return models.Passage{}, err
	}

	return passage, nil
}

func (r *passageRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Passage, error) {
	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&models.Passage{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return models.Passage{}, result.Error
		}
		if result.RowsAffected == 0 {
			return models.Passage{}, gorm.ErrRecordNotFound
		}
	}

	return r.GetByID(ctx, id)
}

// Delete removes the passage together with its quizzes and their questions.
func (r *passageRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sessions int64
		if err := tx.Model(&models.OralReadingSession{}).Where("passage_id = ?", id).Count(&sessions).Error; err != nil {
			return err
		}
		if sessions > 0 {
			return ErrPassageInUse
		}

		quizIDs := tx.Session(&gorm.Session{NewDB: true}).Model(&models.Quiz{}).Select("id").Where("passage_id = ?", id)
		if err := tx.Where("quiz_id IN (?)", quizIDs).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("passage_id = ?", id).Delete(&models.Quiz{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Passage{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
