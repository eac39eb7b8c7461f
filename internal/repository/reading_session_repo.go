package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/noah-isme/literacy-go-api/internal/models"
)

// ReadingSessionRepository persists oral reading sessions and loads their aggregate view.
type ReadingSessionRepository interface {
	Create(ctx context.Context, session *models.OralReadingSession) error
	ListByStudent(ctx context.Context, studentID uint, scope Scope) ([]models.OralReadingSession, error)
	GetAggregate(ctx context.Context, id uint, scope Scope) (models.OralReadingSession, error)
}

type readingSessionRepository struct {
	db *gorm.DB
}

// NewReadingSessionRepository constructs a GORM-backed reading session repository.
func NewReadingSessionRepository(db *gorm.DB) ReadingSessionRepository {
	return &readingSessionRepository{db: db}
}

func (r *readingSessionRepository) Create(ctx context.Context, session *models.OralReadingSession) error {
	return r.db.WithContext(ctx).
		Omit("Student", "Passage", "Assessment").
		Create(session).Error
}

func (r *readingSessionRepository) ListByStudent(ctx context.Context, studentID uint, scope Scope) ([]models.OralReadingSession, error) {
	var sessions []models.OralReadingSession
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("student_id IN (?)", scope.studentIDs(r.db)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// GetAggregate loads the session with its passage, student, assessment and ordered
// sub-records inside a single read-only transaction.
func (r *readingSessionRepository) GetAggregate(ctx context.Context, id uint, scope Scope) (models.OralReadingSession, error) {
	var session models.OralReadingSession
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.
			Preload("Passage").
			Preload("Student", func(db *gorm.DB) *gorm.DB {
				return db.Select("id", "name")
			}).
			Preload("Assessment").
			Preload("Miscues", func(db *gorm.DB) *gorm.DB {
				return db.Order("word_index ASC").Order("id ASC")
			}).
			Preload("WordTimestamps", func(db *gorm.DB) *gorm.DB {
				return db.Order("word_position ASC").Order("id ASC")
			}).
			Preload("Behaviors", func(db *gorm.DB) *gorm.DB {
				return db.Order("id ASC")
			}).
			Where("oral_reading_sessions.id = ?", id).
			Where("oral_reading_sessions.student_id IN (?)", scope.studentIDs(tx)).
			First(&session).Error
	}, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return models.OralReadingSession{}, err
	}

	return session, nil
}

// deleteSessionRecords removes the sub-records of every session selected by sessionIDs.
func deleteSessionRecords(tx *gorm.DB, sessionIDs *gorm.DB) error {
	for _, record := range []interface{}{&models.Miscue{}, &models.WordTimestamp{}, &models.Behavior{}} {
		if err := tx.Where("session_id IN (?)", sessionIDs).Delete(record).Error; err != nil {
			return err
		}
	}
	return nil
}
