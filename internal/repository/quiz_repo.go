package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/literacy-go-api/internal/models"
)

// ErrQuestionNotInQuiz indicates an update referenced a question owned by another quiz.
var ErrQuestionNotInQuiz = errors.New("question does not belong to quiz")

// QuizUpdate groups the changes applied to a quiz in one transaction. When ReplaceQuestions
// is set, Questions becomes the quiz's complete question set.
type QuizUpdate struct {
	Fields           map[string]interface{}
	ReplaceQuestions bool
	Questions        []models.Question
}

// QuizRepository defines persistence operations for quizzes and the questions they own.
type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	List(ctx context.Context, passageID *uint) ([]models.Quiz, error)
	GetByID(ctx context.Context, id uint) (models.Quiz, error)
	Update(ctx context.Context, id uint, update QuizUpdate) (models.Quiz, error)
	Delete(ctx context.Context, id uint) error
}

type quizRepository struct {
	db *gorm.DB
}

// NewQuizRepository instantiates a GORM-backed repository.
func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("id ASC")
}

// Create inserts the quiz and its questions atomically.
func (r *quizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Passage").Create(quiz).Error
	})
}

func (r *quizRepository) List(ctx context.Context, passageID *uint) ([]models.Quiz, error) {
	query := r.db.WithContext(ctx).Preload("Questions", orderedQuestions)
	if passageID != nil {
		query = query.Where("passage_id = ?", *passageID)
	}

	var quizzes []models.Quiz
	if err := query.Order("id ASC").Find(&quizzes).Error; err != nil {
		return nil, err
	}

	return quizzes, nil
}

func (r *quizRepository) GetByID(ctx context.Context, id uint) (models.Quiz, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *quizRepository) get(db *gorm.DB, id uint) (models.Quiz, error) {
	var quiz models.Quiz
	if err := db.Preload("Questions", orderedQuestions).First(&quiz, id).Error; err != nil {
		return models.Quiz{}, err
	}

	return quiz, nil
}

func (r *quizRepository) Update(ctx context.Context, id uint, update QuizUpdate) (models.Quiz, error) {
	var updated models.Quiz
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := r.get(tx, id)
		if err != nil {
			return err
		}

		fields := make(map[string]interface{}, len(update.Fields)+1)
		for key, value := range update.Fields {
			fields[key] = value
		}

		if update.ReplaceQuestions {
			if err := replaceQuestions(tx, current, update.Questions); err != nil {
				return err
			}
			var count int64
			if err := tx.Model(&models.Question{}).Where("quiz_id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			fields["total_number"] = int(count)
		}

		if len(fields) > 0 {
			if err := tx.Model(&models.Quiz{}).Where("id = ?", id).Updates(fields).Error; err != nil {
				return err
			}
		}

		reloaded, err := r.get(tx, id)
		if err != nil {
			return err
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return models.Quiz{}, err
	}

	return updated, nil
}

func replaceQuestions(tx *gorm.DB, quiz models.Quiz, incoming []models.Question) error {
	existing := make(map[uint]struct{}, len(quiz.Questions))
	for _, question := range quiz.Questions {
		existing[question.ID] = struct{}{}
	}

	kept := make(map[uint]struct{}, len(incoming))
	for i := range incoming {
		question := incoming[i]
		question.QuizID = quiz.ID

		if question.ID == 0 {
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			continue
		}

		if _, ok := existing[question.ID]; !ok {
			return ErrQuestionNotInQuiz
		}
		kept[question.ID] = struct{}{}

		err := tx.Model(&models.Question{}).
			Where("id = ? AND quiz_id = ?", question.ID, quiz.ID).
			Updates(map[string]interface{}{
				"position":       question.Position,
				"question_text":  question.QuestionText,
				"tags":           question.Tags,
				"type":           question.Type,
				"options":        question.Options,
				"correct_answer": question.CorrectAnswer,
			}).Error
		if err != nil {
			return err
		}
	}

	stale := make([]uint, 0, len(existing))
	for id := range existing {
		if _, ok := kept[id]; !ok {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		if err := tx.Where("quiz_id = ? AND id IN ?", quiz.ID, stale).Delete(&models.Question{}).Error; err != nil {
			return err
		}
	}

	return nil
}

// Delete removes the quiz and every question it owns.
func (r *quizRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Quiz{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
