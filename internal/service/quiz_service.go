package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/literacy-go-api/internal/dto"
	"github.com/noah-isme/literacy-go-api/internal/models"
	"github.com/noah-isme/literacy-go-api/internal/repository"
)

// QuizService manages comprehension quizzes and the questions they own.
type QuizService interface {
	Create(ctx context.Context, principal Principal, req dto.QuizCreateRequest) (dto.QuizResponse, error)
	List(ctx context.Context, principal Principal, passageID *uint) ([]dto.QuizResponse, error)
	Get(ctx context.Context, principal Principal, id uint) (dto.QuizResponse, error)
	Update(ctx context.Context, principal Principal, id uint, req dto.QuizUpdateRequest) (dto.QuizResponse, error)
	Delete(ctx context.Context, principal Principal, id uint) error
}

type quizService struct {
	quizzes   repository.QuizRepository
	passages  repository.PassageRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewQuizService constructs a QuizService.
func NewQuizService(quizzes repository.QuizRepository, passages repository.PassageRepository, validate *validator.Validate, logger zerolog.Logger) QuizService {
	return &quizService{
		quizzes:   quizzes,
		passages:  passages,
		validator: validate,
		logger:    logger.With().Str("component", "quiz_service").Logger(),
	}
}

func (s *quizService) Create(ctx context.Context, principal Principal, req dto.QuizCreateRequest) (dto.QuizResponse, error) {
	if err := RequireRole(principal, models.RoleAdmin); err != nil {
		return dto.QuizResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.QuizResponse{}, validationError(err)
	}

	questions, err := s.buildQuestions(req.Questions, false)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	if _, err := s.passages.GetByID(ctx, req.PassageID); err != nil {
		return dto.QuizResponse{}, persistenceError(s.logger, "passage", err)
	}

	quiz := models.Quiz{
		PassageID:   req.PassageID,
		TotalScore:  req.TotalScore,
		TotalNumber: len(questions),
		Questions:   questions,
	}
	if err := s.quizzes.Create(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, persistenceError(s.logger, "quiz", err)
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Int("questions", quiz.TotalNumber).Msg("quiz created")
	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) List(ctx context.Context, principal Principal, passageID *uint) ([]dto.QuizResponse, error) {
	if err := RequireAuth(principal); err != nil {
		return nil, err
	}

	quizzes, err := s.quizzes.List(ctx, passageID)
	if err != nil {
		return nil, persistenceError(s.logger, "quiz", err)
	}

	return dto.NewQuizResponseSlice(quizzes), nil
}

func (s *quizService) Get(ctx context.Context, principal Principal, id uint) (dto.QuizResponse, error) {
	if err := RequireAuth(principal); err != nil {
		return dto.QuizResponse{}, err
	}

	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		return dto.QuizResponse{}, persistenceError(s.logger, "quiz", err)
	}

	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) Update(ctx context.Context, principal Principal, id uint, req dto.QuizUpdateRequest) (dto.QuizResponse, error) {
	if err := RequireRole(principal, models.RoleAdmin); err != nil {
		return dto.QuizResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.QuizResponse{}, validationError(err)
	}

	update := repository.QuizUpdate{Fields: map[string]interface{}{}}
	if req.Questions != nil {
		questions, err := s.buildQuestions(*req.Questions, true)
		if err != nil {
			return dto.QuizResponse{}, err
		}
		update.ReplaceQuestions = true
		update.Questions = questions
	}
	if req.PassageID != nil {
		if _, err := s.passages.GetByID(ctx, *req.PassageID); err != nil {
			return dto.QuizResponse{}, persistenceError(s.logger, "passage", err)
		}
		update.Fields["passage_id"] = *req.PassageID
	}
	if req.TotalScore != nil {
		update.Fields["total_score"] = *req.TotalScore
	}

	quiz, err := s.quizzes.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotInQuiz) {
			return dto.QuizResponse{}, invalid("questions", "question does not belong to this quiz")
		}
		return dto.QuizResponse{}, persistenceError(s.logger, "quiz", err)
	}

	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) Delete(ctx context.Context, principal Principal, id uint) error {
	if err := RequireRole(principal, models.RoleAdmin); err != nil {
		return err
	}

	if err := s.quizzes.Delete(ctx, id); err != nil {
		return persistenceError(s.logger, "quiz", err)
	}

	s.logger.Info().Uint("quiz_id", id).Msg("quiz deleted")
	return nil
}

// buildQuestions checks the per-type invariants and converts inputs to models in order.
func (s *quizService) buildQuestions(inputs []dto.QuestionInput, allowIDs bool) ([]models.Question, error) {
	questions := make([]models.Question, 0, len(inputs))
	seen := make(map[uint]struct{}, len(inputs))
	for i, input := range inputs {
		field := fmt.Sprintf("questions[%d]", i)

		if strings.TrimSpace(input.QuestionText) == "" {
			return nil, invalid(field+".question_text", "is required")
		}

		question := models.Question{
			Position:     i,
			QuestionText: input.QuestionText,
			Tags:         models.ComprehensionTag(input.Tags),
			Type:         models.QuestionType(input.Type),
		}

		if input.ID != nil {
			if !allowIDs {
				return nil, invalid(field+".id", "must not be set when creating a quiz")
			}
			if _, dup := seen[*input.ID]; dup {
				return nil, invalid(field+".id", "duplicate question")
			}
			seen[*input.ID] = struct{}{}
			question.ID = *input.ID
		}

		switch question.Type {
		case models.QuestionTypeMultipleChoice:
			options := make([]string, 0, len(input.Options))
			for _, option := range input.Options {
				options = append(options, strings.TrimSpace(option))
			}
			if len(options) < 2 {
				return nil, invalid(field+".options", "must contain at least 2 options")
			}
			if input.CorrectAnswer == nil || strings.TrimSpace(*input.CorrectAnswer) == "" {
				return nil, invalid(field+".correct_answer", "is required")
			}
			answer := strings.TrimSpace(*input.CorrectAnswer)
			if !containsString(options, answer) {
				return nil, invalid(field+".correct_answer", "must be one of the options")
			}
			question.SetOptions(options)
			question.CorrectAnswer = &answer
		default:
			if len(input.Options) > 0 {
				return nil, invalid(field+".options", "only allowed for multiple choice questions")
			}
			if input.CorrectAnswer != nil {
				return nil, invalid(field+".correct_answer", "only allowed for multiple choice questions")
			}
		}

		questions = append(questions, question)
	}
	return questions, nil
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
