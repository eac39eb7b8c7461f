package dto

import (
	"time"

	"github.com/noah-isme/literacy-go-api/internal/models"
)

// QuestionInput describes one question inside a quiz create or update payload.
// ID is only meaningful on update, where it targets an existing question of the quiz.
type QuestionInput struct {
	ID            *uint    `json:"id"`
	QuestionText  string   `json:"question_text" validate:"required"`
	Tags          string   `json:"tags" validate:"required,oneof=Literal Inferential Critical"`
	Type          string   `json:"type" validate:"required,oneof=MULTIPLE_CHOICE ESSAY"`
	Options       []string `json:"options" validate:"omitempty,dive,required,max=512"`
	CorrectAnswer *string  `json:"correct_answer" validate:"omitempty,max=512"`
}

// QuizCreateRequest describes the payload for creating a quiz with its questions.
type QuizCreateRequest struct {
	PassageID  uint            `json:"passage_id" validate:"required"`
	TotalScore int             `json:"total_score" validate:"gte=0"`
	Questions  []QuestionInput `json:"questions" validate:"dive"`
}

// QuizUpdateRequest carries only the fields the caller wants to change. When Questions is
// present it replaces the quiz's question set.
type QuizUpdateRequest struct {
	PassageID  *uint            `json:"passage_id" validate:"omitempty,gt=0"`
	TotalScore *int             `json:"total_score" validate:"omitempty,gte=0"`
	Questions  *[]QuestionInput `json:"questions" validate:"omitempty,dive"`
}

// IsEmpty reports whether the request changes nothing.
func (r QuizUpdateRequest) IsEmpty() bool {
	return r.PassageID == nil && r.TotalScore == nil && r.Questions == nil
}

// QuestionResponse is the serialized representation of a question.
type QuestionResponse struct {
	ID            uint     `json:"id"`
	Position      int      `json:"position"`
	QuestionText  string   `json:"question_text"`
	Tags          string   `json:"tags"`
	Type          string   `json:"type"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer *string  `json:"correct_answer,omitempty"`
}

// QuizResponse is the serialized representation of a quiz and its questions.
type QuizResponse struct {
	ID          uint               `json:"id"`
	PassageID   uint               `json:"passage_id"`
	TotalScore  int                `json:"total_score"`
	TotalNumber int                `json:"total_number"`
	Questions   []QuestionResponse `json:"questions"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// NewQuizResponse converts a model into a DTO.
func NewQuizResponse(model models.Quiz) QuizResponse {
	questions := make([]QuestionResponse, 0, len(model.Questions))
	for _, question := range model.Questions {
		questions = append(questions, QuestionResponse{
			ID:            question.ID,
			Position:      question.Position,
			QuestionText:  question.QuestionText,
			Tags:          string(question.Tags),
			Type:          string(question.Type),
			Options:       question.OptionList(),
			CorrectAnswer: question.CorrectAnswer,
		})
	}

	return QuizResponse{
		ID:          model.ID,
		PassageID:   model.PassageID,
		TotalScore:  model.TotalScore,
		TotalNumber: model.TotalNumber,
		Questions:   questions,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewQuizResponseSlice converts a slice of models into DTOs.
func NewQuizResponseSlice(quizzes []models.Quiz) []QuizResponse {
	responses := make([]QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, NewQuizResponse(quiz))
	}
	return responses
}
