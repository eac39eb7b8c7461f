package dto

import (
	"time"

	"github.com/noah-isme/literacy-go-api/internal/models"
)

// AssessmentCreateRequest describes the payload for recording an assessment.
type AssessmentCreateRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=ORAL_READING COMPREHENSION READING_FLUENCY"`
}

// AssessmentResponse is the serialized representation of an assessment.
type AssessmentResponse struct {
	ID        uint      `json:"id"`
	StudentID uint      `json:"student_id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAssessmentResponse converts a model into a DTO.
func NewAssessmentResponse(model models.Assessment) AssessmentResponse {
	return AssessmentResponse{
		ID:        model.ID,
		StudentID: model.StudentID,
		Type:      string(model.Type),
		CreatedAt: model.CreatedAt,
	}
}

// NewAssessmentResponseSlice converts a slice of models into DTOs.
func NewAssessmentResponseSlice(assessments []models.Assessment) []AssessmentResponse {
	responses := make([]AssessmentResponse, 0, len(assessments))
	for _, assessment := range assessments {
		responses = append(responses, NewAssessmentResponse(assessment))
	}
	return responses
}
