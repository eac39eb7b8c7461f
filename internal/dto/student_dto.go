package dto

import (
	"time"

	"github.com/noah-isme/literacy-go-api/internal/models"
)

// StudentCreateRequest describes the payload for enrolling a student.
type StudentCreateRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	Level   int    `json:"level" validate:"gte=0,lte=12"`
	ClassID uint   `json:"class_id" validate:"required"`
}

// StudentUpdateRequest carries only the fields the caller wants to change.
type StudentUpdateRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=255"`
	Level   *int    `json:"level" validate:"omitempty,gte=0,lte=12"`
	ClassID *uint   `json:"class_id" validate:"omitempty,gt=0"`
}

// IsEmpty reports whether the request changes nothing.
func (r StudentUpdateRequest) IsEmpty() bool {
	return r.Name == nil && r.Level == nil && r.ClassID == nil
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	ClassID  *uint
	Search   string
	Page     int
	PageSize int `validate:"omitempty,gte=0,lte=100"`
}

// StudentResponse is the serialized representation of a student.
type StudentResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Level      int       `json:"level"`
	ClassID    uint      `json:"class_id"`
	SchoolYear string    `json:"school_year"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StudentListResponse wraps a page of students.
type StudentListResponse struct {
	Items      []StudentResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// NewStudentResponse converts a model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:         model.ID,
		Name:       model.Name,
		Level:      model.Level,
		ClassID:    model.ClassID,
		SchoolYear: model.SchoolYear,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// NewStudentResponseSlice converts a slice of models into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}
	return responses
}
