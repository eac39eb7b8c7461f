package dto

import (
	"time"

	"github.com/noah-isme/literacy-go-api/internal/models"
)

// ClassCreateRequest describes the payload for creating a class.
type ClassCreateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// ClassUpdateRequest carries only the fields the caller wants to change.
type ClassUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Archived *bool   `json:"archived"`
}

// IsEmpty reports whether the request changes nothing.
func (r ClassUpdateRequest) IsEmpty() bool {
	return r.Name == nil && r.Archived == nil
}

// ClassFilter narrows class listings.
type ClassFilter struct {
	IncludeArchived bool
}

// ClassResponse is the serialized representation of a class.
type ClassResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	UserID       uint      `json:"user_id"`
	Archived     bool      `json:"archived"`
	StudentCount int       `json:"student_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewClassResponse converts a model into a DTO.
func NewClassResponse(model models.Class) ClassResponse {
	return ClassResponse{
		ID:           model.ID,
		Name:         model.Name,
		UserID:       model.UserID,
		Archived:     model.Archived,
		StudentCount: len(model.Students),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewClassResponseSlice converts a slice of models into DTOs.
func NewClassResponseSlice(classes []models.Class) []ClassResponse {
	responses := make([]ClassResponse, 0, len(classes))
	for _, class := range classes {
		responses = append(responses, NewClassResponse(class))
	}
	return responses
}
