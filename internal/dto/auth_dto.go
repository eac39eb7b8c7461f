package dto

import (
	"time"

	"github.com/noah-isme/literacy-go-api/internal/models"
)

// AdminSignupRequest creates an administrator account guarded by a shared signup code.
type AdminSignupRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	SignupCode string `json:"signup_code" validate:"required"`
}

// RegisterRequest creates a teacher account pending email verification.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// VerifyEmailRequest carries the query string of a verification link.
type VerifyEmailRequest struct {
	Token  string `query:"token" validate:"required"`
	UserID uint   `query:"userId" validate:"required"`
}

// LoginRequest exchanges credentials for an access token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdateRequest carries only the profile fields the caller wants to change.
type ProfileUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
}

// IsEmpty reports whether the request changes nothing.
func (r ProfileUpdateRequest) IsEmpty() bool {
	return r.Name == nil && r.Password == nil
}

// UserResponse is the public representation of an account.
type UserResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// LoginResponse returns the signed access token.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{
		ID:            model.ID,
		Name:          model.Name,
		Email:         model.Email,
		Role:          string(model.Role),
		EmailVerified: model.IsVerified(),
		CreatedAt:     model.CreatedAt,
	}
}

// NewUserResponseSlice converts a slice of models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}
	return responses
}
