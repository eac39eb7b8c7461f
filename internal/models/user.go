package models

import (
	"strings"
	"time"
)

// Role identifies what a user is allowed to do.
type Role string

const (
	// RoleAdmin manages passages, quizzes and users.
	RoleAdmin Role = "ADMIN"
	// RoleTeacher manages their own classes, students and reading sessions.
	RoleTeacher Role = "TEACHER"
)

// ParseRole normalises a role string, returning false for unknown roles.
func ParseRole(value string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleTeacher:
		return RoleTeacher, true
	default:
		return "", false
	}
}

// User is an account able to sign in to the platform.
type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"size:255;not null" json:"name"`
	Email           string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash    string     `gorm:"size:255;not null" json:"-"`
	Role            Role       `gorm:"size:16;not null;index" json:"role"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Classes         []Class    `gorm:"foreignKey:UserID" json:"-"`
}

// IsVerified reports whether the user confirmed their email address.
func (u User) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}
