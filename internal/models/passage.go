package models

import "time"

// ComprehensionTag classifies passages and questions by comprehension level.
type ComprehensionTag string

const (
	TagLiteral     ComprehensionTag = "Literal"
	TagInferential ComprehensionTag = "Inferential"
	TagCritical    ComprehensionTag = "Critical"
)

// TestType marks whether a passage is used before or after instruction.
type TestType string

const (
	TestTypePre  TestType = "PRE_TEST"
	TestTypePost TestType = "POST_TEST"
)

// Passage is a reading text used in oral-reading sessions and quizzes.
type Passage struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	Title     string           `gorm:"size:255;not null" json:"title"`
	Content   string           `gorm:"type:text;not null" json:"content"`
	Language  string           `gorm:"size:64;not null;index" json:"language"`
	Level     int              `gorm:"not null;index" json:"level"`
	Tags      ComprehensionTag `gorm:"size:16;not null" json:"tags"`
	TestType  TestType         `gorm:"size:16;not null" json:"test_type"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
