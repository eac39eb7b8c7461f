package models

import "time"

// AssessmentType names the kind of assessment administered to a student.
type AssessmentType string

const (
	AssessmentOralReading    AssessmentType = "ORAL_READING"
	AssessmentComprehension  AssessmentType = "COMPREHENSION"
	AssessmentReadingFluency AssessmentType = "READING_FLUENCY"
)

// Assessment records that a student took an assessment of a given type.
type Assessment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	StudentID uint           `gorm:"not null;index" json:"student_id"`
	Type      AssessmentType `gorm:"size:32;not null" json:"type"`
	CreatedAt time.Time      `json:"created_at"`
	Student   Student        `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
