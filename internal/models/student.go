package models

import (
	"fmt"
	"time"
)

// Student represents a learner enrolled in exactly one class.
type Student struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Level      int       `gorm:"not null" json:"level"`
	ClassID    uint      `gorm:"not null;index" json:"class_id"`
	SchoolYear string    `gorm:"size:9;not null" json:"school_year"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Class      Class     `gorm:"foreignKey:ClassID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// SchoolYearFor returns the "YYYY-YYYY" school year containing the reference time.
// January through June belong to the year that started the previous July.
func SchoolYearFor(reference time.Time) string {
	year := reference.Year()
	if reference.Month() <= time.June {
		return fmt.Sprintf("%d-%d", year-1, year)
	}
	return fmt.Sprintf("%d-%d", year, year+1)
}
