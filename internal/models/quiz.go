package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// QuestionType distinguishes closed and open questions.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeEssay          QuestionType = "ESSAY"
)

// Quiz is a comprehension quiz attached to a passage. It owns its questions.
type Quiz struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	PassageID   uint       `gorm:"not null;index" json:"passage_id"`
	TotalScore  int        `gorm:"not null" json:"total_score"`
	TotalNumber int        `gorm:"not null" json:"total_number"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Passage     Passage    `gorm:"foreignKey:PassageID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Questions   []Question `gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questions"`
}

// Question belongs to a quiz. Options and CorrectAnswer are only set for multiple choice.
type Question struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	QuizID        uint             `gorm:"not null;index" json:"quiz_id"`
	Position      int              `gorm:"not null" json:"position"`
	QuestionText  string           `gorm:"type:text;not null" json:"question_text"`
	Tags          ComprehensionTag `gorm:"size:16;not null" json:"tags"`
	Type          QuestionType     `gorm:"size:32;not null" json:"type"`
	Options       datatypes.JSON   `gorm:"type:json" json:"-"`
	CorrectAnswer *string          `gorm:"size:512" json:"correct_answer,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// SetOptions serializes the option list into the JSON storage column. A nil slice clears it.
func (q *Question) SetOptions(options []string) {
	if options == nil {
		q.Options = nil
		return
	}
	data, err := json.Marshal(options)
	if err != nil {
		q.Options = datatypes.JSON([]byte("[]"))
		return
	}
	q.Options = datatypes.JSON(data)
}

// OptionList deserializes the stored options.
func (q Question) OptionList() []string {
	if len(q.Options) == 0 {
		return nil
	}

	var options []string
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil
	}

	return options
}
