package models

import "time"

// OralReadingSession is one timed reading attempt of a passage by a student.
type OralReadingSession struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	StudentID      uint            `gorm:"not null;index" json:"student_id"`
	PassageID      uint            `gorm:"not null;index" json:"passage_id"`
	AssessmentID   *uint           `gorm:"index" json:"assessment_id"`
	AudioURL       string          `gorm:"size:512" json:"audio_url"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Student        Student         `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Passage        Passage         `gorm:"foreignKey:PassageID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Assessment     *Assessment     `gorm:"foreignKey:AssessmentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	Miscues        []Miscue        `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	WordTimestamps []WordTimestamp `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	Behaviors      []Behavior      `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
}

// Miscue is a deviation from the passage text at a given word position.
type Miscue struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SessionID    uint      `gorm:"not null;index" json:"session_id"`
	WordIndex    int       `gorm:"not null" json:"word_index"`
	ExpectedWord string    `gorm:"size:255" json:"expected_word"`
	SpokenWord   string    `gorm:"size:255" json:"spoken_word"`
	MiscueType   string    `gorm:"size:32;not null" json:"miscue_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// WordTimestamp marks when a word of the passage was read.
type WordTimestamp struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;index" json:"session_id"`
	Index     int       `gorm:"column:word_position;not null" json:"index"`
	Word      string    `gorm:"size:255" json:"word"`
	StartMs   int       `gorm:"not null" json:"start_ms"`
	EndMs     int       `gorm:"not null" json:"end_ms"`
	CreatedAt time.Time `json:"created_at"`
}

// Behavior is an observed reading behaviour during a session.
type Behavior struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SessionID    uint      `gorm:"not null;index" json:"session_id"`
	BehaviorType string    `gorm:"size:64;not null" json:"behavior_type"`
	Notes        string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}
