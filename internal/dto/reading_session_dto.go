package dto

import (
	"time"

	"github.com/noah-isme/literacy-go-api/internal/models"
)

// ReadingSessionCreateRequest describes a recorded reading attempt.
type ReadingSessionCreateRequest struct {
	StudentID    uint  `form:"student_id" json:"student_id" validate:"required"`
	PassageID    uint  `form:"passage_id" json:"passage_id" validate:"required"`
	AssessmentID *uint `form:"assessment_id" json:"assessment_id" validate:"omitempty,gt=0"`
}

// ReadingSessionResponse summarises a session without its sub-records.
type ReadingSessionResponse struct {
	ID           uint      `json:"id"`
	StudentID    uint      `json:"student_id"`
	PassageID    uint      `json:"passage_id"`
	AssessmentID *uint     `json:"assessment_id"`
	AudioURL     string    `json:"audio_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// StudentSummary is the minimal student projection embedded in session aggregates.
type StudentSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// MiscueResponse is one miscue of a session.
type MiscueResponse struct {
	ID           uint   `json:"id"`
	WordIndex    int    `json:"word_index"`
	ExpectedWord string `json:"expected_word"`
	SpokenWord   string `json:"spoken_word"`
	MiscueType   string `json:"miscue_type"`
}

// WordTimestampResponse is the timing of one read word.
type WordTimestampResponse struct {
	ID      uint   `json:"id"`
	Index   int    `json:"index"`
	Word    string `json:"word"`
	StartMs int    `json:"start_ms"`
	EndMs   int    `json:"end_ms"`
}

// BehaviorResponse is one observed reading behaviour.
type BehaviorResponse struct {
	ID           uint   `json:"id"`
	BehaviorType string `json:"behavior_type"`
	Notes        string `json:"notes"`
}

// ReadingSessionAggregateResponse is a session with every record it owns.
type ReadingSessionAggregateResponse struct {
	ReadingSessionResponse
	Passage        PassageResponse         `json:"passage"`
	Student        StudentSummary          `json:"student"`
	Assessment     *AssessmentResponse     `json:"assessment"`
	Miscues        []MiscueResponse        `json:"miscues"`
	WordTimestamps []WordTimestampResponse `json:"word_timestamps"`
	Behaviors      []BehaviorResponse      `json:"behaviors"`
}

// NewReadingSessionResponse converts a model into a summary DTO.
func NewReadingSessionResponse(model models.OralReadingSession) ReadingSessionResponse {
	return ReadingSessionResponse{
		ID:           model.ID,
		StudentID:    model.StudentID,
		PassageID:    model.PassageID,
		AssessmentID: model.AssessmentID,
		AudioURL:     model.AudioURL,
		CreatedAt:    model.CreatedAt,
	}
}

// NewReadingSessionResponseSlice converts a slice of models into summary DTOs.
func NewReadingSessionResponseSlice(sessions []models.OralReadingSession) []ReadingSessionResponse {
	responses := make([]ReadingSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, NewReadingSessionResponse(session))
	}
	return responses
}

// NewReadingSessionAggregateResponse converts a fully loaded session into a DTO. The order of
// sub-records is preserved as loaded.
func NewReadingSessionAggregateResponse(model models.OralReadingSession) ReadingSessionAggregateResponse {
	response := ReadingSessionAggregateResponse{
		ReadingSessionResponse: NewReadingSessionResponse(model),
		Passage:                NewPassageResponse(model.Passage),
		Student:                StudentSummary{ID: model.Student.ID, Name: model.Student.Name},
		Miscues:                make([]MiscueResponse, 0, len(model.Miscues)),
		WordTimestamps:         make([]WordTimestampResponse, 0, len(model.WordTimestamps)),
		Behaviors:              make([]BehaviorResponse, 0, len(model.Behaviors)),
	}

	if model.Assessment != nil {
		assessment := NewAssessmentResponse(*model.Assessment)
		response.Assessment = &assessment
	}

	for _, miscue := range model.Miscues {
		response.Miscues = append(response.Miscues, MiscueResponse{
			ID:           miscue.ID,
			WordIndex:    miscue.WordIndex,
			ExpectedWord: miscue.ExpectedWord,
			SpokenWord:   miscue.SpokenWord,
			MiscueType:   miscue.MiscueType,
		})
	}

	for _, timestamp := range model.WordTimestamps {
		response.WordTimestamps = append(response.WordTimestamps, WordTimestampResponse{
			ID:      timestamp.ID,
			Index:   timestamp.Index,
			Word:    timestamp.Word,
			StartMs: timestamp.StartMs,
			EndMs:   timestamp.EndMs,
		})
	}

	for _, behavior := range model.Behaviors {
		response.Behaviors = append(response.Behaviors, BehaviorResponse{
			ID:           behavior.ID,
			BehaviorType: behavior.BehaviorType,
			Notes:        behavior.Notes,
		})
	}

	return response
}
