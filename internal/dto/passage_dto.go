package dto

import (
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/noah-isme/literacy-go-api/internal/models"
)

var passageMarkup = bluemonday.NewPolicy().AllowElements("p", "br")

// PassageCreateRequest describes the payload for creating a reading passage.
type PassageCreateRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=255"`
	Content  string `json:"content" validate:"required"`
	Language string `json:"language" validate:"required,max=64"`
	Level    int    `json:"level" validate:"gte=0,lte=12"`
	Tags     string `json:"tags" validate:"required,oneof=Literal Inferential Critical"`
	TestType string `json:"test_type" validate:"required,oneof=PRE_TEST POST_TEST"`
}

// PassageUpdateRequest carries only the fields the caller wants to change.
type PassageUpdateRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=255"`
	Content  *string `json:"content" validate:"omitempty,min=1"`
	Language *string `json:"language" validate:"omitempty,min=1,max=64"`
	Level    *int    `json:"level" validate:"omitempty,gte=0,lte=12"`
	Tags     *string `json:"tags" validate:"omitempty,oneof=Literal Inferential Critical"`
	TestType *string `json:"test_type" validate:"omitempty,oneof=PRE_TEST POST_TEST"`
}

// IsEmpty reports whether the request changes nothing.
func (r PassageUpdateRequest) IsEmpty() bool {
	return r.Title == nil && r.Content == nil && r.Language == nil && r.Level == nil && r.Tags == nil && r.TestType == nil
}

// PassageFilter narrows passage listings.
type PassageFilter struct {
	Language string `validate:"omitempty,max=64"`
	Level    *int
	Tags     string `validate:"omitempty,oneof=Literal Inferential Critical"`
	TestType string `validate:"omitempty,oneof=PRE_TEST POST_TEST"`
	Search   string
	Page     int
	PageSize int `validate:"omitempty,gte=0,lte=100"`
}

// PassageResponse is the serialized representation of a passage.
type PassageResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html"`
	Language    string    `json:"language"`
	Level       int       `json:"level"`
	Tags        string    `json:"tags"`
	TestType    string    `json:"test_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PassageListResponse wraps a page of passages.
type PassageListResponse struct {
	Items      []PassageResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
	CacheHit   bool              `json:"cache_hit"`
}

// NewPassageResponse converts a model into a DTO.
func NewPassageResponse(model models.Passage) PassageResponse {
	return PassageResponse{
		ID:          model.ID,
		Title:       model.Title,
		Content:     model.Content,
		ContentHTML: RenderPassageHTML(model.Content),
		Language:    model.Language,
		Level:       model.Level,
		Tags:        string(model.Tags),
		TestType:    string(model.TestType),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// RenderPassageHTML lays plain passage text out as paragraphs for the reading view. Blank
// lines separate paragraphs, single newlines become line breaks, and every character of the
// text itself is escaped.
func RenderPassageHTML(text string) string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	var b strings.Builder
	for _, paragraph := range strings.Split(normalized, "\n\n") {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(paragraph), "\n", "<br>"))
		b.WriteString("</p>")
	}
	return passageMarkup.Sanitize(b.String())
}
