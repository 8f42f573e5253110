package tag

import (
	"time"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/tag"
)

// CreateTagRequest is the request to create a tag
type CreateTagRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	Color       *string `json:"color" binding:"omitempty,max=20"`
	Description *string `json:"description"`
}

// UpdateTagRequest is the request to update a tag. Nil fields are left
// unchanged.
type UpdateTagRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Color       *string `json:"color" binding:"omitempty,max=20"`
	Description *string `json:"description"`
}

// SetTaskTagsRequest replaces a task's tag set
type SetTaskTagsRequest struct {
	TagIDs []uuid.UUID `json:"tag_ids" binding:"required"`
}

// TagResponse is the tag representation returned to clients
type TagResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToTagResponse converts a domain tag to a response DTO
func ToTagResponse(t *tag.Tag) TagResponse {
	return TagResponse{
		ID:          t.ID,
		Name:        t.Name,
		Color:       t.Color,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToTagResponses converts a slice of domain tags to response DTOs
func ToTagResponses(tags []*tag.Tag) []TagResponse {
	responses := make([]TagResponse, len(tags))
	for i, t := range tags {
		responses[i] = ToTagResponse(t)
	}
	return responses
}
