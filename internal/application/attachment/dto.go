package attachment

import (
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/attachment"
)

// UploadInput carries one multipart file received by the handler
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// AttachmentResponse is the attachment metadata returned to clients
type AttachmentResponse struct {
	ID               uuid.UUID `json:"id"`
	TaskID           uuid.UUID `json:"task_id"`
	UploadedBy       uuid.UUID `json:"uploaded_by"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	ContentType      string    `json:"content_type"`
	SizeBytes        int64     `json:"size_bytes"`
	FormattedSize    string    `json:"formatted_size"`
	CreatedAt        time.Time `json:"created_at"`
}

// Download couples attachment metadata with its content stream. The
// caller closes Content.
type Download struct {
	Meta    AttachmentResponse
	Content io.ReadCloser
}

// ToAttachmentResponse converts a domain attachment to a response DTO
func ToAttachmentResponse(a *attachment.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:               a.ID,
		TaskID:           a.TaskID,
		UploadedBy:       a.UploadedBy,
		Filename:         a.Filename,
		OriginalFilename: a.OriginalFilename,
		ContentType:      a.ContentType,
		SizeBytes:        a.SizeBytes,
		FormattedSize:    a.FormattedSize(),
		CreatedAt:        a.CreatedAt,
	}
}

// ToAttachmentResponses converts a slice of domain attachments to
// response DTOs
func ToAttachmentResponses(attachments []*attachment.Attachment) []AttachmentResponse {
	responses := make([]AttachmentResponse, len(attachments))
	for i, a := range attachments {
		responses[i] = ToAttachmentResponse(a)
	}
	return responses
}
