package attachment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/shared"
)

// MaxFileSize is the upload size cap in bytes
const MaxFileSize int64 = 10 * 1024 * 1024

var allowedExtensions = map[string]struct{}{
	"pdf": {}, "doc": {}, "docx": {}, "xls": {}, "xlsx": {}, "ppt": {}, "pptx": {},
	"txt": {}, "csv": {}, "zip": {}, "rar": {}, "7z": {},
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "webp": {}, "svg": {}, "bmp": {},
}

// Attachment is a file uploaded against a task. The binary content
// lives in blob storage under StoragePath; the row holds metadata only.
type Attachment struct {
	ID               uuid.UUID
	TaskID           uuid.UUID
	UploadedBy       uuid.UUID
	Filename         string
	OriginalFilename string
	ContentType      string
	SizeBytes        int64
	StoragePath      string
	CreatedAt        time.Time
}

// NewAttachment validates the upload and builds the metadata record.
// The stored filename is a fresh UUID with the original extension; the
// storage path is {task_id}/{filename}.
func NewAttachment(taskID, uploadedBy uuid.UUID, originalFilename, contentType string, sizeBytes int64) (*Attachment, error) {
	if sizeBytes > MaxFileSize {
		return nil, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/1024/1024))
	}

	ext := FileExtension(originalFilename)
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("File type '%s' is not allowed", ext))
	}

	filename := fmt.Sprintf("%s.%s", uuid.New(), ext)

	return &Attachment{
		ID:               uuid.New(),
		TaskID:           taskID,
		UploadedBy:       uploadedBy,
		Filename:         filename,
		OriginalFilename: originalFilename,
		ContentType:      contentType,
		SizeBytes:        sizeBytes,
		StoragePath:      fmt.Sprintf("%s/%s", taskID, filename),
		CreatedAt:        time.Now(),
	}, nil
}

// FileExtension returns the lowercased extension of a filename. A name
// without a dot yields the whole lowercased name, which then fails the
// allow-list check.
func FileExtension(filename string) string {
	return strings.ToLower(filename[strings.LastIndex(filename, ".")+1:])
}

// IsImage reports whether the attachment is an image by content type
func (a *Attachment) IsImage() bool {
	return strings.HasPrefix(a.ContentType, "image/")
}

// FormattedSize renders the byte size for display
func (a *Attachment) FormattedSize() string {
	const (
		kb = int64(1024)
		mb = kb * 1024
		gb = mb * 1024
	)

	switch {
	case a.SizeBytes >= gb:
		return fmt.Sprintf("%.2f GB", float64(a.SizeBytes)/float64(gb))
	case a.SizeBytes >= mb:
		return fmt.Sprintf("%.2f MB", float64(a.SizeBytes)/float64(mb))
	case a.SizeBytes >= kb:
		return fmt.Sprintf("%.2f KB", float64(a.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", a.SizeBytes)
	}
}
