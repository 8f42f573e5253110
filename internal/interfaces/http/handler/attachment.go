package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	attachmentapp "github.com/pmo/backend/internal/application/attachment"
)

// AttachmentHandler handles file attachment endpoints
type AttachmentHandler struct {
	BaseHandler
	service *attachmentapp.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(service *attachmentapp.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: service}
}

// ListByTask godoc
// @ID           listTaskAttachments
// @Summary      List a task's attachments
// @Tags         attachments
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} APIResponse[[]attachmentapp.AttachmentResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/attachments [get]
func (h *AttachmentHandler) ListByTask(c *gin.Context) {
	taskID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	attachments, err := h.service.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, attachments)
}

// Upload godoc
// @ID           uploadAttachment
// @Summary      Upload an attachment
// @Description  Accepts a multipart form with a "file" field, limited to 10 MB and an extension allow-list
// @Tags         attachments
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        file formData file true "File to upload"
// @Success      200 {object} APIResponse[attachmentapp.AttachmentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tasks/{id}/attachments [post]
func (h *AttachmentHandler) Upload(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	taskID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "No file provided")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}

	attachment, err := h.service.Upload(c.Request.Context(), p, taskID, attachmentapp.UploadInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Data:        data,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, attachment)
}

// Download godoc
// @ID           downloadAttachment
// @Summary      Download an attachment
// @Description  Streams the stored blob with the original filename in Content-Disposition
// @Tags         attachments
// @Produce      application/octet-stream
// @Param        id path string true "Attachment ID"
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /attachments/{id} [get]
func (h *AttachmentHandler) Download(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	download, err := h.service.Open(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	defer download.Content.Close()

	c.DataFromReader(http.StatusOK, download.Meta.SizeBytes, download.Meta.ContentType, download.Content, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", download.Meta.OriginalFilename),
	})
}

// Delete godoc
// @ID           deleteAttachment
// @Summary      Delete an attachment
// @Description  Removes the stored blob, then the metadata row
// @Tags         attachments
// @Produce      json
// @Param        id path string true "Attachment ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /attachments/{id} [delete]
func (h *AttachmentHandler) Delete(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessMessage(c, "Attachment deleted successfully")
}
