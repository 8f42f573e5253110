package notification

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/shared"
)

// NotificationType classifies what a notification is about
type NotificationType string

const (
	TypeTaskAssigned   NotificationType = "task_assigned"
	TypeTaskUpdated    NotificationType = "task_updated"
	TypeTaskCompleted  NotificationType = "task_completed"
	TypeTaskDueSoon    NotificationType = "task_due_soon"
	TypeProjectUpdated NotificationType = "project_updated"
	TypeCommentAdded   NotificationType = "comment_added"
	TypeMention        NotificationType = "mention"
	TypeSystem         NotificationType = "system"
)

// ParseNotificationType parses a type string
func ParseNotificationType(s string) (NotificationType, error) {
	switch NotificationType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeTaskAssigned:
		return TypeTaskAssigned, nil
	case TypeTaskUpdated:
		return TypeTaskUpdated, nil
	case TypeTaskCompleted:
		return TypeTaskCompleted, nil
	case TypeTaskDueSoon:
		return TypeTaskDueSoon, nil
	case TypeProjectUpdated:
		return TypeProjectUpdated, nil
	case TypeCommentAdded:
		return TypeCommentAdded, nil
	case TypeMention:
		return TypeMention, nil
	case TypeSystem:
		return TypeSystem, nil
	}
	return "", shared.NewDomainError("VALIDATION_ERROR", "Invalid notification type")
}

// IsValid reports whether the type is one of the known values
func (t NotificationType) IsValid() bool {
	switch t {
	case TypeTaskAssigned, TypeTaskUpdated, TypeTaskCompleted, TypeTaskDueSoon,
		TypeProjectUpdated, TypeCommentAdded, TypeMention, TypeSystem:
		return true
	}
	return false
}

// String returns the lowercase wire representation
func (t NotificationType) String() string {
	return string(t)
}

// Notification is addressed to exactly one user. Ownership is strict:
// not even admins may read or modify another user's notifications.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      NotificationType
	Title     string
	Message   string
	Link      *string
	IsRead    bool
	CreatedAt time.Time
}

// NewNotification creates an unread notification for a user
func NewNotification(userID uuid.UUID, typ NotificationType, title, message string, link *string) (*Notification, error) {
	if !typ.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid notification type")
	}

	return &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Link:      link,
		IsRead:    false,
		CreatedAt: time.Now(),
	}, nil
}

// IsOwnedBy reports whether the notification belongs to the given user
func (n *Notification) IsOwnedBy(userID uuid.UUID) bool {
	return n.UserID == userID
}

// MarkRead flags the notification as read
func (n *Notification) MarkRead() {
	n.IsRead = true
}
