package project

import (
	"time"

	"github.com/google/uuid"
)

// ProjectMember is the join row granting a user access to a project.
// Membership carries no elevated rights; owner checks go through
// Project.OwnerID.
type ProjectMember struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}

// NewProjectMember grants userID access to projectID
func NewProjectMember(projectID, userID uuid.UUID) *ProjectMember {
	return &ProjectMember{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
}
