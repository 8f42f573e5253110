package tag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pmo/backend/internal/domain/authz"
	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/domain/tag"
)

// TagService handles tag-related use cases. Tags carry no ownership;
// every authenticated user may read and write them.
type TagService struct {
	tagRepo tag.TagRepository
	events  shared.EventPublisher
	logger  *zap.Logger
}

// NewTagService creates a new tag service
func NewTagService(tagRepo tag.TagRepository, events shared.EventPublisher, logger *zap.Logger) *TagService {
	return &TagService{
		tagRepo: tagRepo,
		events:  events,
		logger:  logger,
	}
}

// Create creates a tag. Names are unique across the system; the
// case-sensitive pre-check runs before insert, with the database
// constraint as backstop.
func (s *TagService) Create(ctx context.Context, p authz.Principal, req CreateTagRequest) (*TagResponse, error) {
	name := strings.TrimSpace(req.Name)

	// Check if a tag with this exact name already exists
	if _, err := s.tagRepo.FindByName(ctx, name); err == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Tag with this name already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	t, err := tag.NewTag(name, req.Color, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.tagRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.publish(ctx, tag.NewTagCreatedEvent(t, p.ID))

	response := ToTagResponse(t)
	return &response, nil
}

// List returns all tags ordered by name
func (s *TagService) List(ctx context.Context) ([]TagResponse, error) {
	tags, err := s.tagRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToTagResponses(tags), nil
}

// GetByID returns a single tag
func (s *TagService) GetByID(ctx context.Context, id uuid.UUID) (*TagResponse, error) {
	t, err := s.findTag(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToTagResponse(t)
	return &response, nil
}

// Update applies a partial update to a tag. The name conflict check
// ignores the tag itself.
func (s *TagService) Update(ctx context.Context, id uuid.UUID, req UpdateTagRequest) (*TagResponse, error) {
	t, err := s.findTag(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		existing, err := s.tagRepo.FindByName(ctx, name)
		if err == nil && existing.ID != id {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Tag with this name already exists")
		}
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	if err := t.Apply(req.Name, req.Color, req.Description); err != nil {
		return nil, err
	}

	if err := s.tagRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	response := ToTagResponse(t)
	return &response, nil
}

// Delete removes a tag and its task links
func (s *TagService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findTag(ctx, id); err != nil {
		return err
	}
	return s.tagRepo.Delete(ctx, id)
}

// ListByTask returns a task's tags ordered by name
func (s *TagService) ListByTask(ctx context.Context, taskID uuid.UUID) ([]TagResponse, error) {
	tags, err := s.tagRepo.FindTagsByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return ToTagResponses(tags), nil
}

// SetTaskTags replaces a task's tag set. Every referenced tag must
// exist.
func (s *TagService) SetTaskTags(ctx context.Context, taskID uuid.UUID, req SetTaskTagsRequest) ([]TagResponse, error) {
	for _, tagID := range req.TagIDs {
		if _, err := s.tagRepo.FindByID(ctx, tagID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Tag %s not found", tagID))
			}
			return nil, err
		}
	}

	if err := s.tagRepo.SetTaskTags(ctx, taskID, req.TagIDs); err != nil {
		return nil, err
	}

	tags, err := s.tagRepo.FindTagsByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return ToTagResponses(tags), nil
}

// AddTagToTask links a tag to a task; linking twice is a no-op
func (s *TagService) AddTagToTask(ctx context.Context, taskID, tagID uuid.UUID) error {
	if _, err := s.findTag(ctx, tagID); err != nil {
		return err
	}
	return s.tagRepo.AddTagToTask(ctx, tag.NewTaskTag(taskID, tagID))
}

// RemoveTagFromTask unlinks a tag from a task
func (s *TagService) RemoveTagFromTask(ctx context.Context, taskID, tagID uuid.UUID) error {
	return s.tagRepo.RemoveTagFromTask(ctx, taskID, tagID)
}

func (s *TagService) findTag(ctx context.Context, id uuid.UUID) (*tag.Tag, error) {
	t, err := s.tagRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Tag not found")
		}
		return nil, err
	}
	return t, nil
}

func (s *TagService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if err := s.events.Publish(ctx, events...); err != nil {
		for _, e := range events {
			s.logger.Warn("failed to publish event", zap.String("event_type", e.EventType()), zap.Error(err))
		}
	}
}
