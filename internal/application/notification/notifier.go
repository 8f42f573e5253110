package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pmo/backend/internal/domain/notification"
	"github.com/pmo/backend/internal/domain/project"
	"github.com/pmo/backend/internal/domain/shared"
	"github.com/pmo/backend/internal/domain/task"
	"github.com/pmo/backend/internal/domain/team"
)

var titleCaser = cases.Title(language.English)

// humanize renders a type name as a display title:
// "task_due_soon" becomes "Task Due Soon".
func humanize(s string) string {
	return titleCaser.String(strings.NewReplacer(".", " ", "_", " ").Replace(s))
}

// Notifier materializes notifications from domain events. The actor of
// an event is never notified about their own action.
type Notifier struct {
	service *NotificationService
}

// NewNotifier creates the event-to-notification subscriber
func NewNotifier(service *NotificationService) *Notifier {
	return &Notifier{service: service}
}

// EventTypes returns the event types the notifier consumes
func (n *Notifier) EventTypes() []string {
	return []string{
		task.EventTypeTaskCreated,
		task.EventTypeTaskAssigned,
		task.EventTypeTaskUpdated,
		task.EventTypeTaskCompleted,
		project.EventTypeProjectUpdated,
		team.EventTypeTeamMemberAdded,
	}
}

// Handle routes one event to the affected user
func (n *Notifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *task.TaskCreatedEvent:
		if e.AssigneeID == nil || *e.AssigneeID == e.ActorID {
			return nil
		}
		return n.notifyTask(ctx, *e.AssigneeID, notification.TypeTaskAssigned, e.TaskID,
			fmt.Sprintf("You have been assigned to task %q", e.Title))

	case *task.TaskAssignedEvent:
		if e.AssigneeID == e.ActorID {
			return nil
		}
		return n.notifyTask(ctx, e.AssigneeID, notification.TypeTaskAssigned, e.TaskID,
			fmt.Sprintf("You have been assigned to task %q", e.Title))

	case *task.TaskUpdatedEvent:
		if e.AssigneeID == nil || *e.AssigneeID == e.ActorID {
			return nil
		}
		return n.notifyTask(ctx, *e.AssigneeID, notification.TypeTaskUpdated, e.TaskID,
			fmt.Sprintf("Task %q was updated", e.Title))

	case *task.TaskCompletedEvent:
		if e.AssigneeID == nil || *e.AssigneeID == e.ActorID {
			return nil
		}
		return n.notifyTask(ctx, *e.AssigneeID, notification.TypeTaskCompleted, e.TaskID,
			fmt.Sprintf("Task %q was marked as done", e.Title))

	case *project.ProjectUpdatedEvent:
		if e.OwnerID == e.ActorID {
			return nil
		}
		link := "/projects/" + e.ProjectID.String()
		return n.service.Notify(ctx, e.OwnerID, notification.TypeProjectUpdated,
			humanize(notification.TypeProjectUpdated.String()),
			fmt.Sprintf("Project %q was updated", e.Name), &link)

	case *team.TeamMemberAddedEvent:
		if e.UserID == e.ActorID {
			return nil
		}
		link := "/teams/" + e.TeamID.String()
		return n.service.Notify(ctx, e.UserID, notification.TypeSystem,
			humanize(event.EventType()),
			fmt.Sprintf("You have been added to team %q", e.TeamName), &link)
	}
	return nil
}

func (n *Notifier) notifyTask(ctx context.Context, userID uuid.UUID, typ notification.NotificationType, taskID uuid.UUID, message string) error {
	link := "/tasks/" + taskID.String()
	return n.service.Notify(ctx, userID, typ, humanize(typ.String()), message, &link)
}
