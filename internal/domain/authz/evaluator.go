// Package authz decides ALLOW or DENY for a (principal, resource,
// operation) triple. All role and ownership rules live in this one
// place; handlers and services never test roles themselves.
//
// The contract, per resource:
//
//	Project       read: owner|member   update/delete/members: owner
//	Task          read/update: project access   delete: project owner
//	Team          read: lead|member    update/delete/members: lead
//	Notification  owner only, admins included
//
// Admins bypass every rule except notification ownership. Existence is
// established before access: a missing resource yields NOT_FOUND, an
// existing but inaccessible one yields FORBIDDEN, never the reverse.
package authz

import (
	"context"

	"github.com/google/uuid"

	"github.com/pmo/backend/internal/domain/notification"
	"github.com/pmo/backend/internal/domain/shared"
)

// Resource identifies the kind of entity a decision is about
type Resource string

const (
	ResourceProject Resource = "project"
	ResourceTask    Resource = "task"
	ResourceTeam    Resource = "team"
)

// Operation identifies what the principal wants to do
type Operation string

const (
	OpRead         Operation = "read"
	OpUpdate       Operation = "update"
	OpDelete       Operation = "delete"
	OpAddMember    Operation = "add_member"
	OpRemoveMember Operation = "remove_member"
)

// ProjectGuard exposes the project predicates the evaluator consumes
type ProjectGuard interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	CanUserAccess(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
	IsOwner(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
}

// TaskGuard exposes the task predicates the evaluator consumes
type TaskGuard interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	CanUserAccess(ctx context.Context, taskID, userID uuid.UUID) (bool, error)
	IsProjectOwner(ctx context.Context, taskID, userID uuid.UUID) (bool, error)
}

// TeamGuard exposes the team predicates the evaluator consumes
type TeamGuard interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	CanUserAccess(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	IsLead(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
}

type ruleKey struct {
	resource  Resource
	operation Operation
}

// rule binds one (resource, operation) pair to its access predicate
// and the message returned when the predicate denies.
type rule struct {
	predicate func(ctx context.Context, e *Evaluator, p Principal, id uuid.UUID) (bool, error)
	denied    string
}

func projectAccess(ctx context.Context, e *Evaluator, p Principal, id uuid.UUID) (bool, error) {
	return e.projects.CanUserAccess(ctx, id, p.ID)
}

func projectOwner(ctx context.Context, e *Evaluator, p Principal, id uuid.UUID) (bool, error) {
	return e.projects.IsOwner(ctx, id, p.ID)
}

func taskAccess(ctx context.Context, e *Evaluator, p Principal, id uuid.UUID) (bool, error) {
	return e.tasks.CanUserAccess(ctx, id, p.ID)
}

func taskProjectOwner(ctx context.Context, e *Evaluator, p Principal, id uuid.UUID) (bool, error) {
	return e.tasks.IsProjectOwner(ctx, id, p.ID)
}

func teamAccess(ctx context.Context, e *Evaluator, p Principal, id uuid.UUID) (bool, error) {
	return e.teams.CanUserAccess(ctx, id, p.ID)
}

func teamLead(ctx context.Context, e *Evaluator, p Principal, id uuid.UUID) (bool, error) {
	return e.teams.IsLead(ctx, id, p.ID)
}

var accessRules = map[ruleKey]rule{
	{ResourceProject, OpRead}:         {projectAccess, "You don't have access to this project"},
	{ResourceProject, OpUpdate}:       {projectOwner, "Only project owner can update this project"},
	{ResourceProject, OpDelete}:       {projectOwner, "Only project owner can delete this project"},
	{ResourceProject, OpAddMember}:    {projectOwner, "Only project owner can add members"},
	{ResourceProject, OpRemoveMember}: {projectOwner, "Only project owner can remove members"},
	{ResourceTask, OpRead}:            {taskAccess, "You don't have access to this task"},
	{ResourceTask, OpUpdate}:          {taskAccess, "You don't have access to this task"},
	{ResourceTask, OpDelete}:          {taskProjectOwner, "Only project owner can delete tasks"},
	{ResourceTeam, OpRead}:            {teamAccess, "You don't have access to this team"},
	{ResourceTeam, OpUpdate}:          {teamLead, "Only team lead can update this team"},
	{ResourceTeam, OpDelete}:          {teamLead, "Only team lead can delete this team"},
	{ResourceTeam, OpAddMember}:       {teamLead, "Only team lead can add members"},
}

var notFoundMessages = map[Resource]string{
	ResourceProject: "Project not found",
	ResourceTask:    "Task not found",
	ResourceTeam:    "Team not found",
}

// Evaluator is the authorization decision point
type Evaluator struct {
	projects ProjectGuard
	tasks    TaskGuard
	teams    TeamGuard
}

// NewEvaluator creates an evaluator backed by the given predicate
// sources, normally the gorm repositories
func NewEvaluator(projects ProjectGuard, tasks TaskGuard, teams TeamGuard) *Evaluator {
	return &Evaluator{
		projects: projects,
		tasks:    tasks,
		teams:    teams,
	}
}

// Evaluate decides whether the principal may perform the operation on
// the identified resource. It returns nil on ALLOW, a NOT_FOUND error
// when the resource does not exist, and a FORBIDDEN error with the
// operation-specific message on DENY.
func (e *Evaluator) Evaluate(ctx context.Context, p Principal, res Resource, op Operation, id uuid.UUID) error {
	exists, err := e.exists(ctx, res, id)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewDomainError("NOT_FOUND", notFoundMessages[res])
	}

	r, ok := accessRules[ruleKey{res, op}]
	if !ok {
		// No rule means a caller bug, not a denial
		return shared.ErrInternal
	}

	if p.IsAdmin() {
		return nil
	}

	allowed, err := r.predicate(ctx, e, p, id)
	if err != nil {
		return err
	}
	if !allowed {
		return shared.NewDomainError("FORBIDDEN", r.denied)
	}
	return nil
}

// CanCreateTask decides whether the principal may create a task in the
// given project. Creation requires access to the target project.
func (e *Evaluator) CanCreateTask(ctx context.Context, p Principal, projectID uuid.UUID) error {
	return e.Evaluate(ctx, p, ResourceProject, OpRead, projectID)
}

// CanModifyNotification enforces strict notification ownership. Admins
// get no bypass here.
func (e *Evaluator) CanModifyNotification(p Principal, n *notification.Notification) error {
	if !n.IsOwnedBy(p.ID) {
		return shared.NewDomainError("FORBIDDEN", "Not authorized to modify this notification")
	}
	return nil
}

// CanDeleteNotification enforces strict notification ownership for
// deletion
func (e *Evaluator) CanDeleteNotification(p Principal, n *notification.Notification) error {
	if !n.IsOwnedBy(p.ID) {
		return shared.NewDomainError("FORBIDDEN", "Not authorized to delete this notification")
	}
	return nil
}

func (e *Evaluator) exists(ctx context.Context, res Resource, id uuid.UUID) (bool, error) {
	switch res {
	case ResourceProject:
		return e.projects.Exists(ctx, id)
	case ResourceTask:
		return e.tasks.Exists(ctx, id)
	case ResourceTeam:
		return e.teams.Exists(ctx, id)
	}
	return false, shared.ErrInternal
}
