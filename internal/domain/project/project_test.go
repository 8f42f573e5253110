package project

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProject(t *testing.T) {
	ownerID := uuid.New()

	t.Run("defaults to planning and medium", func(t *testing.T) {
		p, err := NewProject("Website Redesign", ownerID)
		require.NoError(t, err)
		assert.Equal(t, StatusPlanning, p.Status)
		assert.Equal(t, PriorityMedium, p.Priority)
		assert.Equal(t, ownerID, p.OwnerID)
		assert.Nil(t, p.Description)
		assert.Nil(t, p.Budget)
	})

	t.Run("applies options", func(t *testing.T) {
		start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 6, 0)
		budget := decimal.NewFromInt(150000)

		p, err := NewProject("Data Platform", ownerID,
			WithDescription("ETL rebuild"),
			WithStatus(StatusActive),
			WithPriority(PriorityHigh),
			WithStartDate(start),
			WithEndDate(end),
			WithBudget(budget),
		)
		require.NoError(t, err)
		require.NotNil(t, p.Description)
		assert.Equal(t, "ETL rebuild", *p.Description)
		assert.Equal(t, StatusActive, p.Status)
		assert.Equal(t, PriorityHigh, p.Priority)
		assert.True(t, p.StartDate.Equal(start))
		assert.True(t, p.EndDate.Equal(end))
		assert.True(t, p.Budget.Equal(budget))
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := NewProject("  ", ownerID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Project name cannot be empty")
	})
}

func TestParseProjectStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    ProjectStatus
		wantErr bool
	}{
		{input: "planning", want: StatusPlanning},
		{input: "active", want: StatusActive},
		{input: "onhold", want: StatusOnHold},
		{input: "completed", want: StatusCompleted},
		{input: "cancelled", want: StatusCancelled},
		{input: "", want: StatusPlanning},
		{input: "ACTIVE", want: StatusActive},
		{input: "archived", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProjectStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input   string
		want    Priority
		wantErr bool
	}{
		{input: "low", want: PriorityLow},
		{input: "medium", want: PriorityMedium},
		{input: "high", want: PriorityHigh},
		{input: "critical", want: PriorityCritical},
		{input: "", want: PriorityMedium},
		{input: "urgent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePriority(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProjectRename(t *testing.T) {
	p, err := NewProject("Old Name", uuid.New())
	require.NoError(t, err)

	require.NoError(t, p.Rename("New Name"))
	assert.Equal(t, "New Name", p.Name)

	err = p.Rename("   ")
	require.Error(t, err)
	assert.Equal(t, "New Name", p.Name)
}

func TestProjectIsOwnedBy(t *testing.T) {
	owner := uuid.New()
	p, err := NewProject("Website", owner)
	require.NoError(t, err)

	assert.True(t, p.IsOwnedBy(owner))
	assert.False(t, p.IsOwnedBy(uuid.New()))
}

func TestNewMilestone(t *testing.T) {
	projectID := uuid.New()

	m, err := NewMilestone(projectID, "Beta release")
	require.NoError(t, err)
	assert.Equal(t, projectID, m.ProjectID)
	assert.False(t, m.Completed)

	m.Complete()
	assert.True(t, m.Completed)

	_, err = NewMilestone(projectID, " ")
	require.Error(t, err)
}

func TestNewProjectMember(t *testing.T) {
	projectID, userID := uuid.New(), uuid.New()

	m := NewProjectMember(projectID, userID)
	assert.Equal(t, projectID, m.ProjectID)
	assert.Equal(t, userID, m.UserID)
	assert.NotZero(t, m.ID)
	assert.False(t, m.CreatedAt.IsZero())
}
