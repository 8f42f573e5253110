package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskFlow_AssignmentNotifications(t *testing.T) {
	srv := NewTestServer(t)
	ownerToken, _ := srv.Register("owner@example.com", "secret123", "Owner", "")
	assigneeToken, assigneeID := srv.Register("assignee@example.com", "secret123", "Assignee", "")

	projectID := srv.CreateProject(ownerToken, "Launch Plan")
	resp := srv.Do(http.MethodPost, "/api/v1/projects/"+projectID+"/members", ownerToken, map[string]any{
		"user_id": assigneeID,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	taskID := srv.CreateTask(ownerToken, projectID, "Design Review", map[string]any{
		"assignee_id": assigneeID,
	})

	// The event bus delivers asynchronously
	srv.WaitForEvents(func() bool {
		resp := srv.Do(http.MethodGet, "/api/v1/notifications/unread-count", assigneeToken, nil)
		data := resp.DataMap()
		return resp.Code == http.StatusOK && data != nil && data["count"] == float64(1)
	})

	resp = srv.Do(http.MethodGet, "/api/v1/notifications", assigneeToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	items := resp.DataSlice(t)
	require.Len(t, items, 1)
	n := items[0].(map[string]any)
	assert.Equal(t, "task_assigned", n["type"])
	assert.Equal(t, "Task Assigned", n["title"])
	assert.Equal(t, fmt.Sprintf("You have been assigned to task %q", "Design Review"), n["message"])
	assert.Equal(t, "/tasks/"+taskID, n["link"])
	assert.Equal(t, false, n["is_read"])

	// The actor is never notified of their own action
	resp = srv.Do(http.MethodGet, "/api/v1/notifications", ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.DataSlice(t))

	// Marking one read clears the badge
	notifID := n["id"].(string)
	resp = srv.Do(http.MethodPut, "/api/v1/notifications/"+notifID+"/read", assigneeToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = srv.Do(http.MethodGet, "/api/v1/notifications/unread-count", assigneeToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, float64(0), resp.Data(t)["count"])

	// Completing the task notifies the assignee again
	resp = srv.Do(http.MethodPut, "/api/v1/tasks/"+taskID, ownerToken, map[string]any{
		"status": "done",
	})
	require.Equal(t, http.StatusOK, resp.Code, "body: %s", string(resp.Raw))

	srv.WaitForEvents(func() bool {
		resp := srv.Do(http.MethodGet, "/api/v1/notifications", assigneeToken, nil)
		if resp.Code != http.StatusOK {
			return false
		}
		for _, item := range resp.DataList() {
			if m, ok := item.(map[string]any); ok && m["type"] == "task_completed" {
				return true
			}
		}
		return false
	})

	// read-all resets the badge in one call
	resp = srv.Do(http.MethodPut, "/api/v1/notifications/read-all", assigneeToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = srv.Do(http.MethodGet, "/api/v1/notifications/unread-count", assigneeToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, float64(0), resp.Data(t)["count"])
}

func TestTaskFlow_Tags(t *testing.T) {
	srv := NewTestServer(t)
	token, _ := srv.Register("dev@example.com", "secret123", "Dev", "")
	projectID := srv.CreateProject(token, "Tagging")
	taskID := srv.CreateTask(token, projectID, "Write docs", nil)

	createTag := func(name string) string {
		resp := srv.Do(http.MethodPost, "/api/v1/tags", token, map[string]any{
			"name":  name,
			"color": "#ff0000",
		})
		require.Equal(t, http.StatusOK, resp.Code, "body: %s", string(resp.Raw))
		return resp.Data(t)["id"].(string)
	}
	urgent := createTag("urgent")
	docs := createTag("docs")
	later := createTag("later")

	t.Run("duplicate tag name conflicts", func(t *testing.T) {
		resp := srv.Do(http.MethodPost, "/api/v1/tags", token, map[string]any{"name": "urgent"})
		assert.Equal(t, http.StatusConflict, resp.Code)
		assert.Equal(t, "ALREADY_EXISTS", resp.ErrorCode())
	})

	t.Run("set replaces the whole tag list", func(t *testing.T) {
		resp := srv.Do(http.MethodPut, "/api/v1/tasks/"+taskID+"/tags", token, map[string]any{
			"tag_ids": []string{urgent, docs},
		})
		require.Equal(t, http.StatusOK, resp.Code, "body: %s", string(resp.Raw))
		assert.Len(t, resp.DataSlice(t), 2)

		resp = srv.Do(http.MethodPut, "/api/v1/tasks/"+taskID+"/tags", token, map[string]any{
			"tag_ids": []string{docs},
		})
		require.Equal(t, http.StatusOK, resp.Code)
		tags := resp.DataSlice(t)
		require.Len(t, tags, 1)
		assert.Equal(t, "docs", tags[0].(map[string]any)["name"])
	})

	t.Run("add and remove a single tag", func(t *testing.T) {
		resp := srv.Do(http.MethodPost, "/api/v1/tasks/"+taskID+"/tags/"+later, token, nil)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, later, resp.Data(t)["tag_id"])

		// Re-adding is a no-op
		resp = srv.Do(http.MethodPost, "/api/v1/tasks/"+taskID+"/tags/"+later, token, nil)
		require.Equal(t, http.StatusOK, resp.Code)

		resp = srv.Do(http.MethodGet, "/api/v1/tasks/"+taskID+"/tags", token, nil)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Len(t, resp.DataSlice(t), 2)

		resp = srv.Do(http.MethodDelete, "/api/v1/tasks/"+taskID+"/tags/"+later, token, nil)
		require.Equal(t, http.StatusOK, resp.Code)

		resp = srv.Do(http.MethodGet, "/api/v1/tasks/"+taskID+"/tags", token, nil)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Len(t, resp.DataSlice(t), 1)
	})
}

func TestTaskFlow_TimeLogs(t *testing.T) {
	srv := NewTestServer(t)
	ownerToken, _ := srv.Register("owner@example.com", "secret123", "Owner", "")
	devToken, devID := srv.Register("dev@example.com", "secret123", "Dev", "")

	projectID := srv.CreateProject(ownerToken, "Billing")
	resp := srv.Do(http.MethodPost, "/api/v1/projects/"+projectID+"/members", ownerToken, map[string]any{
		"user_id": devID,
	})
	require.Equal(t, http.StatusOK, resp.Code)
	taskID := srv.CreateTask(ownerToken, projectID, "Implement invoicing", nil)

	// Log hours as the dev
	resp = srv.Do(http.MethodPost, "/api/v1/time-logs", devToken, map[string]any{
		"task_id":     taskID,
		"hours":       2.5,
		"date":        "2026-08-20",
		"description": "API work",
	})
	require.Equal(t, http.StatusOK, resp.Code, "body: %s", string(resp.Raw))
	entry := resp.Data(t)
	logID := entry["id"].(string)
	assert.Equal(t, devID, entry["user_id"])
	assert.Equal(t, 2.5, entry["hours"])
	assert.Equal(t, "Implement invoicing", entry["task_name"])
	assert.Equal(t, "Billing", entry["project_name"])

	t.Run("bad date format", func(t *testing.T) {
		resp := srv.Do(http.MethodPost, "/api/v1/time-logs", devToken, map[string]any{
			"task_id": taskID,
			"hours":   1,
			"date":    "20/08/2026",
		})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "VALIDATION_ERROR", resp.ErrorCode())
	})

	t.Run("listings", func(t *testing.T) {
		resp := srv.Do(http.MethodGet, "/api/v1/tasks/"+taskID+"/time-logs", devToken, nil)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Len(t, resp.DataSlice(t), 1)

		resp = srv.Do(http.MethodGet, "/api/v1/time-logs", devToken, nil)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Len(t, resp.DataSlice(t), 1)

		resp = srv.Do(http.MethodGet, "/api/v1/users/"+devID+"/time-logs", ownerToken, nil)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Len(t, resp.DataSlice(t), 1)

		// The window filter excludes entries outside the range
		resp = srv.Do(http.MethodGet, "/api/v1/time-logs?start_date=2026-08-21&end_date=2026-08-31", devToken, nil)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Empty(t, resp.DataSlice(t))
	})

	t.Run("only the author mutates", func(t *testing.T) {
		resp := srv.Do(http.MethodPut, "/api/v1/time-logs/"+logID, ownerToken, map[string]any{
			"hours": 8,
		})
		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.Equal(t, "FORBIDDEN", resp.ErrorCode())

		resp = srv.Do(http.MethodDelete, "/api/v1/time-logs/"+logID, ownerToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.Code)

		resp = srv.Do(http.MethodPut, "/api/v1/time-logs/"+logID, devToken, map[string]any{
			"hours": 3.0,
		})
		require.Equal(t, http.StatusOK, resp.Code, "body: %s", string(resp.Raw))
		assert.Equal(t, 3.0, resp.Data(t)["hours"])

		resp = srv.Do(http.MethodDelete, "/api/v1/time-logs/"+logID, devToken, nil)
		require.Equal(t, http.StatusOK, resp.Code)

		resp = srv.Do(http.MethodGet, "/api/v1/time-logs/"+logID, devToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Equal(t, "NOT_FOUND", resp.ErrorCode())
	})
}

func TestTaskFlow_Attachments(t *testing.T) {
	srv := NewTestServer(t)
	token, _ := srv.Register("uploader@example.com", "secret123", "Uploader", "")
	projectID := srv.CreateProject(token, "Docs")
	taskID := srv.CreateTask(token, projectID, "Collect specs", nil)

	content := []byte("meeting notes\nline two\n")
	resp := srv.Upload("/api/v1/tasks/"+taskID+"/attachments", token, "notes.txt", content)
	require.Equal(t, http.StatusOK, resp.Code, "body: %s", string(resp.Raw))
	meta := resp.Data(t)
	attachmentID := meta["id"].(string)
	assert.Equal(t, "notes.txt", meta["original_filename"])
	assert.Equal(t, float64(len(content)), meta["size_bytes"])
	// Stored under a generated name, so colliding uploads cannot clobber
	// each other
	assert.NotEqual(t, "notes.txt", meta["filename"])

	t.Run("disallowed extension", func(t *testing.T) {
		resp := srv.Upload("/api/v1/tasks/"+taskID+"/attachments", token, "payload.exe", []byte{0x4d, 0x5a})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "VALIDATION_ERROR", resp.ErrorCode())
	})

	t.Run("unknown task", func(t *testing.T) {
		resp := srv.Upload("/api/v1/tasks/"+uuid.New().String()+"/attachments", token, "notes.txt", content)
		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Equal(t, "NOT_FOUND", resp.ErrorCode())
	})

	t.Run("list and download round-trip", func(t *testing.T) {
		resp := srv.Do(http.MethodGet, "/api/v1/tasks/"+taskID+"/attachments", token, nil)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Len(t, resp.DataSlice(t), 1)

		resp = srv.Do(http.MethodGet, "/api/v1/attachments/"+attachmentID, token, nil)
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, content, resp.Raw)
	})

	t.Run("delete removes content", func(t *testing.T) {
		resp := srv.Do(http.MethodDelete, "/api/v1/attachments/"+attachmentID, token, nil)
		require.Equal(t, http.StatusOK, resp.Code)

		resp = srv.Do(http.MethodGet, "/api/v1/attachments/"+attachmentID, token, nil)
		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Equal(t, "NOT_FOUND", resp.ErrorCode())
	})
}

func TestTaskFlow_DeleteCascades(t *testing.T) {
	srv := NewTestServer(t)
	token, _ := srv.Register("owner@example.com", "secret123", "Owner", "")
	projectID := srv.CreateProject(token, "Cleanup")
	taskID := srv.CreateTask(token, projectID, "Temporary", nil)

	// Hang a tag link, a time log and an attachment off the task
	resp := srv.Do(http.MethodPost, "/api/v1/tags", token, map[string]any{"name": "tmp"})
	require.Equal(t, http.StatusOK, resp.Code)
	tagID := resp.Data(t)["id"].(string)
	resp = srv.Do(http.MethodPost, "/api/v1/tasks/"+taskID+"/tags/"+tagID, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = srv.Do(http.MethodPost, "/api/v1/time-logs", token, map[string]any{
		"task_id": taskID,
		"hours":   1,
		"date":    "2026-08-24",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = srv.Upload("/api/v1/tasks/"+taskID+"/attachments", token, "scratch.txt", []byte("x"))
	require.Equal(t, http.StatusOK, resp.Code)
	attachmentID := resp.Data(t)["id"].(string)

	// Deleting the task takes its children with it
	resp = srv.Do(http.MethodDelete, "/api/v1/tasks/"+taskID, token, nil)
	require.Equal(t, http.StatusOK, resp.Code, "body: %s", string(resp.Raw))

	resp = srv.Do(http.MethodGet, "/api/v1/tasks/"+taskID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = srv.Do(http.MethodGet, "/api/v1/attachments/"+attachmentID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = srv.Do(http.MethodGet, "/api/v1/time-logs", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.DataSlice(t))

	// The tag itself survives, only the link is gone
	resp = srv.Do(http.MethodGet, "/api/v1/tags/"+tagID, token, nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestTaskFlow_ActivityFeed(t *testing.T) {
	srv := NewTestServer(t)
	token, userID := srv.Register("owner@example.com", "secret123", "Owner", "")
	projectID := srv.CreateProject(token, "Audit Trail")
	srv.CreateTask(token, projectID, "First task", nil)

	actions := func() []string {
		resp := srv.Do(http.MethodGet, "/api/v1/activities?limit=50", token, nil)
		if resp.Code != http.StatusOK {
			return nil
		}
		out := make([]string, 0)
		for _, item := range resp.DataList() {
			if m, ok := item.(map[string]any); ok {
				if action, ok := m["action"].(string); ok {
					out = append(out, action)
				}
			}
		}
		return out
	}

	srv.WaitForEvents(func() bool {
		got := actions()
		return contains(got, "project.created") && contains(got, "task.created")
	})

	// Rows carry the acting user and project context
	resp := srv.Do(http.MethodGet, "/api/v1/activities?project_id="+projectID, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	rows := resp.DataSlice(t)
	require.NotEmpty(t, rows)
	row := rows[0].(map[string]any)
	assert.Equal(t, userID, row["user_id"])
	assert.Equal(t, projectID, row["project_id"])
	assert.Equal(t, "Audit Trail", row["project_name"])
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
