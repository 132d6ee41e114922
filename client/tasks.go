package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prodpush/prodpush/internal/board"
	"github.com/prodpush/prodpush/internal/models"
)

// CreateTaskInput carries the fields for POST /api/tasks. Status and
// priority may be omitted; the server defaults status to TODO.
type CreateTaskInput struct {
	Title       string               `json:"title"`
	Description *string              `json:"description,omitempty"`
	ProjectID   int64                `json:"projectId"`
	AssignedTo  *string              `json:"assignedTo,omitempty"`
	Status      *models.TaskStatus   `json:"status,omitempty"`
	Priority    *models.TaskPriority `json:"priority,omitempty"`
	DueDate     *string              `json:"dueDate,omitempty"`
}

// UpdateTaskInput is a partial PATCH body. Unset fields are left alone
// by the server; explicitly-null fields are cleared.
type UpdateTaskInput struct {
	Title       models.Optional[string]              `json:"title,omitzero"`
	Description models.Optional[string]              `json:"description,omitzero"`
	ProjectID   models.Optional[int64]               `json:"projectId,omitzero"`
	AssignedTo  models.Optional[string]              `json:"assignedTo,omitzero"`
	Status      models.Optional[models.TaskStatus]   `json:"status,omitzero"`
	Priority    models.Optional[models.TaskPriority] `json:"priority,omitzero"`
	DueDate     models.Optional[string]              `json:"dueDate,omitzero"`
}

// Tasks lists tasks, served from the cache when the collection has
// been fetched and not invalidated since. Pass a projectID to narrow
// to one project.
func (c *Client) Tasks(ctx context.Context, projectID *int64) ([]models.Task, error) {
	key := tasksKey(projectID)
	if tasks, ok := cachedList[models.Task](c.cache, key); ok {
		return tasks, nil
	}

	path := "/api/tasks"
	if projectID != nil {
		path = fmt.Sprintf("/api/tasks?projectId=%d", *projectID)
	}
	tasks, err := doRequest[[]models.Task](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, tasks)
	return tasks, nil
}

// CreateTask creates a task and invalidates the cached task collections.
func (c *Client) CreateTask(ctx context.Context, input CreateTaskInput) (models.Task, error) {
	task, err := doRequest[models.Task](ctx, c, http.MethodPost, "/api/tasks", input)
	if err != nil {
		return models.Task{}, err
	}
	c.invalidateTasks()
	return task, nil
}

// UpdateTask patches a task and invalidates the cached task collections.
func (c *Client) UpdateTask(ctx context.Context, id int64, input UpdateTaskInput) (models.Task, error) {
	task, err := doRequest[models.Task](ctx, c, http.MethodPatch, fmt.Sprintf("/api/tasks/%d", id), input)
	if err != nil {
		return models.Task{}, err
	}
	c.invalidateTasks()
	return task, nil
}

// DeleteTask removes a task and invalidates the cached task collections.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	if _, err := doRequest[any](ctx, c, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil); err != nil {
		return err
	}
	c.invalidateTasks()
	return nil
}

// MoveTask is the drag-and-drop transition: it optimistically moves the
// task to the target column in the cached collection, then asks the
// server to persist the status. If the server rejects the move, the
// optimistic change is rolled back before the error is returned, so the
// board never keeps showing a move that did not happen. projectID
// selects the cached collection being viewed; from identifies the
// originating column and is UI bookkeeping only.
func (c *Client) MoveTask(ctx context.Context, projectID *int64, taskID int64, from, to models.TaskStatus) (models.Task, error) {
	key := tasksKey(projectID)
	moved := c.applyStatus(key, taskID, to)

	task, err := doRequest[models.Task](ctx, c, http.MethodPatch,
		fmt.Sprintf("/api/tasks/%d", taskID),
		UpdateTaskInput{Status: models.Some(to)})
	if err != nil {
		if moved {
			c.applyStatus(key, taskID, from)
		}
		return models.Task{}, err
	}

	c.invalidateTasks()
	return task, nil
}

// applyStatus rewrites one task's status inside a cached collection.
// Reports false when the collection or task is not cached.
func (c *Client) applyStatus(key string, taskID int64, status models.TaskStatus) bool {
	list, ok := cachedList[models.Task](c.cache, key)
	if !ok {
		return false
	}
	for i := range list {
		if list[i].ID == taskID {
			list[i].Status = status
			c.cache.put(key, list)
			return true
		}
	}
	return false
}

// Board fetches the task collection and partitions it into the fixed
// board columns.
func (c *Client) Board(ctx context.Context, projectID *int64) ([]board.Column, error) {
	tasks, err := c.Tasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return board.Columns(tasks), nil
}
