package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prodpush/prodpush/internal/models"
)

// CreateProjectInput carries the fields for POST /api/projects. The
// owner is always the session user; it is not part of the body.
type CreateProjectInput struct {
	Name        string                `json:"name"`
	Description *string               `json:"description,omitempty"`
	Status      *models.ProjectStatus `json:"status,omitempty"`
	DueDate     *string               `json:"dueDate,omitempty"`
}

// UpdateProjectInput is a partial PATCH body for a project.
type UpdateProjectInput struct {
	Name        models.Optional[string]               `json:"name,omitzero"`
	Description models.Optional[string]               `json:"description,omitzero"`
	Status      models.Optional[models.ProjectStatus] `json:"status,omitzero"`
	DueDate     models.Optional[string]               `json:"dueDate,omitzero"`
}

// ProjectDetail is the GET /api/projects/:id payload: the project with
// its tasks and notes nested.
type ProjectDetail struct {
	models.Project
	Tasks []models.Task `json:"tasks"`
	Notes []models.Note `json:"notes"`
}

// Projects lists the caller's projects, cache-first.
func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	if projects, ok := cachedList[models.Project](c.cache, projectsKey); ok {
		return projects, nil
	}

	projects, err := doRequest[[]models.Project](ctx, c, http.MethodGet, "/api/projects", nil)
	if err != nil {
		return nil, err
	}
	c.cache.put(projectsKey, projects)
	return projects, nil
}

// Project fetches one project with nested tasks and notes. Detail
// reads are not cached; the composed payload goes stale too easily.
func (c *Client) Project(ctx context.Context, id int64) (ProjectDetail, error) {
	return doRequest[ProjectDetail](ctx, c, http.MethodGet, fmt.Sprintf("/api/projects/%d", id), nil)
}

// CreateProject creates a project and invalidates the cached list.
func (c *Client) CreateProject(ctx context.Context, input CreateProjectInput) (models.Project, error) {
	project, err := doRequest[models.Project](ctx, c, http.MethodPost, "/api/projects", input)
	if err != nil {
		return models.Project{}, err
	}
	c.cache.Invalidate(projectsKey)
	return project, nil
}

// UpdateProject patches a project and invalidates the cached list.
func (c *Client) UpdateProject(ctx context.Context, id int64, input UpdateProjectInput) (models.Project, error) {
	project, err := doRequest[models.Project](ctx, c, http.MethodPatch, fmt.Sprintf("/api/projects/%d", id), input)
	if err != nil {
		return models.Project{}, err
	}
	c.cache.Invalidate(projectsKey)
	return project, nil
}

// DeleteProject removes a project. The server cascades to the
// project's tasks and notes, so those collections are invalidated too.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	if _, err := doRequest[any](ctx, c, http.MethodDelete, fmt.Sprintf("/api/projects/%d", id), nil); err != nil {
		return err
	}
	c.cache.Invalidate(projectsKey)
	c.invalidateTasks()
	c.invalidateNotes()
	return nil
}
