package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prodpush/prodpush/internal/models"
)

// taskRequest is the body for both POST and PATCH. Every field is
// Optional so PATCH can tell "absent" from "null" from "present".
type taskRequest struct {
	Title       models.Optional[string]              `json:"title"`
	Description models.Optional[string]              `json:"description"`
	ProjectID   models.Optional[int64]               `json:"projectId"`
	AssignedTo  models.Optional[string]              `json:"assignedTo"`
	Status      models.Optional[models.TaskStatus]   `json:"status"`
	Priority    models.Optional[models.TaskPriority] `json:"priority"`
	DueDate     models.Optional[string]              `json:"dueDate"`
}

// parseDueDate accepts RFC3339 timestamps; "null" clears the date.
func parseDueDate(o models.Optional[string]) (*time.Time, bool) {
	if !o.Valid {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, o.Value)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// ListTasks returns tasks the requester can see, optionally narrowed to
// one project, in creation order.
func (h *Handler) ListTasks(c *gin.Context) {
	user := currentUser(c)

	query := h.DB.WithContext(c.Request.Context()).Order("created_at ASC")

	if raw, ok := c.GetQuery("projectId"); ok {
		projectID, err := parseInt64(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid projectId")
			return
		}
		allowed, err := h.canAccessProject(c, user.ID, projectID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		if !allowed {
			respondError(c, http.StatusNotFound, "Project not found")
			return
		}
		query = query.Where("project_id = ?", projectID)
	} else {
		ids, err := h.accessibleProjectIDs(c, user.ID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		query = query.Where("project_id IN ?", ids)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	respondData(c, http.StatusOK, tasks)
}

// CreateTask inserts a task into a project. Status defaults to TODO
// when the request omits it.
func (h *Handler) CreateTask(c *gin.Context) {
	user := currentUser(c)

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if !req.Title.Valid || req.Title.Value == "" {
		respondError(c, http.StatusBadRequest, "title is required")
		return
	}
	if !req.ProjectID.Valid {
		respondError(c, http.StatusBadRequest, "projectId is required")
		return
	}

	allowed, err := h.canAccessProject(c, user.ID, req.ProjectID.Value)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !allowed {
		respondError(c, http.StatusNotFound, "Project not found")
		return
	}

	status := models.StatusTodo
	if req.Status.Valid {
		if !req.Status.Value.Valid() {
			respondError(c, http.StatusBadRequest, "invalid status")
			return
		}
		status = req.Status.Value
	}

	task := models.Task{
		Title:     req.Title.Value,
		ProjectID: req.ProjectID.Value,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	if req.Description.Valid {
		task.Description = &req.Description.Value
	}
	if req.AssignedTo.Valid {
		task.AssignedTo = &req.AssignedTo.Value
	}
	if req.Priority.Valid {
		if !req.Priority.Value.Valid() {
			respondError(c, http.StatusBadRequest, "invalid priority")
			return
		}
		task.Priority = &req.Priority.Value
	}
	if req.DueDate.Set {
		due, ok := parseDueDate(req.DueDate)
		if !ok {
			respondError(c, http.StatusBadRequest, "invalid due date format")
			return
		}
		task.DueDate = due
	}

	if err := h.DB.WithContext(c.Request.Context()).Create(&task).Error; err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondData(c, http.StatusCreated, task)
}

// UpdateTask overwrites only the supplied fields. A status change is
// the board's transition operation: any status may move to any other,
// and re-sending the current status is a no-op.
func (h *Handler) UpdateTask(c *gin.Context) {
	user := currentUser(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	task, found, err := h.findTask(c, user.ID, id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		respondError(c, http.StatusNotFound, "Task not found")
		return
	}

	updates := map[string]any{}

	if req.Title.Set {
		if !req.Title.Valid || req.Title.Value == "" {
			respondError(c, http.StatusBadRequest, "title is required")
			return
		}
		updates["title"] = req.Title.Value
	}
	if req.Description.Set {
		if req.Description.Valid {
			updates["description"] = req.Description.Value
		} else {
			updates["description"] = nil
		}
	}
	if req.ProjectID.Set {
		if !req.ProjectID.Valid {
			respondError(c, http.StatusBadRequest, "projectId is required")
			return
		}
		allowed, err := h.canAccessProject(c, user.ID, req.ProjectID.Value)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		if !allowed {
			respondError(c, http.StatusNotFound, "Project not found")
			return
		}
		updates["project_id"] = req.ProjectID.Value
	}
	if req.AssignedTo.Set {
		if req.AssignedTo.Valid {
			updates["assigned_to"] = req.AssignedTo.Value
		} else {
			updates["assigned_to"] = nil
		}
	}
	if req.Status.Set {
		if !req.Status.Valid || !req.Status.Value.Valid() {
			respondError(c, http.StatusBadRequest, "invalid status")
			return
		}
		updates["status"] = req.Status.Value
	}
	if req.Priority.Set {
		if req.Priority.Valid {
			if !req.Priority.Value.Valid() {
				respondError(c, http.StatusBadRequest, "invalid priority")
				return
			}
			updates["priority"] = req.Priority.Value
		} else {
			updates["priority"] = nil
		}
	}
	if req.DueDate.Set {
		due, ok := parseDueDate(req.DueDate)
		if !ok {
			respondError(c, http.StatusBadRequest, "invalid due date format")
			return
		}
		updates["due_date"] = due
	}

	if len(updates) > 0 {
		err := h.DB.WithContext(c.Request.Context()).
			Model(&models.Task{}).
			Where("id = ?", task.ID).
			Updates(updates).Error
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		if err := h.DB.WithContext(c.Request.Context()).First(&task, task.ID).Error; err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
	}
	respondData(c, http.StatusOK, task)
}

// DeleteTask removes a single task.
func (h *Handler) DeleteTask(c *gin.Context) {
	user := currentUser(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, found, err := h.findTask(c, user.ID, id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		respondError(c, http.StatusNotFound, "Task not found")
		return
	}

	if err := h.DB.WithContext(c.Request.Context()).Delete(&models.Task{}, task.ID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondData(c, http.StatusOK, nil)
}

// findTask loads a task the user is allowed to touch. Tasks in foreign
// projects are reported as missing.
func (h *Handler) findTask(c *gin.Context, userID string, id int64) (models.Task, bool, error) {
	var task models.Task
	err := h.DB.WithContext(c.Request.Context()).First(&task, "id = ?", id).Error
	if err != nil {
		if isNotFound(err) {
			return task, false, nil
		}
		return task, false, err
	}
	allowed, err := h.canAccessProject(c, userID, task.ProjectID)
	if err != nil {
		return task, false, err
	}
	return task, allowed, nil
}
