package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/prodpush/prodpush/internal/models"
)

type projectRequest struct {
	Name        models.Optional[string]               `json:"name"`
	Description models.Optional[string]               `json:"description"`
	Status      models.Optional[models.ProjectStatus] `json:"status"`
	DueDate     models.Optional[string]               `json:"dueDate"`
}

// projectDetail is the GET /projects/:id response: the project composed
// with its tasks and notes.
type projectDetail struct {
	models.Project
	Tasks []models.Task `json:"tasks"`
	Notes []models.Note `json:"notes"`
}

// ListProjects returns the projects the requester owns or is a member of.
func (h *Handler) ListProjects(c *gin.Context) {
	user := currentUser(c)

	ids, err := h.accessibleProjectIDs(c, user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	var projects []models.Project
	err = h.DB.WithContext(c.Request.Context()).
		Where("id IN ?", ids).
		Order("created_at ASC").
		Find(&projects).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	respondData(c, http.StatusOK, projects)
}

// GetProject returns one project with its tasks and notes nested.
func (h *Handler) GetProject(c *gin.Context) {
	user := currentUser(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	allowed, err := h.canAccessProject(c, user.ID, id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !allowed {
		respondError(c, http.StatusNotFound, "Project not found")
		return
	}

	var project models.Project
	if err := h.DB.WithContext(c.Request.Context()).First(&project, "id = ?", id).Error; err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	detail := projectDetail{Project: project, Tasks: []models.Task{}, Notes: []models.Note{}}
	err = h.DB.WithContext(c.Request.Context()).
		Where("project_id = ?", id).
		Order("created_at ASC").
		Find(&detail.Tasks).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	err = h.DB.WithContext(c.Request.Context()).
		Where("project_id = ?", id).
		Order("updated_at ASC").
		Find(&detail.Notes).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	respondData(c, http.StatusOK, detail)
}

// CreateProject inserts a project owned by the requester. Status
// defaults to ACTIVE.
func (h *Handler) CreateProject(c *gin.Context) {
	user := currentUser(c)

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if !req.Name.Valid || req.Name.Value == "" {
		respondError(c, http.StatusBadRequest, "name is required")
		return
	}

	status := models.ProjectActive
	if req.Status.Valid {
		if !req.Status.Value.Valid() {
			respondError(c, http.StatusBadRequest, "invalid status")
			return
		}
		status = req.Status.Value
	}

	project := models.Project{
		Name:      req.Name.Value,
		OwnerID:   user.ID,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	if req.Description.Valid {
		project.Description = &req.Description.Value
	}
	if req.DueDate.Set {
		due, ok := parseDueDate(req.DueDate)
		if !ok {
			respondError(c, http.StatusBadRequest, "invalid due date format")
			return
		}
		project.DueDate = due
	}

	if err := h.DB.WithContext(c.Request.Context()).Create(&project).Error; err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondData(c, http.StatusCreated, project)
}

// UpdateProject overwrites the supplied fields. Only the owner may
// modify a project.
func (h *Handler) UpdateProject(c *gin.Context) {
	user := currentUser(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	project, found, err := h.findOwnedProject(c, user.ID, id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		respondError(c, http.StatusNotFound, "Project not found")
		return
	}

	updates := map[string]any{}

	if req.Name.Set {
		if !req.Name.Valid || req.Name.Value == "" {
			respondError(c, http.StatusBadRequest, "name is required")
			return
		}
		updates["name"] = req.Name.Value
	}
	if req.Description.Set {
		if req.Description.Valid {
			updates["description"] = req.Description.Value
		} else {
			updates["description"] = nil
		}
	}
	if req.Status.Set {
		if !req.Status.Valid || !req.Status.Value.Valid() {
			respondError(c, http.StatusBadRequest, "invalid status")
			return
		}
		updates["status"] = req.Status.Value
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
			Model(&models.Project{}).
			Where("id = ?", project.ID).
			Updates(updates).Error
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		if err := h.DB.WithContext(c.Request.Context()).First(&project, project.ID).Error; err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
	}
	respondData(c, http.StatusOK, project)
}

// DeleteProject removes a project together with its tasks, notes and
// member rows in one transaction, so no child row is ever orphaned.
func (h *Handler) DeleteProject(c *gin.Context) {
	user := currentUser(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	project, found, err := h.findOwnedProject(c, user.ID, id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		respondError(c, http.StatusNotFound, "Project not found")
		return
	}

	err = h.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Note{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, project.ID).Error
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondData(c, http.StatusOK, nil)
}

// findOwnedProject loads a project only when the user owns it.
func (h *Handler) findOwnedProject(c *gin.Context, userID string, id int64) (models.Project, bool, error) {
	var project models.Project
	err := h.DB.WithContext(c.Request.Context()).First(&project, "id = ?", id).Error
	if err != nil {
		if isNotFound(err) {
			return project, false, nil
		}
		return project, false, err
	}
	return project, project.OwnerID == userID, nil
}
