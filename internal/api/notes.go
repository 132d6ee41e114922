package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prodpush/prodpush/internal/models"
)

type noteRequest struct {
	Title     models.Optional[string] `json:"title"`
	Content   models.Optional[string] `json:"content"`
	ProjectID models.Optional[int64]  `json:"projectId"`
}

// ListNotes returns notes the requester can see, optionally narrowed to
// one project, oldest edit first.
func (h *Handler) ListNotes(c *gin.Context) {
	user := currentUser(c)

	query := h.DB.WithContext(c.Request.Context()).Order("updated_at ASC")

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

	var notes []models.Note
	if err := query.Find(&notes).Error; err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}
	respondData(c, http.StatusOK, notes)
}

// GetNote returns a single note.
func (h *Handler) GetNote(c *gin.Context) {
	user := currentUser(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	note, found, err := h.findNote(c, user.ID, id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		respondError(c, http.StatusNotFound, "Note not found")
		return
	}
	respondData(c, http.StatusOK, note)
}

// CreateNote attaches a note to a project, authored by the requester.
func (h *Handler) CreateNote(c *gin.Context) {
	user := currentUser(c)

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if !req.Title.Valid || req.Title.Value == "" {
		respondError(c, http.StatusBadRequest, "title is required")
		return
	}
	if !req.Content.Valid || req.Content.Value == "" {
		respondError(c, http.StatusBadRequest, "content is required")
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

	now := time.Now().UTC()
	note := models.Note{
		Title:     req.Title.Value,
		Content:   req.Content.Value,
		ProjectID: req.ProjectID.Value,
		UserID:    user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.DB.WithContext(c.Request.Context()).Create(&note).Error; err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondData(c, http.StatusCreated, note)
}

// UpdateNote overwrites only the supplied fields.
func (h *Handler) UpdateNote(c *gin.Context) {
	user := currentUser(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	note, found, err := h.findNote(c, user.ID, id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		respondError(c, http.StatusNotFound, "Note not found")
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
	if req.Content.Set {
		if !req.Content.Valid || req.Content.Value == "" {
			respondError(c, http.StatusBadRequest, "content is required")
			return
		}
		updates["content"] = req.Content.Value
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		err := h.DB.WithContext(c.Request.Context()).
			Model(&models.Note{}).
			Where("id = ?", note.ID).
			Updates(updates).Error
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		if err := h.DB.WithContext(c.Request.Context()).First(&note, note.ID).Error; err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
	}
	respondData(c, http.StatusOK, note)
}

// DeleteNote removes a single note.
func (h *Handler) DeleteNote(c *gin.Context) {
	user := currentUser(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	note, found, err := h.findNote(c, user.ID, id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		respondError(c, http.StatusNotFound, "Note not found")
		return
	}

	if err := h.DB.WithContext(c.Request.Context()).Delete(&models.Note{}, note.ID).Error; err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondData(c, http.StatusOK, nil)
}

// findNote loads a note the user is allowed to touch via its project.
func (h *Handler) findNote(c *gin.Context, userID string, id int64) (models.Note, bool, error) {
	var note models.Note
	err := h.DB.WithContext(c.Request.Context()).First(&note, "id = ?", id).Error
	if err != nil {
		if isNotFound(err) {
			return note, false, nil
		}
		return note, false, err
	}
	allowed, err := h.canAccessProject(c, userID, note.ProjectID)
	if err != nil {
		return note, false, err
	}
	return note, allowed, nil
}
