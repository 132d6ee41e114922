package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/prodpush/prodpush/internal/auth"
	"github.com/prodpush/prodpush/internal/models"
)

const userContextKey = "user"

// RequireUser resolves the session cookie to a user row and aborts with
// 401 when no valid session exists.
func (h *Handler) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.SessionCookie)
		if err != nil || token == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized")
			c.Abort()
			return
		}

		userID, err := h.Sessions.Get(c.Request.Context(), token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "unauthorized")
			c.Abort()
			return
		}

		var user models.User
		if err := h.DB.WithContext(c.Request.Context()).First(&user, "id = ?", userID).Error; err != nil {
			respondError(c, http.StatusUnauthorized, "unauthorized")
			c.Abort()
			return
		}

		c.Set(userContextKey, &user)
		c.Next()
	}
}

// currentUser returns the user attached by RequireUser.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// canAccessProject reports whether the user owns the project or holds a
// membership row for it. A missing project is simply "no access"; the
// caller reports not-found either way so row existence never leaks.
func (h *Handler) canAccessProject(c *gin.Context, userID string, projectID int64) (bool, error) {
	var project models.Project
	err := h.DB.WithContext(c.Request.Context()).
		Select("id", "owner_id").
		First(&project, "id = ?", projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if project.OwnerID == userID {
		return true, nil
	}

	var count int64
	err = h.DB.WithContext(c.Request.Context()).
		Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// accessibleProjectIDs lists every project the user owns or is a member of.
func (h *Handler) accessibleProjectIDs(c *gin.Context, userID string) ([]int64, error) {
	var owned []int64
	err := h.DB.WithContext(c.Request.Context()).
		Model(&models.Project{}).
		Where("owner_id = ?", userID).
		Pluck("id", &owned).Error
	if err != nil {
		return nil, err
	}

	var member []int64
	err = h.DB.WithContext(c.Request.Context()).
		Model(&models.ProjectMember{}).
		Where("user_id = ?", userID).
		Pluck("project_id", &member).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(owned)+len(member))
	ids := make([]int64, 0, len(owned)+len(member))
	for _, id := range append(owned, member...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
