package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/prodpush/prodpush/internal/auth"
	"github.com/prodpush/prodpush/internal/models"
)

// stateCookie holds the OAuth state parameter between the redirect to
// the provider and the callback.
const stateCookie = "pp_oauth_state"

const stateTTL = 10 * time.Minute

// LoginHandler redirects the browser to the identity provider's login page.
func (h *Handler) LoginHandler(c *gin.Context) {
	state := uuid.NewString()
	c.SetCookie(stateCookie, state, int(stateTTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.Identity.LoginURL(state))
}

// RegisterHandler redirects to the provider's sign-up page instead.
func (h *Handler) RegisterHandler(c *gin.Context) {
	state := uuid.NewString()
	c.SetCookie(stateCookie, state, int(stateTTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.Identity.RegisterURL(state))
}

// CallbackHandler completes the authorization-code flow: it verifies
// the state parameter, exchanges the code, upserts the user row from
// the returned profile and opens a session. Failures bounce the browser
// back to the frontend with an error query parameter, never a bare 500.
func (h *Handler) CallbackHandler(c *gin.Context) {
	state, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		zap.L().Warn("OAuth callback with missing or mismatched state")
		c.Redirect(http.StatusTemporaryRedirect, h.FrontendURL+"/?error=auth_failed")
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusTemporaryRedirect, h.FrontendURL+"/?error=auth_failed")
		return
	}

	profile, err := h.Identity.Exchange(c.Request.Context(), code)
	if err != nil {
		zap.L().Error("Failed to exchange authorization code", zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, h.FrontendURL+"/?error=processing_failed")
		return
	}

	user := userFromProfile(profile)
	err = h.DB.WithContext(c.Request.Context()).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "email", "picture", "given_name", "family_name",
				"email_verified", "updated_at",
			}),
		}).
		Create(&user).Error
	if err != nil {
		zap.L().Error("Failed to upsert user", zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, h.FrontendURL+"/?error=processing_failed")
		return
	}

	token, err := h.Sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		zap.L().Error("Failed to create session", zap.Error(err))
		c.Redirect(http.StatusTemporaryRedirect, h.FrontendURL+"/?error=processing_failed")
		return
	}

	c.SetCookie(auth.SessionCookie, token, int(auth.DefaultSessionTTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.FrontendURL)
}

// LogoutHandler destroys the session and sends the browser through the
// provider's logout endpoint.
func (h *Handler) LogoutHandler(c *gin.Context) {
	if token, err := c.Cookie(auth.SessionCookie); err == nil && token != "" {
		if err := h.Sessions.Delete(c.Request.Context(), token); err != nil {
			zap.L().Error("Failed to delete session", zap.Error(err))
		}
	}
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.Identity.LogoutURL(h.FrontendURL))
}

// MeHandler reports the session user. Unlike the resource endpoints it
// answers 401 with an explicit isAuthenticated flag instead of the
// envelope, matching what the frontend's auth hook expects.
func (h *Handler) MeHandler(c *gin.Context) {
	token, err := c.Cookie(auth.SessionCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"user": nil, "isAuthenticated": false})
		return
	}

	userID, err := h.Sessions.Get(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"user": nil, "isAuthenticated": false})
		return
	}

	var user models.User
	if err := h.DB.WithContext(c.Request.Context()).First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"user": nil, "isAuthenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "isAuthenticated": true})
}

// userFromProfile maps the provider profile onto a user row. The
// display name falls back to the email when the provider sends no name
// parts.
func userFromProfile(p *auth.Profile) models.User {
	name := p.Name
	if name == "" {
		parts := make([]string, 0, 2)
		if p.GivenName != "" {
			parts = append(parts, p.GivenName)
		}
		if p.FamilyName != "" {
			parts = append(parts, p.FamilyName)
		}
		name = strings.Join(parts, " ")
	}
	if name == "" {
		name = p.Email
	}

	user := models.User{
		ID:            p.Sub,
		Sub:           p.Sub,
		Name:          name,
		Email:         p.Email,
		EmailVerified: p.EmailVerified,
		UpdatedAt:     time.Now().UTC(),
	}
	if p.Picture != "" {
		user.Picture = &p.Picture
	}
	if p.GivenName != "" {
		user.GivenName = &p.GivenName
	}
	if p.FamilyName != "" {
		user.FamilyName = &p.FamilyName
	}
	return user
}
