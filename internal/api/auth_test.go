package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodpush/prodpush/internal/auth"
	"github.com/prodpush/prodpush/internal/models"
)

type meResponse struct {
	User            *models.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

func TestMe_WithoutSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodGet, "/api/auth/me", nil, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp meResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.User)
	assert.False(t, resp.IsAuthenticated)
}

func TestMe_WithSession(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("u1")
	cookie := env.login(user.ID)

	rec := env.request(http.MethodGet, "/api/auth/me", nil, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp meResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.True(t, resp.IsAuthenticated)
}

func TestMe_StaleTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("u1")
	cookie := env.login(user.ID)

	require.NoError(t, env.sessions.Delete(t.Context(), cookie.Value))

	rec := env.request(http.MethodGet, "/api/auth/me", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUser_RejectsGarbageToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodGet, "/api/projects", nil,
		&http.Cookie{Name: auth.SessionCookie, Value: "not-a-session"})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	envlp := decodeEnvelope(t, rec)
	assert.False(t, envlp.Success)
}

func TestUserFromProfile_NameFallbacks(t *testing.T) {
	p := &auth.Profile{Sub: "s1", Email: "a@b.c", GivenName: "Ada", FamilyName: "Lovelace"}
	user := userFromProfile(p)
	assert.Equal(t, "Ada Lovelace", user.Name)

	p = &auth.Profile{Sub: "s1", Email: "a@b.c"}
	user = userFromProfile(p)
	assert.Equal(t, "a@b.c", user.Name, "email is the last-resort display name")

	p = &auth.Profile{Sub: "s1", Email: "a@b.c", Name: "Explicit"}
	user = userFromProfile(p)
	assert.Equal(t, "Explicit", user.Name)
}

func TestHealthEndpointIsPublic(t *testing.T) {
	env := newTestEnv(t)
	rec := env.request(http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
