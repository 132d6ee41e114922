package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodpush/prodpush/internal/models"
)

func (e *testEnv) createNote(projectID int64, userID, title string) models.Note {
	e.t.Helper()
	now := time.Now().UTC()
	note := models.Note{
		Title: title, Content: "content of " + title,
		ProjectID: projectID, UserID: userID,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(e.t, e.db.Create(&note).Error)
	return note
}

func TestCreateNote(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("u1")
	cookie := env.login(user.ID)
	project := env.createProject(user.ID, "Launch")

	rec := env.request(http.MethodPost, "/api/notes", map[string]any{
		"title":     "Kickoff",
		"content":   "Agenda for the kickoff meeting",
		"projectId": project.ID,
	}, cookie)

	require.Equal(t, http.StatusCreated, rec.Code)
	note := decodeData[models.Note](t, rec)
	assert.Equal(t, "Kickoff", note.Title)
	assert.Equal(t, project.ID, note.ProjectID)
	assert.Equal(t, user.ID, note.UserID, "author comes from the session")
}

func TestCreateNote_Validation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("u1")
	cookie := env.login(user.ID)
	project := env.createProject(user.ID, "Launch")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing title", map[string]any{"content": "c", "projectId": project.ID}},
		{"missing content", map[string]any{"title": "t", "projectId": project.ID}},
		{"missing projectId", map[string]any{"title": "t", "content": "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.request(http.MethodPost, "/api/notes", tt.body, cookie)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetNote_NotFound(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("u1")
	cookie := env.login(user.ID)

	rec := env.request(http.MethodGet, "/api/notes/9999", nil, cookie)
	require.Equal(t, http.StatusNotFound, rec.Code)
	envlp := decodeEnvelope(t, rec)
	require.NotNil(t, envlp.Error)
	assert.Equal(t, "Note not found", *envlp.Error)
}

func TestUpdateNote_PartialAndTimestampBumped(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("u1")
	cookie := env.login(user.ID)
	project := env.createProject(user.ID, "Launch")
	note := env.createNote(project.ID, user.ID, "draft")

	rec := env.request(http.MethodPatch, fmt.Sprintf("/api/notes/%d", note.ID),
		map[string]any{"title": "final"}, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeData[models.Note](t, rec)
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, note.Content, updated.Content, "absent fields survive")
	assert.True(t, updated.UpdatedAt.After(note.UpdatedAt) || updated.UpdatedAt.Equal(note.UpdatedAt))
}

func TestDeleteNote(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("u1")
	cookie := env.login(user.ID)
	project := env.createProject(user.ID, "Launch")
	note := env.createNote(project.ID, user.ID, "doomed")

	rec := env.request(http.MethodDelete, fmt.Sprintf("/api/notes/%d", note.ID), nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(http.MethodDelete, fmt.Sprintf("/api/notes/%d", note.ID), nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotes_ListByProjectOldestEditFirst(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("u1")
	cookie := env.login(user.ID)
	project := env.createProject(user.ID, "Launch")
	other := env.createProject(user.ID, "Other")

	n1 := env.createNote(project.ID, user.ID, "first")
	env.createNote(other.ID, user.ID, "elsewhere")
	n2 := env.createNote(project.ID, user.ID, "second")

	rec := env.request(http.MethodGet, fmt.Sprintf("/api/notes?projectId=%d", project.ID), nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	notes := decodeData[[]models.Note](t, rec)

	require.Len(t, notes, 2)
	assert.Equal(t, n1.ID, notes[0].ID)
	assert.Equal(t, n2.ID, notes[1].ID)
}

func TestNotes_ForeignProjectHidden(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("owner")
	stranger := env.createUser("stranger")
	project := env.createProject(owner.ID, "Private")
	note := env.createNote(project.ID, owner.ID, "secret")

	cookie := env.login(stranger.ID)

	rec := env.request(http.MethodGet, fmt.Sprintf("/api/notes/%d", note.ID), nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.request(http.MethodPost, "/api/notes", map[string]any{
		"title": "intrusion", "content": "x", "projectId": project.ID,
	}, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
