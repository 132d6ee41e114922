package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prodpush/prodpush/internal/models"
)

// CreateNoteInput carries the fields for POST /api/notes.
type CreateNoteInput struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	ProjectID int64  `json:"projectId"`
}

// UpdateNoteInput is a partial PATCH body for a note.
type UpdateNoteInput struct {
	Title   models.Optional[string] `json:"title,omitzero"`
	Content models.Optional[string] `json:"content,omitzero"`
}

// Notes lists notes, cache-first, optionally narrowed to one project.
func (c *Client) Notes(ctx context.Context, projectID *int64) ([]models.Note, error) {
	key := notesKey(projectID)
	if notes, ok := cachedList[models.Note](c.cache, key); ok {
		return notes, nil
	}

	path := "/api/notes"
	if projectID != nil {
		path = fmt.Sprintf("/api/notes?projectId=%d", *projectID)
	}
	notes, err := doRequest[[]models.Note](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, notes)
	return notes, nil
}

// Note fetches a single note by id.
func (c *Client) Note(ctx context.Context, id int64) (models.Note, error) {
	return doRequest[models.Note](ctx, c, http.MethodGet, fmt.Sprintf("/api/notes/%d", id), nil)
}

// CreateNote creates a note and invalidates the cached note collections.
func (c *Client) CreateNote(ctx context.Context, input CreateNoteInput) (models.Note, error) {
	note, err := doRequest[models.Note](ctx, c, http.MethodPost, "/api/notes", input)
	if err != nil {
		return models.Note{}, err
	}
	c.invalidateNotes()
	return note, nil
}

// UpdateNote patches a note and invalidates the cached note collections.
func (c *Client) UpdateNote(ctx context.Context, id int64, input UpdateNoteInput) (models.Note, error) {
	note, err := doRequest[models.Note](ctx, c, http.MethodPatch, fmt.Sprintf("/api/notes/%d", id), input)
	if err != nil {
		return models.Note{}, err
	}
	c.invalidateNotes()
	return note, nil
}

// DeleteNote removes a note and invalidates the cached note collections.
func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	if _, err := doRequest[any](ctx, c, http.MethodDelete, fmt.Sprintf("/api/notes/%d", id), nil); err != nil {
		return err
	}
	c.invalidateNotes()
	return nil
}
