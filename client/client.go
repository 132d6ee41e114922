// Package client is the Go data-access layer for the ProdPush API: a
// thin HTTP client plus a collection cache with an explicit
// invalidate-and-refetch contract, mirroring what the web frontend's
// query hooks do.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client talks to a ProdPush server. Reads of whole collections go
// through the cache; every mutation invalidates the collections it
// touches so the next read refetches.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	cache *Cache
}

// New builds a client against baseURL (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
		cache:      NewCache(),
	}
}

// Cache exposes the client's collection cache, mainly so callers can
// invalidate after out-of-band changes.
func (c *Client) Cache() *Cache {
	return c.cache
}

type envelope[T any] struct {
	Success bool    `json:"success"`
	Data    T       `json:"data"`
	Error   *string `json:"error"`
}

// apiError is a failure reported by the server envelope, as opposed to
// a transport failure.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// IsNotFound reports whether err is the server's not-found response.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*apiError)
	return ok && apiErr.Status == http.StatusNotFound
}

func doRequest[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return zero, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return zero, fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		msg := "request failed"
		if env.Error != nil {
			msg = *env.Error
		}
		return zero, &apiError{Status: resp.StatusCode, Message: msg}
	}
	return env.Data, nil
}

func tasksKey(projectID *int64) string {
	if projectID == nil {
		return "tasks"
	}
	return fmt.Sprintf("tasks?projectId=%d", *projectID)
}

func notesKey(projectID *int64) string {
	if projectID == nil {
		return "notes"
	}
	return fmt.Sprintf("notes?projectId=%d", *projectID)
}

const projectsKey = "projects"

// invalidateTasks drops every cached task collection; a task mutation
// can affect both the global list and a per-project list.
func (c *Client) invalidateTasks() {
	c.cache.InvalidatePrefix("tasks")
}

func (c *Client) invalidateNotes() {
	c.cache.InvalidatePrefix("notes")
}
