package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/prodpush/prodpush/internal/auth"
	"github.com/prodpush/prodpush/internal/database"
	"github.com/prodpush/prodpush/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	t        *testing.T
	handler  *Handler
	router   *gin.Engine
	db       *gorm.DB
	sessions auth.SessionStore
}

// newTestEnv wires the handler against a fresh in-memory database and
// an in-memory session store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sessions := auth.NewMemorySessions(time.Hour)
	handler := &Handler{
		DB:          db,
		Sessions:    sessions,
		FrontendURL: "http://localhost:5173",
	}

	router := gin.New()
	handler.RegisterRoutes(router)

	return &testEnv{t: t, handler: handler, router: router, db: db, sessions: sessions}
}

func (e *testEnv) createUser(id string) models.User {
	e.t.Helper()
	user := models.User{
		ID:        id,
		Sub:       id,
		Name:      "User " + id,
		Email:     id + "@example.com",
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(e.t, e.db.Create(&user).Error)
	return user
}

// login opens a session for the user and returns the cookie a browser
// would carry.
func (e *testEnv) login(userID string) *http.Cookie {
	e.t.Helper()
	token, err := e.sessions.Create(e.t.Context(), userID)
	require.NoError(e.t, err)
	return &http.Cookie{Name: auth.SessionCookie, Value: token}
}

func (e *testEnv) request(method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(e.t, err)
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *string         `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.True(t, env.Success, "expected success envelope, got error: %v", env.Error)
	var data T
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

// createProject inserts a project row directly, owned by ownerID.
func (e *testEnv) createProject(ownerID, name string) models.Project {
	e.t.Helper()
	project := models.Project{
		Name:      name,
		OwnerID:   ownerID,
		Status:    models.ProjectActive,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(e.t, e.db.Create(&project).Error)
	return project
}

func (e *testEnv) createTask(projectID int64, title string, status models.TaskStatus) models.Task {
	e.t.Helper()
	task := models.Task{
		Title:     title,
		ProjectID: projectID,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(e.t, e.db.Create(&task).Error)
	return task
}
