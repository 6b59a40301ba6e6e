package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/beingsuperior/Freelancing-project-managment/auth"
	"github.com/beingsuperior/Freelancing-project-managment/middleware"
	"github.com/beingsuperior/Freelancing-project-managment/models"
	"github.com/beingsuperior/Freelancing-project-managment/services"
	"github.com/beingsuperior/Freelancing-project-managment/store"
)

// newTestRouter wires the handler surface against memory collections,
// mirroring the route table in main.
func newTestRouter() http.Handler {
	users := store.NewMemoryCollection("email")
	projects := store.NewMemoryCollection()
	tasks := store.NewMemoryCollection()
	comments := store.NewMemoryCollection()
	timeLog := store.NewMemoryCollection()

	jwtService := auth.NewJWTService("test-secret", time.Hour)
	resolver := services.NewResolverService(users, projects, tasks, comments, timeLog)
	userService := services.NewUserService(users, jwtService)
	projectService := services.NewProjectService(projects, users, resolver)
	taskService := services.NewTaskService(tasks, projects, comments, timeLog, resolver)

	loginHandler := NewLoginHandler(userService)
	userHandler := NewUserHandler(userService)
	projectHandler := NewProjectHandler(projectService)
	taskHandler := NewTaskHandler(taskService)

	r := mux.NewRouter()
	r.HandleFunc("/api/auth/register", loginHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", loginHandler.Login).Methods(http.MethodPost)

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.JWTAuth(jwtService))
	protected.HandleFunc("/users/me", userHandler.Me).Methods(http.MethodGet)
	protected.HandleFunc("/projects", projectHandler.CreateProject).Methods(http.MethodPost)
	protected.HandleFunc("/projects/{id}", projectHandler.GetProject).Methods(http.MethodGet)
	protected.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	protected.HandleFunc("/tasks/{id}", taskHandler.GetTask).Methods(http.MethodGet)

	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerUser(t *testing.T, router http.Handler, email string) AuthResponse {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": "Test",
		"lastName":  "User",
		"email":     email,
		"password":  "hunter2!",
		"role":      string(models.RoleAdmin),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

func TestRegisterLoginAndMe(t *testing.T) {
	t.Parallel()

	router := newTestRouter()
	registered := registerUser(t, router, "grace@example.com")

	rec := doJSON(t, router, http.MethodGet, "/api/users/me", registered.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me models.UserView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&me))
	require.Equal(t, "grace@example.com", me.Email)
	require.Zero(t, me.ProjectCount)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "grace@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "grace@example.com",
		"password": "hunter2!",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/api/users/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/users/me", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProjectEndpoints_StatusMapping(t *testing.T) {
	t.Parallel()

	router := newTestRouter()
	owner := registerUser(t, router, "owner@example.com")
	stranger := registerUser(t, router, "stranger@example.com")

	rec := doJSON(t, router, http.MethodPost, "/api/projects", owner.Token, map[string]string{"title": "Website"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var project models.ResolvedProject
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&project))
	require.Len(t, project.Owners, 1)
	require.Equal(t, owner.User.ID, project.Owners[0].ID)

	path := fmt.Sprintf("/api/projects/%s", project.ID.Hex())
	rec = doJSON(t, router, http.MethodGet, path, stranger.Token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, path, owner.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/projects/%s", primitive.NewObjectID().Hex()), owner.Token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/projects/not-an-id", owner.Token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/projects", owner.Token, map[string]string{"title": ""})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTaskEndpoints_OwnerRestrictedCreate(t *testing.T) {
	t.Parallel()

	router := newTestRouter()
	owner := registerUser(t, router, "owner@example.com")
	stranger := registerUser(t, router, "stranger@example.com")

	rec := doJSON(t, router, http.MethodPost, "/api/projects", owner.Token, map[string]string{"title": "Website"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var project models.ResolvedProject
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&project))

	body := map[string]interface{}{"projectId": project.ID.Hex(), "title": "First task"}
	rec = doJSON(t, router, http.MethodPost, "/api/tasks", stranger.Token, body)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/tasks", owner.Token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var task models.ResolvedTask
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&task))
	require.Equal(t, models.StatusRequested, task.Status)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/tasks/%s", task.ID.Hex()), owner.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
