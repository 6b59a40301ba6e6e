package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/beingsuperior/Freelancing-project-managment/middleware"
	"github.com/beingsuperior/Freelancing-project-managment/services"
)

type ProjectHandler struct {
	Service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{Service: service}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	project, err := h.Service.CreateProject(r.Context(), caller, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

// MyProjects lists the caller's projects, resolved.
func (h *ProjectHandler) MyProjects(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	projects, err := h.Service.MyProjects(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	projectID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	project, err := h.Service.GetProject(r.Context(), caller, projectID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) RenameProject(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	projectID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	project, err := h.Service.RenameProject(r.Context(), caller, projectID, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// AddClient attaches a client to the project by email, creating the
// account when none exists yet.
func (h *ProjectHandler) AddClient(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	projectID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	var input services.ClientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	project, err := h.Service.AddClient(r.Context(), caller, projectID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	projectID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteProject(r.Context(), caller, projectID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted successfully"})
}
