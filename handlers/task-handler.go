package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/beingsuperior/Freelancing-project-managment/middleware"
	"github.com/beingsuperior/Freelancing-project-managment/services"
)

type TaskHandler struct {
	Service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{Service: service}
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	taskID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	task, err := h.Service.GetTask(r.Context(), caller, taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	var input services.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := h.Service.CreateTask(r.Context(), caller, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	taskID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	var input services.UpdateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	task, err := h.Service.UpdateTask(r.Context(), caller, taskID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	taskID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteTask(r.Context(), caller, taskID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	taskID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	comment, err := h.Service.AddComment(r.Context(), caller, taskID, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *TaskHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	commentID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid comment ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteComment(r.Context(), caller, commentID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted successfully"})
}

func (h *TaskHandler) AddLoggedTime(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	taskID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	var input services.LoggedTimeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	entry, err := h.Service.AddLoggedTime(r.Context(), caller, taskID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *TaskHandler) DeleteLoggedTime(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	entryID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "Invalid logged time ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteLoggedTime(r.Context(), caller, entryID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged time deleted successfully"})
}
