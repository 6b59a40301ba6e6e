package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/beingsuperior/Freelancing-project-managment/middleware"
	"github.com/beingsuperior/Freelancing-project-managment/services"
)

type UserHandler struct {
	UserService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{UserService: userService}
}

// Me returns the caller's own record with the projectCount virtual.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	user, err := h.UserService.CurrentUser(r.Context(), caller)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user.View())
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	var input services.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request data", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.UpdateUser(r.Context(), caller, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user.View())
}

// DeleteUser removes the caller's account after a password re-check.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFromContext(r.Context())

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request data", http.StatusBadRequest)
		return
	}

	if err := h.UserService.DeleteUser(r.Context(), caller, req.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}
