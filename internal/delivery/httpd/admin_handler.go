package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edustage/backend/internal/models"
)

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetAllUsers(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.handleValidationError(w, err)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	var req models.UpdateUserRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.handleValidationError(w, err)
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	if err := h.userService.DeleteUser(r.Context(), userID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "User deleted",
	})
}

func (h *Handler) GetSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.subjectService.GetAllSubjects(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, subjects)
}

func (h *Handler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSubjectRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.handleValidationError(w, err)
		return
	}

	subject, err := h.subjectService.CreateSubject(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, subject)
}

func (h *Handler) UpdateSubject(w http.ResponseWriter, r *http.Request) {
	subjectID := chi.URLParam(r, "id")
	if subjectID == "" {
		writeError(w, http.StatusBadRequest, "Subject ID is required")
		return
	}

	var req models.CreateSubjectRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.handleValidationError(w, err)
		return
	}

	subject, err := h.subjectService.UpdateSubject(r.Context(), subjectID, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, subject)
}

func (h *Handler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	subjectID := chi.URLParam(r, "id")
	if subjectID == "" {
		writeError(w, http.StatusBadRequest, "Subject ID is required")
		return
	}

	if err := h.subjectService.DeleteSubject(r.Context(), subjectID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Subject deleted",
	})
}
