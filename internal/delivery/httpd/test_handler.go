package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edustage/backend/internal/models"
)

func (h *Handler) CreateTest(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTestRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.handleValidationError(w, err)
		return
	}

	principal := principalFromContext(r.Context())

	test, err := h.testService.CreateTest(r.Context(), principal.UserID, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, test)
}

func (h *Handler) GetTutorTests(w http.ResponseWriter, r *http.Request) {
	principal := principalFromContext(r.Context())

	tests, err := h.testService.ListTutorTests(r.Context(), principal.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, tests)
}

func (h *Handler) UpdateTest(w http.ResponseWriter, r *http.Request) {
	testID := chi.URLParam(r, "id")
	if testID == "" {
		writeError(w, http.StatusBadRequest, "Test ID is required")
		return
	}

	var req models.CreateTestRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.handleValidationError(w, err)
		return
	}

	test, err := h.testService.UpdateTest(r.Context(), testID, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, test)
}

func (h *Handler) DeleteTest(w http.ResponseWriter, r *http.Request) {
	testID := chi.URLParam(r, "id")
	if testID == "" {
		writeError(w, http.StatusBadRequest, "Test ID is required")
		return
	}

	if err := h.testService.DeleteTest(r.Context(), testID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Test deleted successfully",
	})
}

func (h *Handler) GetTutorGroups(w http.ResponseWriter, r *http.Request) {
	principal := principalFromContext(r.Context())

	groups, err := h.groupService.ListTutorGroups(r.Context(), principal.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, groups)
}
