package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edustage/backend/internal/models"
)

func (h *Handler) GetStudentTests(w http.ResponseWriter, r *http.Request) {
	principal := principalFromContext(r.Context())

	tests, err := h.testService.ListTestsForStudent(r.Context(), principal.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, tests)
}

func (h *Handler) GetTest(w http.ResponseWriter, r *http.Request) {
	testID := chi.URLParam(r, "id")
	if testID == "" {
		writeError(w, http.StatusBadRequest, "Test ID is required")
		return
	}

	test, err := h.testService.GetTestByID(r.Context(), testID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, test)
}

func (h *Handler) SubmitTest(w http.ResponseWriter, r *http.Request) {
	testID := chi.URLParam(r, "id")
	if testID == "" {
		writeError(w, http.StatusBadRequest, "Test ID is required")
		return
	}

	var req models.SubmitTestRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.handleValidationError(w, err)
		return
	}

	principal := principalFromContext(r.Context())

	result, err := h.submissionService.SubmitTest(r.Context(), testID, principal.UserID, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, result)
}

func (h *Handler) GetCompletedTests(w http.ResponseWriter, r *http.Request) {
	principal := principalFromContext(r.Context())

	completed, err := h.submissionService.ListCompletedTests(r.Context(), principal.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, completed)
}

func (h *Handler) GetStudentGroups(w http.ResponseWriter, r *http.Request) {
	principal := principalFromContext(r.Context())

	groups, err := h.groupService.ListStudentGroups(r.Context(), principal.UserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, groups)
}
