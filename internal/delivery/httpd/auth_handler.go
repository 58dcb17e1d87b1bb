package httpd

import (
	"net/http"

	"github.com/edustage/backend/internal/models"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.handleValidationError(w, err)
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	token, err := h.idm.IssueToken(user.ID, user.Roles)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to issue token")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, models.AuthResponse{
		ID:    user.ID,
		Email: user.Email,
		Roles: user.Roles,
		Token: token,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.handleValidationError(w, err)
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	token, err := h.idm.IssueToken(user.ID, user.Roles)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to issue token")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{
		ID:    user.ID,
		Email: user.Email,
		Roles: user.Roles,
		Token: token,
	})
}
