package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spacenow-app/spacenow/internal/domain"
	"github.com/spacenow-app/spacenow/internal/http/response"
	"github.com/spacenow-app/spacenow/pkg/logger"
)

// ListAllReservations returns every active reservation across users. The
// role gate is re-applied on each request; the all-active view only loads
// when the caller's session is admin.
func (h *Handlers) ListAllReservations(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	h.reservations.SetAdmin(r.Context(), sess.IsAdmin())

	reservations := h.reservations.AllActive()
	if reservations == nil {
		reservations = []domain.Reservation{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reservations": reservations,
	})
}

// Statistics returns the booking-frequency tally per space name
func (h *Handlers) Statistics(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	h.reservations.SetAdmin(r.Context(), sess.IsAdmin())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"statistics": h.reservations.Statistics(),
	})
}

// ListUsers returns every registered user's profile info
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.identity.ListAllUsers(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to list users", "error", err)
		response.InternalError(w, "Failed to list users")
		return
	}

	infos := make([]domain.UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, *u.ToUserInfo())
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": infos,
	})
}

// PromoteUser elevates the target user to administrator
func (h *Handlers) PromoteUser(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")

	sess := h.session(r)
	if !sess.PromoteToAdmin(r.Context(), targetID) {
		response.Forbidden(w, sess.Message().Get())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": sess.Message().Get(),
	})
}

// ResendVerification re-dispatches the email verification message for an
// account that never confirmed.
func (h *Handlers) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		response.BadRequest(w, "Missing user id")
		return
	}

	if err := h.identity.SendVerificationEmail(r.Context(), req.UserID); err != nil {
		logger.ErrorContext(r.Context(), "Failed to resend verification email", "error", err)
		response.InternalError(w, "Failed to send verification email")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Verification email sent",
	})
}
