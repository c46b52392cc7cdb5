package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/spacenow-app/spacenow/internal/domain"
	"github.com/spacenow-app/spacenow/internal/http/response"
	"github.com/spacenow-app/spacenow/pkg/logger"
)

// Register handles user registration
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	sess := h.session(r)
	if !sess.Register(r.Context(), req) {
		response.BadRequest(w, sess.Message().Get())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": sess.Message().Get(),
	})
}

// Login handles user authentication
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	sess := h.session(r)
	if !sess.Login(r.Context(), req.Email, req.Password) {
		response.Unauthorized(w, sess.Message().Get())
		return
	}

	token, err := h.tokens.NewAccessToken(sess.UserID(), req.Email, sess.Role().Get(), h.config.Auth.AccessTokenTTL)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to issue access token", "error", err)
		response.InternalError(w, "Failed to issue access token")
		return
	}

	user, err := h.identity.GetUser(r.Context(), sess.UserID())
	if err != nil || user == nil {
		response.InternalError(w, "Failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, domain.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(h.config.Auth.AccessTokenTTL.Seconds()),
		User:        user.ToUserInfo(),
	})
}

// VerifyEmail consumes a verification token from the mail link
func (h *Handlers) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		response.BadRequest(w, "Missing verification token")
		return
	}

	user, err := h.identity.VerifyEmail(r.Context(), token)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Email verified successfully",
		"user":    user.ToUserInfo(),
	})
}

// Logout returns the session to anonymous
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	sess.Logout(r.Context())

	writeJSON(w, http.StatusOK, map[string]string{
		"message": sess.Message().Get(),
	})
}
