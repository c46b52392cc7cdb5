package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/spacenow-app/spacenow/internal/domain"
	"github.com/spacenow-app/spacenow/internal/http/response"
)

type bookingRequest struct {
	SpaceID  string    `json:"space_id"`
	DateTime time.Time `json:"date_time"`
}

type modifyRequest struct {
	DateTime time.Time `json:"date_time"`
}

// ListMyReservations returns the caller's reservations
func (h *Handlers) ListMyReservations(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)

	reservations := h.reservations.ListForUser(claims.Sub)
	if reservations == nil {
		reservations = []domain.Reservation{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reservations": reservations,
	})
}

// CreateReservation runs the booking flow: this caller's space and slot
// selections are submitted in one step, so concurrent bookings cannot pick
// up each other's selections.
func (h *Handlers) CreateReservation(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	var space *domain.Space
	if req.SpaceID != "" {
		space = h.spaces.Get(req.SpaceID)
		if space == nil {
			response.BadRequest(w, "Unknown space")
			return
		}
	}
	var slot *time.Time
	if !req.DateTime.IsZero() {
		slot = &req.DateTime
	}

	if !h.reservations.Book(r.Context(), space, slot, claims.Sub) {
		response.BadRequest(w, h.reservations.LastError().Get())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":      "Reservation created",
		"reservations": h.reservations.ListForUser(claims.Sub),
	})
}

// ModifyReservation replaces the date-time of one of the caller's
// reservations
func (h *Handlers) ModifyReservation(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	reservationID := chi.URLParam(r, "id")

	var req modifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	if !h.ownsReservation(claims.Sub, claims.Role, reservationID) {
		response.Forbidden(w, "Not your reservation")
		return
	}

	h.reservations.Modify(r.Context(), reservationID, req.DateTime)

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Reservation updated",
	})
}

// DeleteReservation removes one of the caller's reservations
func (h *Handlers) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	reservationID := chi.URLParam(r, "id")

	if !h.ownsReservation(claims.Sub, claims.Role, reservationID) {
		response.Forbidden(w, "Not your reservation")
		return
	}

	h.reservations.Delete(r.Context(), reservationID)

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Reservation deleted",
	})
}

// ownsReservation reports whether the caller may touch the reservation.
// Admins may touch any; an id nobody owns passes through so the store's
// idempotent no-op semantics still apply.
func (h *Handlers) ownsReservation(userID, role, reservationID string) bool {
	if role == domain.RoleAdmin {
		return true
	}
	for _, res := range h.reservations.List() {
		if res.ID == reservationID {
			return res.UserID == userID
		}
	}
	return true
}
