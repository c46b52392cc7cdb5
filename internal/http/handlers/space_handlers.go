package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spacenow-app/spacenow/internal/domain"
	"github.com/spacenow-app/spacenow/internal/http/response"
)

// ListSpaces returns the space inventory in display order
func (h *Handlers) ListSpaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"spaces": h.spaces.List(),
	})
}

// CreateSpace adds a space to the inventory (admin only)
func (h *Handlers) CreateSpace(w http.ResponseWriter, r *http.Request) {
	var req domain.SpaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	if !h.spaces.Create(r.Context(), req) {
		response.BadRequest(w, h.spaces.LastError().Get())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Space created",
		"spaces":  h.spaces.List(),
	})
}

// UpdateSpace replaces the editable fields of a space (admin only)
func (h *Handlers) UpdateSpace(w http.ResponseWriter, r *http.Request) {
	spaceID := chi.URLParam(r, "id")

	var req domain.SpaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	if !h.spaces.Update(r.Context(), spaceID, req) {
		response.BadRequest(w, h.spaces.LastError().Get())
		return
	}

	if h.imageCache != nil && req.ImageSource != "" {
		h.imageCache.Invalidate(r.Context(), spaceID)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Space updated",
		"spaces":  h.spaces.List(),
	})
}

// DeleteSpace removes a space from the inventory (admin only)
func (h *Handlers) DeleteSpace(w http.ResponseWriter, r *http.Request) {
	spaceID := chi.URLParam(r, "id")

	h.spaces.Delete(r.Context(), spaceID)

	if h.imageCache != nil {
		h.imageCache.Invalidate(r.Context(), spaceID)
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Space deleted",
	})
}

// GetSpaceImage serves the stored image for a space, via the Redis cache
// when one is configured.
func (h *Handlers) GetSpaceImage(w http.ResponseWriter, r *http.Request) {
	spaceID := chi.URLParam(r, "id")

	if h.imageCache != nil {
		if data, ok := h.imageCache.Get(r.Context(), spaceID); ok {
			w.Header().Set("Content-Type", http.DetectContentType(data))
			w.Write(data)
			return
		}
	}

	space := h.spaces.Get(spaceID)
	if space == nil || space.ImageURI == "" {
		response.NotFound(w, "No image for this space")
		return
	}

	data, err := h.imageStorage.Load(space.ImageURI)
	if err != nil {
		response.NotFound(w, "Image not found")
		return
	}

	if h.imageCache != nil {
		h.imageCache.Set(r.Context(), spaceID, data)
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Write(data)
}
