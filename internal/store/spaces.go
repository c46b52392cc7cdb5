package store

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spacenow-app/spacenow/internal/domain"
	"github.com/spacenow-app/spacenow/internal/images"
	"github.com/spacenow-app/spacenow/pkg/events"
	"github.com/spacenow-app/spacenow/pkg/logger"
	"github.com/spacenow-app/spacenow/pkg/signal"
)

// Spaces owns the authoritative list of bookable spaces. The list keeps
// insertion order, which is also display order. Validation failures never
// mutate the list; they surface through the last-error observable. Safe for
// concurrent use.
type Spaces struct {
	mu sync.Mutex

	spaces  *signal.Value[[]domain.Space]
	loading *signal.Value[bool]
	lastErr *signal.Value[string]

	storage     images.Storage
	placeholder string
	bus         events.Publisher
}

func NewSpaces(storage images.Storage, placeholder string, bus events.Publisher) *Spaces {
	return &Spaces{
		spaces:      signal.NewValue([]domain.Space{}),
		loading:     signal.NewValue(false),
		lastErr:     signal.NewValue(""),
		storage:     storage,
		placeholder: placeholder,
		bus:         bus,
	}
}

func (s *Spaces) Watch() *signal.Value[[]domain.Space] { return s.spaces }

func (s *Spaces) Loading() *signal.Value[bool] { return s.loading }

func (s *Spaces) LastError() *signal.Value[string] { return s.lastErr }

// List returns a snapshot of the current spaces in display order.
func (s *Spaces) List() []domain.Space {
	cur := s.spaces.Get()
	out := make([]domain.Space, len(cur))
	copy(out, cur)
	return out
}

// Get returns the space with the given id, or nil.
func (s *Spaces) Get(id string) *domain.Space {
	for _, sp := range s.spaces.Get() {
		if sp.ID == id {
			return &sp
		}
	}
	return nil
}

// Create validates the form fields and appends a new space. The capacity
// field is free text; anything that does not parse as an integer counts as 0
// and fails the capacity check. The form is refused, never rejected with a
// panic or error value.
func (s *Spaces) Create(ctx context.Context, req domain.SpaceRequest) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.validate(req) {
		return false
	}

	s.loading.Set(true)
	defer s.loading.Set(false)

	permanent, err := s.storage.Persist(req.ImageSource)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to persist space image", "error", err)
		s.lastErr.Set("failed to store the space image")
		return false
	}

	space := domain.Space{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(req.Name),
		Description:   strings.TrimSpace(req.Description),
		Capacity:      parseCapacity(req.Capacity),
		Available:     true,
		ImageResource: s.placeholder,
		ImageURI:      permanent,
		CreatedAt:     time.Now(),
	}

	s.spaces.Set(append(s.List(), space))
	s.publish(ctx, events.SpaceCreated, space)

	logger.InfoContext(ctx, "Space created", "space_id", space.ID, "name", space.Name)
	return true
}

// Update replaces the editable fields of an existing space. A missing id is a
// silent success: the list is left untouched and no error is reported. The
// image reference is only replaced when a new image was supplied.
func (s *Spaces) Update(ctx context.Context, spaceID string, req domain.SpaceRequest) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.validate(req) {
		return false
	}

	s.loading.Set(true)
	defer s.loading.Set(false)

	list := s.List()
	for i := range list {
		if list[i].ID != spaceID {
			continue
		}

		imageURI := list[i].ImageURI
		if req.ImageSource != "" {
			permanent, err := s.storage.Persist(req.ImageSource)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to persist space image", "error", err, "space_id", spaceID)
				s.lastErr.Set("failed to store the space image")
				return false
			}
			imageURI = permanent
		}

		list[i].Name = strings.TrimSpace(req.Name)
		list[i].Description = strings.TrimSpace(req.Description)
		list[i].Capacity = parseCapacity(req.Capacity)
		list[i].ImageURI = imageURI

		s.spaces.Set(list)
		s.publish(ctx, events.SpaceUpdated, list[i])
		return true
	}

	// Unmatched id reports success without mutating anything.
	return true
}

// Delete removes the space with the given id. Deleting an absent id is a
// no-op that still reports success. Existing reservations referencing the
// space are not retracted.
func (s *Spaces) Delete(ctx context.Context, spaceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.List()
	for i := range list {
		if list[i].ID == spaceID {
			removed := list[i]
			s.spaces.Set(append(list[:i], list[i+1:]...))
			s.publish(ctx, events.SpaceDeleted, removed)
			logger.InfoContext(ctx, "Space deleted", "space_id", spaceID)
			break
		}
	}
	return true
}

func (s *Spaces) validate(req domain.SpaceRequest) bool {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" || parseCapacity(req.Capacity) <= 0 {
		s.lastErr.Set("please complete all fields correctly")
		return false
	}
	return true
}

func (s *Spaces) publish(ctx context.Context, subject string, space domain.Space) {
	if s.bus == nil {
		return
	}
	event := events.SpaceEvent{
		SpaceID:   space.ID,
		Name:      space.Name,
		Capacity:  space.Capacity,
		Timestamp: time.Now(),
	}
	if err := s.bus.Publish(ctx, subject, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish space event", "error", err, "subject", subject)
	}
}

func parseCapacity(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return n
}
