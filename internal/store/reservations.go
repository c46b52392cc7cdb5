package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spacenow-app/spacenow/internal/domain"
	"github.com/spacenow-app/spacenow/pkg/events"
	"github.com/spacenow-app/spacenow/pkg/logger"
	"github.com/spacenow-app/spacenow/pkg/signal"
)

// ReservationSource is the external collaborator that supplies the admin-wide
// view of every active reservation across users.
type ReservationSource interface {
	AllActive(ctx context.Context) ([]domain.Reservation, error)
}

// Reservations owns the reservation list and the pending-booking scratch
// state the booking form fills in before submitting. Statistics are derived
// on demand and keyed by the denormalized space display name captured at
// booking time, so two historical bookings of a since-renamed space tally
// under different keys.
//
// The store is safe for concurrent use. The scratch state is a single slot,
// so concurrent callers must go through Book, which runs both selections and
// the submit in one critical section.
type Reservations struct {
	mu sync.Mutex

	reservations *signal.Value[[]domain.Reservation]
	allActive    *signal.Value[[]domain.Reservation]
	statistics   *signal.Value[map[string]int]
	loading      *signal.Value[bool]
	lastErr      *signal.Value[string]

	// Pending-booking scratch state, one slot, set by SelectSpace and
	// SelectDateTime and cleared after a successful Create.
	pendingSpace    *domain.Space
	pendingDateTime *time.Time

	isAdmin bool
	source  ReservationSource
	bus     events.Publisher
}

func NewReservations(source ReservationSource, bus events.Publisher) *Reservations {
	return &Reservations{
		reservations: signal.NewValue([]domain.Reservation{}),
		allActive:    signal.NewValue([]domain.Reservation{}),
		statistics:   signal.NewValue(map[string]int{}),
		loading:      signal.NewValue(false),
		lastErr:      signal.NewValue(""),
		source:       source,
		bus:          bus,
	}
}

func (r *Reservations) Watch() *signal.Value[[]domain.Reservation] { return r.reservations }

func (r *Reservations) WatchAllActive() *signal.Value[[]domain.Reservation] { return r.allActive }

func (r *Reservations) WatchStatistics() *signal.Value[map[string]int] { return r.statistics }

func (r *Reservations) Loading() *signal.Value[bool] { return r.loading }

func (r *Reservations) LastError() *signal.Value[string] { return r.lastErr }

// List returns a snapshot of the reservation list.
func (r *Reservations) List() []domain.Reservation {
	cur := r.reservations.Get()
	out := make([]domain.Reservation, len(cur))
	copy(out, cur)
	return out
}

// ListForUser returns the reservations owned by one user.
func (r *Reservations) ListForUser(userID string) []domain.Reservation {
	var out []domain.Reservation
	for _, res := range r.reservations.Get() {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	return out
}

// AllActive returns the admin-wide reservation snapshot. Empty unless the
// role has been flipped to admin.
func (r *Reservations) AllActive() []domain.Reservation {
	cur := r.allActive.Get()
	out := make([]domain.Reservation, len(cur))
	copy(out, cur)
	return out
}

// Statistics returns the current booking-frequency tally per space name.
func (r *Reservations) Statistics() map[string]int {
	cur := r.statistics.Get()
	out := make(map[string]int, len(cur))
	for k, v := range cur {
		out[k] = v
	}
	return out
}

// SelectSpace sets the pending-booking space. No validation.
func (r *Reservations) SelectSpace(space domain.Space) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingSpace = &space
}

// SelectDateTime sets the pending-booking slot. No validation.
func (r *Reservations) SelectDateTime(dateTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingDateTime = &dateTime
}

// ClearForm drops the pending-booking scratch state and the last error.
func (r *Reservations) ClearForm() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingSpace = nil
	r.pendingDateTime = nil
	r.lastErr.Set("")
}

// Create books the pending space at the pending date-time for userID. Both
// scratch fields must be set; otherwise the form is refused. A successful
// booking is created PENDING, clears the scratch state, and recomputes
// statistics when the role is admin.
func (r *Reservations) Create(ctx context.Context, userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(ctx, userID)
}

// Book replaces the scratch state with this caller's selections and submits
// in one critical section. Concurrent callers cannot interleave selections:
// a missing field refuses the form instead of completing from another
// caller's leftover scratch state.
func (r *Reservations) Book(ctx context.Context, space *domain.Space, dateTime *time.Time, userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingSpace = space
	r.pendingDateTime = dateTime
	return r.createLocked(ctx, userID)
}

func (r *Reservations) createLocked(ctx context.Context, userID string) bool {
	space := r.pendingSpace
	dateTime := r.pendingDateTime

	if space == nil || dateTime == nil {
		r.lastErr.Set("please complete all fields")
		return false
	}

	reservation := domain.Reservation{
		ID:        uuid.NewString(),
		SpaceID:   space.ID,
		SpaceName: space.Name,
		UserID:    userID,
		DateTime:  *dateTime,
		Status:    domain.ReservationPending,
	}

	r.reservations.Set(append(r.List(), reservation))
	r.pendingSpace = nil
	r.pendingDateTime = nil

	if r.isAdmin {
		r.recomputeStatistics()
	}

	if r.bus != nil {
		event := events.ReservationCreatedEvent{
			ReservationID: reservation.ID,
			SpaceID:       reservation.SpaceID,
			SpaceName:     reservation.SpaceName,
			UserID:        reservation.UserID,
			DateTime:      reservation.DateTime,
			Status:        string(reservation.Status),
		}
		if err := r.bus.Publish(ctx, events.ReservationCreated, event); err != nil {
			logger.WarnContext(ctx, "Failed to publish reservation created event", "error", err)
		}
	}

	logger.InfoContext(ctx, "Reservation created",
		"reservation_id", reservation.ID,
		"space_id", reservation.SpaceID,
		"user_id", userID,
	)
	return true
}

// Update requires a pending date-time to be set and otherwise refuses. When
// one is set it reports success without persisting a change.
func (r *Reservations) Update(_ context.Context, _ domain.Reservation) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pendingDateTime != nil
}

// Delete removes the reservation with the given id. Idempotent; a second
// delete of the same id is a no-op.
func (r *Reservations) Delete(ctx context.Context, reservationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.List()
	for i := range list {
		if list[i].ID == reservationID {
			r.reservations.Set(append(list[:i], list[i+1:]...))
			if r.bus != nil {
				event := events.ReservationDeletedEvent{
					ReservationID: reservationID,
					DeletedAt:     time.Now(),
				}
				if err := r.bus.Publish(ctx, events.ReservationDeleted, event); err != nil {
					logger.WarnContext(ctx, "Failed to publish reservation deleted event", "error", err)
				}
			}
			return
		}
	}
}

// Modify replaces the date-time of the reservation with the given id in
// place. A missing id is a silent no-op.
func (r *Reservations) Modify(ctx context.Context, reservationID string, newDateTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.List()
	for i := range list {
		if list[i].ID == reservationID {
			list[i].DateTime = newDateTime
			r.reservations.Set(list)
			if r.bus != nil {
				event := events.ReservationModifiedEvent{
					ReservationID: reservationID,
					NewDateTime:   newDateTime,
				}
				if err := r.bus.Publish(ctx, events.ReservationModified, event); err != nil {
					logger.WarnContext(ctx, "Failed to publish reservation modified event", "error", err)
				}
			}
			return
		}
	}
}

// Seed replaces the reservation list wholesale. Used at startup to load the
// mock data set.
func (r *Reservations) Seed(reservations []domain.Reservation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reservations.Set(reservations)
}

// SetAdmin flips the role gate. Promoting to admin populates the all-active
// list from the external source and recomputes statistics; demoting clears
// the list so it is excluded from statistics again.
func (r *Reservations) SetAdmin(ctx context.Context, isAdmin bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.isAdmin = isAdmin

	if !isAdmin {
		r.allActive.Set([]domain.Reservation{})
		r.recomputeStatistics()
		return
	}

	r.loading.Set(true)
	defer r.loading.Set(false)

	all, err := r.source.AllActive(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load active reservations", "error", err)
		r.lastErr.Set("failed to load active reservations")
		return
	}

	r.allActive.Set(all)
	r.recomputeStatistics()
}

// recomputeStatistics tallies the union of the reservation list and the
// all-active list, keyed by denormalized space name. The result replaces the
// statistics map atomically. Callers hold the store lock.
func (r *Reservations) recomputeStatistics() {
	stats := make(map[string]int)
	for _, res := range r.reservations.Get() {
		stats[res.SpaceName]++
	}
	for _, res := range r.allActive.Get() {
		stats[res.SpaceName]++
	}
	r.statistics.Set(stats)
}
