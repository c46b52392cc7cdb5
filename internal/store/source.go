package store

import (
	"context"

	"github.com/spacenow-app/spacenow/internal/domain"
)

// StaticReservationSource serves a fixed all-active data set. It stands in
// for the backend reservation feed in single-binary and test deployments.
type StaticReservationSource struct {
	Reservations []domain.Reservation
}

func (s *StaticReservationSource) AllActive(ctx context.Context) ([]domain.Reservation, error) {
	out := make([]domain.Reservation, len(s.Reservations))
	copy(out, s.Reservations)
	return out, nil
}
