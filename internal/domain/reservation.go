package domain

import "time"

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationPending   ReservationStatus = "PENDING"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

func ParseReservationStatus(s string) (ReservationStatus, bool) {
	switch ReservationStatus(s) {
	case ReservationConfirmed, ReservationPending, ReservationCancelled:
		return ReservationStatus(s), true
	default:
		return "", false
	}
}

// Reservation books one space for one date-time by one user. SpaceName is a
// denormalized copy of the space's display name captured at booking time; it
// is not kept in sync with later renames of the space.
type Reservation struct {
	ID        string            `json:"id"`
	SpaceID   string            `json:"space_id"`
	SpaceName string            `json:"space_name"`
	UserID    string            `json:"user_id"`
	DateTime  time.Time         `json:"date_time"`
	Status    ReservationStatus `json:"status"`
}

// NewReservation constructs a reservation with the default CONFIRMED status.
// Reservations going through the booking flow are created PENDING instead.
func NewReservation(id, spaceID, spaceName, userID string, dateTime time.Time) Reservation {
	return Reservation{
		ID:        id,
		SpaceID:   spaceID,
		SpaceName: spaceName,
		UserID:    userID,
		DateTime:  dateTime,
		Status:    ReservationConfirmed,
	}
}
