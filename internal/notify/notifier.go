// Package notify turns reservation events into outbound mail.
package notify

import (
	"context"
	"encoding/json"

	"github.com/spacenow-app/spacenow/internal/identity"
	"github.com/spacenow-app/spacenow/internal/mailer"
	"github.com/spacenow-app/spacenow/pkg/events"
	"github.com/spacenow-app/spacenow/pkg/logger"
)

type Notifier struct {
	bus      events.EventBus
	profiles identity.ProfileStore
	mailer   mailer.Service
}

func New(bus events.EventBus, profiles identity.ProfileStore, mailer mailer.Service) *Notifier {
	return &Notifier{bus: bus, profiles: profiles, mailer: mailer}
}

// Start subscribes to reservation lifecycle events. Mail failures are logged
// and swallowed; a missed confirmation never fails the booking.
func (n *Notifier) Start() error {
	return n.bus.Subscribe(events.ReservationCreated, n.onReservationCreated)
}

func (n *Notifier) onReservationCreated(msg *events.Message) {
	var event events.ReservationCreatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error("Failed to decode reservation created event", "error", err)
		return
	}

	ctx := context.Background()
	profile, err := n.profiles.GetUserProfile(ctx, event.UserID)
	if err != nil {
		logger.Warn("No profile for reservation confirmation", "error", err, "user_id", event.UserID)
		return
	}

	if err := n.mailer.SendReservationConfirmation(profile.Email, profile.Name, event.SpaceName, event.DateTime); err != nil {
		logger.Warn("Failed to send reservation confirmation", "error", err, "reservation_id", event.ReservationID)
	}
}
