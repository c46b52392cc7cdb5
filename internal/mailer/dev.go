package mailer

import (
	"time"

	"github.com/spacenow-app/spacenow/pkg/logger"
)

// DevMailer prints mail to the log instead of sending it.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendVerificationEmail(toEmail, toName, verifyURL, token string) error {
	logger.Info("[DEV MAIL] Verification email",
		"to", toEmail,
		"name", toName,
		"verify_url", verifyURL,
		"token", token,
	)
	return nil
}

func (d *DevMailer) SendReservationConfirmation(toEmail, toName, spaceName string, dateTime time.Time) error {
	logger.Info("[DEV MAIL] Reservation confirmation",
		"to", toEmail,
		"name", toName,
		"space", spaceName,
		"date_time", dateTime.Format(time.RFC3339),
	)
	return nil
}
