package mailer

import "time"

type Service interface {
	SendVerificationEmail(toEmail, toName, verifyURL, token string) error
	SendReservationConfirmation(toEmail, toName, spaceName string, dateTime time.Time) error
}
