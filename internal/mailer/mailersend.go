package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendVerificationEmail(toEmail, toName, verifyURL, token string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := "Verify your SpaceNow account"
	html := fmt.Sprintf(`
		<h2>Welcome to SpaceNow!</h2>
		<p>Hi %s,</p>
		<p>Please verify your email address by clicking the link below:</p>
		<p><a href="%s">Verify Email</a></p>
		<p>Or use this verification code: <strong>%s</strong></p>
		<p>If you didn't create an account with us, please ignore this email.</p>
	`, toName, verifyURL, token)
	text := fmt.Sprintf("Please verify your email by clicking this link: %s\n\nOr use this verification code: %s", verifyURL, token)

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) SendReservationConfirmation(toEmail, toName, spaceName string, dateTime time.Time) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	when := dateTime.Format("Monday, 2 January 2006 at 15:04")
	subject := fmt.Sprintf("Your reservation for %s", spaceName)
	html := fmt.Sprintf(`
		<h2>Reservation received</h2>
		<p>Hi %s,</p>
		<p>Your reservation for <strong>%s</strong> on %s was received and is pending confirmation.</p>
	`, toName, spaceName, when)
	text := fmt.Sprintf("Hi %s, your reservation for %s on %s was received and is pending confirmation.", toName, spaceName, when)

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) sendEmail(toEmail, toName, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)

	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
