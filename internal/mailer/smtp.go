package mailer

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

type SMTPMailer struct {
	Host string
	Port int
	From string
	User string
	Pass string
}

func NewSMTPMailer(host string, port int, from, user, pass string) *SMTPMailer {
	return &SMTPMailer{
		Host: strings.TrimSpace(host),
		Port: port,
		From: strings.TrimSpace(from),
		User: strings.TrimSpace(user),
		Pass: strings.TrimSpace(pass),
	}
}

func (s *SMTPMailer) SendVerificationEmail(toEmail, toName, verifyURL, token string) error {
	subject := "Verify your SpaceNow account"
	text := fmt.Sprintf("Please verify your email by clicking this link: %s\n\nOr use this verification code: %s", verifyURL, token)
	html := fmt.Sprintf(`
		<h2>Welcome to SpaceNow!</h2>
		<p>Hi %s,</p>
		<p>Please verify your email address by clicking the link below:</p>
		<p><a href="%s">Verify Email</a></p>
		<p>Or use this verification code: <strong>%s</strong></p>
		<p>If you didn't create an account with us, please ignore this email.</p>
	`, toName, verifyURL, token)

	return s.sendEmail(toEmail, subject, text, html)
}

func (s *SMTPMailer) SendReservationConfirmation(toEmail, toName, spaceName string, dateTime time.Time) error {
	when := dateTime.Format("Monday, 2 January 2006 at 15:04")
	subject := fmt.Sprintf("Your reservation for %s", spaceName)
	text := fmt.Sprintf("Hi %s, your reservation for %s on %s was received and is pending confirmation.", toName, spaceName, when)
	html := fmt.Sprintf(`
		<h2>Reservation received</h2>
		<p>Hi %s,</p>
		<p>Your reservation for <strong>%s</strong> on %s was received and is pending confirmation.</p>
	`, toName, spaceName, when)

	return s.sendEmail(toEmail, subject, text, html)
}

func (s *SMTPMailer) sendEmail(toEmail, subject, text, html string) error {
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		return fmt.Errorf("empty recipient email")
	}

	var buf bytes.Buffer
	boundary := "mixed-boundary"

	fmt.Fprintf(&buf, "From: %s\r\n", s.From)
	fmt.Fprintf(&buf, "To: %s\r\n", toEmail)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", text)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/html; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", html)

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	// Development SMTP (Mailpit and friends): no auth.
	if s.User == "" {
		return smtp.SendMail(addr, nil, s.From, []string{toEmail}, buf.Bytes())
	}

	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)
	return smtp.SendMail(addr, auth, s.From, []string{toEmail}, buf.Bytes())
}
