package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/barangay-connect/resident-services/internal/core/ports"
)

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailSender mails status notifications to the requester.
type EmailSender struct {
	addr     string
	auth     smtp.Auth
	from     string
	sendMail sendMailFunc
	log      zerolog.Logger
}

func NewEmailSender(cfg SMTPConfig, log zerolog.Logger) *EmailSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &EmailSender{
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		auth:     auth,
		from:     cfg.From,
		sendMail: smtp.SendMail,
		log:      log,
	}
}

// NotifyStatusChange sends one plain-text email. Requests without an email
// address are skipped.
func (s *EmailSender) NotifyStatusChange(_ context.Context, n ports.StatusNotification) error {
	if n.RecipientEmail == "" {
		s.log.Debug().Str("control_number", n.ControlNumber).Msg("no email on file, notification skipped")
		return nil
	}
	msg := buildMessage(s.from, n)
	if err := s.sendMail(s.addr, s.auth, s.from, []string{n.RecipientEmail}, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	s.log.Info().Str("control_number", n.ControlNumber).Str("status", n.Status).Msg("status email sent")
	return nil
}

// Subject renders "Certificate Request {LABEL} - {control number}".
func Subject(n ports.StatusNotification) string {
	return fmt.Sprintf("Certificate Request %s - %s", n.StatusLabel, n.ControlNumber)
}

func buildMessage(from string, n ports.StatusNotification) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", n.RecipientEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", Subject(n))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")

	name := n.RecipientName
	if name == "" {
		name = "Resident"
	}
	fmt.Fprintf(&b, "Dear %s,\r\n\r\n", name)
	b.WriteString("The status of your certificate request has changed.\r\n\r\n")
	fmt.Fprintf(&b, "Control Number: %s\r\n", n.ControlNumber)
	fmt.Fprintf(&b, "Certificate Type: %s\r\n", n.CertificateType)
	fmt.Fprintf(&b, "Status: %s\r\n", n.StatusLabel)
	if n.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\r\n", n.Notes)
	}
	return []byte(b.String())
}

// LogSender stands in for email when no SMTP host is configured.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) NotifyStatusChange(_ context.Context, n ports.StatusNotification) error {
	s.log.Info().
		Str("control_number", n.ControlNumber).
		Str("status", n.Status).
		Str("subject", Subject(n)).
		Msg("status notification (smtp disabled)")
	return nil
}
