// Package mailer delivers OTP emails over SMTP.
package mailer

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	otpSubject = "Your OTP Code"
	// implicitTLSPort is the SMTPS port; other ports use SendMail's STARTTLS.
	implicitTLSPort = "465"
)

// Config holds SMTP credentials.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPMailer sends plain-text mail through an SMTP relay.
type SMTPMailer struct {
	cfg Config
}

// NewSMTPMailer creates an SMTPMailer. From defaults to the username.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPMailer{cfg: cfg}
}

// SendOTP mails the code to a single recipient.
func (m *SMTPMailer) SendOTP(to, code string) error {
	if m.cfg.Username == "" || m.cfg.Password == "" {
		return fmt.Errorf("email credentials not configured")
	}
	msg := buildMessage(m.cfg.From, to, otpSubject, fmt.Sprintf("Your OTP code is: %s", code))
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)

	if m.cfg.Port != implicitTLSPort {
		if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.cfg.Host})
	if err != nil {
		return fmt.Errorf("failed to dial smtp: %w", err)
	}
	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start smtp session: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp data close: %w", err)
	}
	return client.Quit()
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body + "\r\n")
	return []byte(b.String())
}

// LogMailer writes codes to the log instead of sending them. It is used
// when no SMTP credentials are configured.
type LogMailer struct {
	logger *logrus.Logger
}

// NewLogMailer creates a new LogMailer.
func NewLogMailer(logger *logrus.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendOTP logs the code and never fails.
func (m *LogMailer) SendOTP(to, code string) error {
	m.logger.WithFields(logrus.Fields{"to": to, "code": code}).Warn("smtp not configured, otp not emailed")
	return nil
}
