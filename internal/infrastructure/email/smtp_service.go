package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog/log"
)

type EmailService interface {
	SendMagicLinkEmail(ctx context.Context, data MagicLinkEmailData) error
}

// SendMailFunc có cùng signature với smtp.SendMail
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
	sendMail SendMailFunc
}

// NewDevEmailService gửi mail không auth tới SMTP dev server (mailhog, mailpit)
func NewDevEmailService(smtpHost, smtpPort, from string) EmailService {
	return newSMTPEmailService(smtpHost+":"+smtpPort, from, smtp.SendMail)
}

func newSMTPEmailService(addr, from string, send SendMailFunc) *smtpEmailService {
	return &smtpEmailService{
		smtpAddr: addr,
		smtpFrom: from,
		sendMail: send,
	}
}

func (s *smtpEmailService) SendMagicLinkEmail(ctx context.Context, data MagicLinkEmailData) error {
	subject := "Your sign-in link"
	intro := "Click the link below to sign in to your inbox:"
	if data.LinkType == "signup" {
		subject = "Confirm your email"
		intro = "Click the link below to confirm your email and claim your confession link:"
	}

	body := fmt.Sprintf(`Hi,

%s
%s

The link is valid for %s and can be used once.

If you did not request this email, you can ignore it.`, intro, data.Link, data.ExpiresIn)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, data.Email, subject, body))

	if err := s.sendMail(s.smtpAddr, nil, s.smtpFrom, []string{data.Email}, msg); err != nil {
		log.Error().
			Err(err).
			Str("to", data.Email).
			Str("smtp_addr", s.smtpAddr).
			Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
