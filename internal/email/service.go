// Package email sends attendee confirmation messages. The transport is the
// Resend API when email is enabled; otherwise messages are logged and
// dropped, which keeps development and test environments mail-free.
package email

import (
	"context"
	"fmt"
	"html"
	"net/mail"
	"strings"
	"time"

	"github.com/guestlist/server/internal/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Message is one outgoing email.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers a message through some mail transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Service validates and dispatches messages through the configured transport.
type Service struct {
	config       config.EmailConfig
	resendClient *resend.Client
	logger       zerolog.Logger
}

func NewService(cfg config.EmailConfig, logger zerolog.Logger) (*Service, error) {
	if cfg.Enabled {
		if err := validateEmailAddress(cfg.From); err != nil {
			return nil, fmt.Errorf("invalid sender email in config: %w", err)
		}
	}

	svc := &Service{
		config: cfg,
		logger: logger.With().Str("component", "email").Logger(),
	}
	if cfg.Enabled {
		svc.resendClient = resend.NewClient(cfg.ResendAPIKey)
	}
	return svc, nil
}

func (s *Service) Send(ctx context.Context, msg Message) error {
	if err := validateEmailAddress(msg.To); err != nil {
		return fmt.Errorf("invalid recipient email: %w", err)
	}

	if !s.config.Enabled {
		s.logger.Info().
			Str("to", msg.To).
			Str("subject", msg.Subject).
			Msg("email disabled, dropping message")
		return nil
	}

	return s.sendViaResend(ctx, msg)
}

// Confirmation composes the registration confirmation for an attendee. The
// start date is rendered human-readable, e.g. "Friday 17th of January 2025
// 09:00:00".
func Confirmation(to, eventName string, startDate time.Time) Message {
	formatted := formatStartDate(startDate)
	return Message{
		To:       to,
		Subject:  "Event Confirmation: " + eventName,
		TextBody: fmt.Sprintf("You have been confirmed for %s which is due to start: %s", eventName, formatted),
		HTMLBody: fmt.Sprintf("<p>You have been confirmed for <b>%s</b> which is due to start: %s</p>", html.EscapeString(eventName), formatted),
	}
}

func formatStartDate(t time.Time) string {
	return fmt.Sprintf("%s %d%s of %s",
		t.Weekday(),
		t.Day(),
		ordinalSuffix(t.Day()),
		t.Format("January 2006 15:04:05"),
	)
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// validateEmailAddress checks format and rejects header injection attempts.
func validateEmailAddress(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	if strings.ContainsAny(addr.Address, "\r\n") {
		return fmt.Errorf("invalid email address: contains newline characters")
	}
	return nil
}
