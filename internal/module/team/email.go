package team

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"go.uber.org/zap"
)

// InviteEmailSender sends team invite emails.
type InviteEmailSender interface {
	SendInvite(ctx context.Context, email, teamName, inviterName, token string) error
}

// SMTPConfig holds SMTP configuration.
type SMTPConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	FromAddress string
	FromName    string
	BaseURL     string // For invite links
	EventName   string
}

// SMTPInviteSender sends invite emails via SMTP.
type SMTPInviteSender struct {
	config *SMTPConfig
	logger *zap.Logger
}

// NewSMTPInviteSender creates a new SMTP invite sender.
func NewSMTPInviteSender(config *SMTPConfig, logger *zap.Logger) *SMTPInviteSender {
	return &SMTPInviteSender{
		config: config,
		logger: logger,
	}
}

// SendInvite sends a team invite email with the accept link.
func (s *SMTPInviteSender) SendInvite(ctx context.Context, email, teamName, inviterName, token string) error {
	inviteURL := fmt.Sprintf("%s/teams/join?token=%s", s.config.BaseURL, token)

	subject := fmt.Sprintf("You're invited to join %s at %s", teamName, s.config.EventName)
	body, err := s.renderTemplate(inviteEmailTemplate, map[string]string{
		"TeamName":    teamName,
		"InviterName": inviterName,
		"EventName":   s.config.EventName,
		"InviteURL":   inviteURL,
	})
	if err != nil {
		return fmt.Errorf("render template: %w", err)
	}

	return s.sendEmail(email, subject, body)
}

func (s *SMTPInviteSender) sendEmail(to, subject, body string) error {
	from := s.config.FromAddress
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, to, subject, body)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var auth smtp.Auth
	if s.config.User != "" && s.config.Password != "" {
		auth = smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	}

	if err := smtp.SendMail(addr, auth, s.config.FromAddress, []string{to}, []byte(msg)); err != nil {
		s.logger.Error("failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("send email: %w", err)
	}

	s.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func (s *SMTPInviteSender) renderTemplate(tmpl string, data map[string]string) (string, error) {
	t, err := template.New("email").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

const inviteEmailTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .button { display: inline-block; padding: 12px 24px; background-color: #4F46E5; color: white; text-decoration: none; border-radius: 6px; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Team Invite</h1>
        <p>{{.InviterName}} invited you to join <strong>{{.TeamName}}</strong> at {{.EventName}}.</p>
        <p><a href="{{.InviteURL}}" class="button">Join Team</a></p>
        <p>Or copy and paste this link into your browser:</p>
        <p>{{.InviteURL}}</p>
        <p>This invite can only be used once and expires in 7 days.</p>
        <div class="footer">
            <p>If you weren't expecting this invite, you can safely ignore this email.</p>
        </div>
    </div>
</body>
</html>
`

// NoOpInviteSender is a no-op invite sender for testing/development.
type NoOpInviteSender struct {
	logger *zap.Logger
}

// NewNoOpInviteSender creates a no-op invite sender.
func NewNoOpInviteSender(logger *zap.Logger) *NoOpInviteSender {
	return &NoOpInviteSender{logger: logger}
}

// SendInvite logs but doesn't send.
func (s *NoOpInviteSender) SendInvite(ctx context.Context, email, teamName, inviterName, token string) error {
	s.logger.Info("invite email (no-op)",
		zap.String("email", email),
		zap.String("team", teamName),
	)
	return nil
}
