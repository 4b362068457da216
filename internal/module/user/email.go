package user

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"go.uber.org/zap"
)

// EmailSender sends account-related emails.
type EmailSender interface {
	SendWelcome(ctx context.Context, user *User) error
}

// SMTPConfig holds SMTP configuration.
type SMTPConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	FromAddress string
	FromName    string
	BaseURL     string
	EventName   string
}

// SMTPEmailSender sends emails via SMTP.
type SMTPEmailSender struct {
	config *SMTPConfig
	logger *zap.Logger
}

// NewSMTPEmailSender creates a new SMTP email sender.
func NewSMTPEmailSender(config *SMTPConfig, logger *zap.Logger) *SMTPEmailSender {
	return &SMTPEmailSender{
		config: config,
		logger: logger,
	}
}

// SendWelcome sends a welcome email after registration.
func (s *SMTPEmailSender) SendWelcome(ctx context.Context, user *User) error {
	subject := fmt.Sprintf("Welcome to %s", s.config.EventName)
	body, err := s.renderTemplate(welcomeEmailTemplate, map[string]string{
		"Name":      user.Name,
		"EventName": s.config.EventName,
		"BaseURL":   s.config.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("render template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

func (s *SMTPEmailSender) sendEmail(to, subject, body string) error {
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

func (s *SMTPEmailSender) renderTemplate(tmpl string, data map[string]string) (string, error) {
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

const welcomeEmailTemplate = `
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
        <h1>Welcome to {{.EventName}}!</h1>
        <p>Hi {{.Name}},</p>
        <p>Your account is ready. Complete your participant profile, then form a team of 3-4 to take part.</p>
        <p><a href="{{.BaseURL}}/profile" class="button">Complete Your Profile</a></p>
        <div class="footer">
            <p>If you didn't create an account, you can safely ignore this email.</p>
        </div>
    </div>
</body>
</html>
`

// NoOpEmailSender is a no-op email sender for testing/development.
type NoOpEmailSender struct {
	logger *zap.Logger
}

// NewNoOpEmailSender creates a no-op email sender.
func NewNoOpEmailSender(logger *zap.Logger) *NoOpEmailSender {
	return &NoOpEmailSender{logger: logger}
}

// SendWelcome logs but doesn't send.
func (s *NoOpEmailSender) SendWelcome(ctx context.Context, user *User) error {
	s.logger.Info("welcome email (no-op)",
		zap.String("email", user.Email),
		zap.String("name", user.Name),
	)
	return nil
}
