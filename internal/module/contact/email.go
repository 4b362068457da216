package contact

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"go.uber.org/zap"
)

// NotificationSender notifies the organizers about new contact messages.
type NotificationSender interface {
	SendNotification(ctx context.Context, message *Message) error
}

// SMTPNotificationConfig holds SMTP configuration for organizer notifications.
type SMTPNotificationConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	FromAddress string
	FromName    string
	OrganizerTo string
	EventName   string
}

// SMTPNotificationSender sends organizer notifications via SMTP.
type SMTPNotificationSender struct {
	config *SMTPNotificationConfig
	logger *zap.Logger
}

// NewSMTPNotificationSender creates a new SMTP notification sender.
func NewSMTPNotificationSender(config *SMTPNotificationConfig, logger *zap.Logger) *SMTPNotificationSender {
	return &SMTPNotificationSender{
		config: config,
		logger: logger,
	}
}

// SendNotification forwards a contact message to the organizer inbox.
func (s *SMTPNotificationSender) SendNotification(ctx context.Context, message *Message) error {
	subject := fmt.Sprintf("[%s] Contact: %s", s.config.EventName, message.Subject)

	t, err := template.New("email").Parse(contactNotificationTemplate)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, message); err != nil {
		return fmt.Errorf("render template: %w", err)
	}

	from := s.config.FromAddress
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nReply-To: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		from, s.config.OrganizerTo, message.Email, subject, buf.String())

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var auth smtp.Auth
	if s.config.User != "" && s.config.Password != "" {
		auth = smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	}

	if err := smtp.SendMail(addr, auth, s.config.FromAddress, []string{s.config.OrganizerTo}, []byte(msg)); err != nil {
		s.logger.Error("failed to send contact notification",
			zap.String("message_id", message.ID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("send email: %w", err)
	}

	s.logger.Info("contact notification sent",
		zap.String("message_id", message.ID.String()),
	)
	return nil
}

const contactNotificationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .meta { color: #666; font-size: 14px; }
        blockquote { border-left: 3px solid #4F46E5; margin: 0; padding-left: 16px; }
    </style>
</head>
<body>
    <div class="container">
        <h2>{{.Subject}}</h2>
        <p class="meta">From {{.Name}} &lt;{{.Email}}&gt;</p>
        <blockquote><p>{{.Body}}</p></blockquote>
        <p class="meta">Reply directly to this email to answer the sender.</p>
    </div>
</body>
</html>
`

// NoOpNotificationSender is a no-op sender for testing/development.
type NoOpNotificationSender struct {
	logger *zap.Logger
}

// NewNoOpNotificationSender creates a no-op notification sender.
func NewNoOpNotificationSender(logger *zap.Logger) *NoOpNotificationSender {
	return &NoOpNotificationSender{logger: logger}
}

// SendNotification logs but doesn't send.
func (s *NoOpNotificationSender) SendNotification(ctx context.Context, message *Message) error {
	s.logger.Info("contact notification (no-op)",
		zap.String("from", message.Email),
		zap.String("subject", message.Subject),
	)
	return nil
}
