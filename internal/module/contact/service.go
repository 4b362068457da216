package contact

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackfest/server/internal/module/auth"
)

// Service implements contact message business logic.
type Service struct {
	repo        Repository
	rateLimiter *auth.RateLimiter
	emailer     NotificationSender
	contactRPM  int
	logger      *zap.Logger
}

// NewService creates a new contact service.
func NewService(
	repo Repository,
	rateLimiter *auth.RateLimiter,
	emailer NotificationSender,
	contactRPM int,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:        repo,
		rateLimiter: rateLimiter,
		emailer:     emailer,
		contactRPM:  contactRPM,
		logger:      logger,
	}
}

// Submit stores a contact message and notifies the organizers. The
// caller IP is rate limited to keep the public form from being abused.
func (s *Service) Submit(ctx context.Context, ip string, req *SubmitMessageRequest) (*Message, error) {
	if s.rateLimiter != nil {
		result, err := s.rateLimiter.CheckContact(ctx, ip, s.contactRPM)
		if err != nil {
			// Redis unavailability must not take the form down.
			s.logger.Warn("contact rate limit check failed", zap.Error(err))
		} else if !result.Allowed {
			return nil, auth.ErrRateLimited
		}
	}

	message := &Message{
		ID:      uuid.New(),
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, err
	}

	s.logger.Info("contact message received",
		zap.String("message_id", message.ID.String()),
		zap.String("email", message.Email),
	)

	if s.emailer != nil {
		if err := s.emailer.SendNotification(ctx, message); err != nil {
			// Notification failure must not fail the submission.
			s.logger.Warn("contact notification failed",
				zap.String("message_id", message.ID.String()),
				zap.Error(err),
			)
		}
	}

	return message, nil
}

// ListMessages lists contact messages, optionally filtered by reply state (admin).
func (s *Service) ListMessages(ctx context.Context, replied *bool, page, pageSize int) (*MessageListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	messages, total, err := s.repo.List(ctx, replied, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]*MessageResponse, len(messages))
	for i, m := range messages {
		responses[i] = m.ToResponse()
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	return &MessageListResponse{
		Messages:   responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// GetMessage returns a contact message by ID (admin).
func (s *Service) GetMessage(ctx context.Context, id uuid.UUID) (*Message, error) {
	return s.repo.GetByID(ctx, id)
}

// MarkReplied marks a message as answered by the given admin.
func (s *Service) MarkReplied(ctx context.Context, id, adminID uuid.UUID) (*Message, error) {
	if err := s.repo.MarkReplied(ctx, id, adminID); err != nil {
		return nil, err
	}

	s.logger.Info("contact message replied",
		zap.String("message_id", id.String()),
		zap.String("admin_id", adminID.String()),
	)

	return s.repo.GetByID(ctx, id)
}
