package contact

import (
	"time"

	"github.com/google/uuid"
)

// SubmitMessageRequest is the public contact-form payload.
type SubmitMessageRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,min=1,max=200"`
	Body    string `json:"body" binding:"required,min=1,max=5000"`
}

// MessageResponse is the admin view of a contact message.
type MessageResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	Replied   bool       `json:"replied"`
	RepliedAt *time.Time `json:"replied_at,omitempty"`
	RepliedBy *uuid.UUID `json:"replied_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToResponse converts a message to its admin response form.
func (m *Message) ToResponse() *MessageResponse {
	return &MessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Body:      m.Body,
		Replied:   m.IsReplied(),
		RepliedAt: m.RepliedAt,
		RepliedBy: m.RepliedBy,
		CreatedAt: m.CreatedAt,
	}
}

// MessageListResponse is a paginated list of contact messages.
type MessageListResponse struct {
	Messages   []*MessageResponse `json:"messages"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// AckResponse acknowledges a submitted message.
type AckResponse struct {
	Message string `json:"message"`
}
