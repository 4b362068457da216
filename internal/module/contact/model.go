package contact

import (
	"time"

	"github.com/google/uuid"
)

// Message is a contact-form message from a visitor.
type Message struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Email     string     `gorm:"not null;index" json:"email"`
	Subject   string     `gorm:"not null" json:"subject"`
	Body      string     `gorm:"type:text;not null" json:"body"`
	RepliedAt *time.Time `json:"replied_at,omitempty"`
	RepliedBy *uuid.UUID `gorm:"type:uuid" json:"replied_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName returns the table name for the Message model.
func (Message) TableName() string {
	return "contact_messages"
}

// IsReplied reports whether an organizer has marked the message replied.
func (m *Message) IsReplied() bool {
	return m.RepliedAt != nil
}
