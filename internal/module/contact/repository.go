package contact

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the contact message data access interface.
type Repository interface {
	Create(ctx context.Context, message *Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	List(ctx context.Context, replied *bool, offset, limit int) ([]*Message, int64, error)
	MarkReplied(ctx context.Context, id, adminID uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a new contact message repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, message *Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Message, error) {
	var message Message
	err := r.db.WithContext(ctx).First(&message, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

func (r *gormRepository) List(ctx context.Context, replied *bool, offset, limit int) ([]*Message, int64, error) {
	query := r.db.WithContext(ctx).Model(&Message{})

	if replied != nil {
		if *replied {
			query = query.Where("replied_at IS NOT NULL")
		} else {
			query = query.Where("replied_at IS NULL")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []*Message
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// MarkReplied stamps the reply marker. The null guard makes the first
// reply win when two admins act on the same message.
func (r *gormRepository) MarkReplied(ctx context.Context, id, adminID uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&Message{}).
		Where("id = ? AND replied_at IS NULL", id).
		Updates(map[string]interface{}{
			"replied_at": now,
			"replied_by": adminID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyReplied
	}
	return nil
}
