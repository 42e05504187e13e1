// Package outboxrepo stores events written in the same transaction as the
// state change they describe, until the relay has published them.
package outboxrepo

import (
	"context"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/ports"
	"fooddispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageDTO is a row of the dispatch_outbox table.
type MessageDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EventType  string     `gorm:"type:varchar(64);not null"`
	MessageKey string     `gorm:"type:varchar(255);not null"`
	Payload    []byte     `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time  `gorm:"type:timestamptz;not null;index:idx_outbox_unsent,where:sent_at IS NULL"`
	SentAt     *time.Time `gorm:"type:timestamptz"`
	Attempts   int        `gorm:"not null;default:0"`
}

func (MessageDTO) TableName() string {
	return "dispatch_outbox"
}

// GormOutboxRepository implements ports.OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Add stores message. Inside a unit of work it commits with the state change.
func (r *GormOutboxRepository) Add(ctx context.Context, message ports.OutboxMessage) error {
	if err := message.ID.Validate(); err != nil {
		return err
	}

	dto := MessageDTO{
		ID:         message.ID.Google(),
		EventType:  message.EventType,
		MessageKey: message.Key,
		Payload:    message.Payload,
		CreatedAt:  message.CreatedAt,
		SentAt:     message.SentAt,
		Attempts:   message.Attempts,
	}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return errs.NewPersistenceError("add outbox message", err)
	}
	return nil
}

// ListUnsent returns up to limit unpublished messages, oldest first.
func (r *GormOutboxRepository) ListUnsent(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, errs.NewPersistenceError("list outbox", err)
	}

	messages := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromGoogle(dto.ID)
		if err != nil {
			return nil, err
		}
		messages = append(messages, ports.OutboxMessage{
			ID:        id,
			EventType: dto.EventType,
			Key:       dto.MessageKey,
			Payload:   dto.Payload,
			CreatedAt: dto.CreatedAt,
			SentAt:    dto.SentAt,
			Attempts:  dto.Attempts,
		})
	}
	return messages, nil
}

// MarkSent records the publish time. Marking an already sent message keeps
// the first timestamp.
func (r *GormOutboxRepository) MarkSent(ctx context.Context, id kernel.UUID, sentAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&MessageDTO{}).
		Where("id = ? AND sent_at IS NULL", id.Google()).
		Update("sent_at", sentAt).Error
	return errs.NewPersistenceError("mark outbox message sent", err)
}

// MarkFailed counts a failed publish attempt.
func (r *GormOutboxRepository) MarkFailed(ctx context.Context, id kernel.UUID) error {
	err := r.db.WithContext(ctx).Model(&MessageDTO{}).
		Where("id = ?", id.Google()).
		Update("attempts", gorm.Expr("attempts + 1")).Error
	return errs.NewPersistenceError("mark outbox message failed", err)
}
