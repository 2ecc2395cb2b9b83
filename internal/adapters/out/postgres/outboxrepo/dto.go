// Package outboxrepo stores outbox messages in postgres next to the aggregate tables.
package outboxrepo

import (
	"time"

	"deliverydispatch/internal/pkg/outbox"

	"github.com/google/uuid"
)

// MessageDTO is the row layout of the outbox_messages table.
type MessageDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Type        string     `gorm:"type:varchar(255);not null"`
	Payload     string     `gorm:"type:text;not null"`
	CreatedAt   time.Time  `gorm:"type:timestamptz;not null;index"`
	ProcessedAt *time.Time `gorm:"type:timestamptz;index"`
}

func (MessageDTO) TableName() string {
	return "outbox_messages"
}

func fromDomain(msg outbox.Message) MessageDTO {
	return MessageDTO{
		ID:          msg.ID,
		Type:        msg.Type,
		Payload:     msg.Payload,
		CreatedAt:   msg.CreatedAt,
		ProcessedAt: msg.ProcessedAt,
	}
}

func toDomain(dto MessageDTO) outbox.Message {
	return outbox.Message{
		ID:          dto.ID,
		Type:        dto.Type,
		Payload:     dto.Payload,
		CreatedAt:   dto.CreatedAt,
		ProcessedAt: dto.ProcessedAt,
	}
}
