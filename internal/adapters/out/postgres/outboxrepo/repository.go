package outboxrepo

import (
	"context"
	"time"

	"deliverydispatch/internal/pkg/outbox"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOutboxRepository reads and writes outbox rows through db, which is either
// the pool or an open transaction.
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Add inserts messages in one statement.
func (r *GormOutboxRepository) Add(ctx context.Context, messages []outbox.Message) error {
	if len(messages) == 0 {
		return nil
	}

	dtos := make([]MessageDTO, 0, len(messages))
	for _, msg := range messages {
		dtos = append(dtos, fromDomain(msg))
	}
	return r.db.WithContext(ctx).Create(&dtos).Error
}

// FetchUnprocessed locks up to limit unprocessed rows, oldest first. Rows locked by
// another transaction are skipped rather than waited on.
func (r *GormOutboxRepository) FetchUnprocessed(ctx context.Context, limit int) ([]outbox.Message, error) {
	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("processed_at IS NULL").
		Order("created_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	messages := make([]outbox.Message, 0, len(dtos))
	for _, dto := range dtos {
		messages = append(messages, toDomain(dto))
	}
	return messages, nil
}

// MarkProcessed stamps processed_at on the given rows.
func (r *GormOutboxRepository) MarkProcessed(ctx context.Context, ids []uuid.UUID, processedAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).
		Model(&MessageDTO{}).
		Where("id IN ?", ids).
		Update("processed_at", processedAt).Error
}

// GormOutboxStore hands the processor one transaction per run.
type GormOutboxStore struct {
	db *gorm.DB
}

func NewGormOutboxStore(db *gorm.DB) *GormOutboxStore {
	return &GormOutboxStore{db: db}
}

// Begin opens the transaction detached from ctx cancellation: database/sql rolls a
// transaction back as soon as its begin context is done, which would drop the
// stamps of messages already delivered. Statements still honour ctx.
func (s *GormOutboxStore) Begin(ctx context.Context) (outbox.Tx, error) {
	tx := s.db.WithContext(context.WithoutCancel(ctx)).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &gormOutboxTx{
		GormOutboxRepository: NewGormOutboxRepository(tx),
		tx:                   tx,
	}, nil
}

type gormOutboxTx struct {
	*GormOutboxRepository
	tx *gorm.DB
}

func (t *gormOutboxTx) Commit(_ context.Context) error {
	return t.tx.Commit().Error
}

func (t *gormOutboxTx) Rollback(_ context.Context) error {
	return t.tx.Rollback().Error
}
