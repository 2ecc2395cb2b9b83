// Package postgres provides the GORM-based Unit of Work. A unit of work wraps one
// database transaction, hands out repositories bound to it and, on commit, writes
// the pending domain events of every aggregate its repositories touched to the
// outbox table inside the same transaction.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.OrderRepository().Update(ctx, order); err != nil {
//	    return err
//	}
//
//	changed, err := uow.Commit(ctx)
//
// Each goroutine must use its own UnitOfWork instance.
package postgres

import (
	"context"
	"fmt"
	"time"

	"deliverydispatch/internal/adapters/out/postgres/courierrepo"
	"deliverydispatch/internal/adapters/out/postgres/orderrepo"
	"deliverydispatch/internal/adapters/out/postgres/outboxrepo"
	"deliverydispatch/internal/core/domain/model/kernel"
	"deliverydispatch/internal/core/ports"
	"deliverydispatch/internal/pkg/ddd"
	"deliverydispatch/internal/pkg/outbox"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written through one of the unit's repositories.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// CaptureMetrics is notified of how many outbox messages a commit wrote.
type CaptureMetrics interface {
	OutboxMessagesCaptured(n int)
}

// Option configures units of work created by GormUnitOfWorkFactory.
type Option func(*GormUnitOfWorkFactory)

// WithClock overrides the clock used for outbox created_at stamps.
func WithClock(now func() time.Time) Option {
	return func(f *GormUnitOfWorkFactory) {
		if now != nil {
			f.now = now
		}
	}
}

// WithCaptureMetrics reports captured message counts to m.
func WithCaptureMetrics(m CaptureMetrics) Option {
	return func(f *GormUnitOfWorkFactory) {
		f.metrics = m
	}
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one *gorm.DB.
// Factory ensures each business operation gets a fresh unit of work instance
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db      *gorm.DB
	now     func() time.Time
	metrics CaptureMetrics
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db, WithCaptureMetrics(m))
func NewGormUnitOfWorkFactory(db *gorm.DB, opts ...Option) *GormUnitOfWorkFactory {
	f := &GormUnitOfWorkFactory{
		db:  db,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create produces a new UnitOfWork with its own transaction state and tracking list.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		now:               f.now,
		metrics:           f.metrics,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and the aggregates written
// inside it. Commit is where the outbox capture happens.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	now               func() time.Time
	metrics           CaptureMetrics
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit converts the pending domain events of the tracked aggregates into outbox
// rows, inserts them and commits the transaction. Either the aggregate state and its
// events are both persisted or neither is. The returned flag reports whether any
// aggregate was written.
//
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(ctx context.Context) (bool, error) {
	if uow.tx == nil {
		return false, gorm.ErrInvalidTransaction
	}

	aggregates := uow.uniqueAggregates()

	messages, err := uow.collectOutboxMessages(aggregates)
	if err != nil {
		_ = uow.Rollback(ctx)
		return false, err
	}

	if err := outboxrepo.NewGormOutboxRepository(uow.tx).Add(ctx, messages); err != nil {
		_ = uow.Rollback(ctx)
		return false, fmt.Errorf("save outbox messages: %w", err)
	}

	err = uow.tx.Commit().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	if err != nil {
		return false, err
	}

	for _, aggregate := range aggregates {
		if root, ok := aggregate.(ddd.AggregateRoot); ok {
			root.ClearDomainEvents()
		}
	}

	if uow.metrics != nil && len(messages) > 0 {
		uow.metrics.OutboxMessagesCaptured(len(messages))
	}

	return len(aggregates) > 0, nil
}

// Rollback discards all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active, which makes it
// safe to defer after a successful Commit.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// CourierRepository returns a courier repository bound to the current transaction,
// or to the pool when none is active.
func (uow *GormUnitOfWork) CourierRepository() ports.CourierRepository {
	return courierrepo.NewGormCourierRepository(uow.conn(), uow)
}

// OrderRepository returns an order repository bound to the current transaction,
// or to the pool when none is active.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// TrackAggregate registers an aggregate written within this unit of work. Repository
// implementations call it after every successful Add or Update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// uniqueAggregates returns the tracked aggregates once each, in first-tracked order.
func (uow *GormUnitOfWork) uniqueAggregates() []any {
	seen := make(map[string]struct{}, len(uow.trackedAggregates))
	out := make([]any, 0, len(uow.trackedAggregates))
	for _, tracked := range uow.trackedAggregates {
		key := tracked.ID.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tracked.Aggregate)
	}
	return out
}

func (uow *GormUnitOfWork) collectOutboxMessages(aggregates []any) ([]outbox.Message, error) {
	now := uow.now()

	var messages []outbox.Message
	for _, aggregate := range aggregates {
		root, ok := aggregate.(ddd.AggregateRoot)
		if !ok {
			continue
		}

		for _, event := range root.GetDomainEvents() {
			msg, err := outbox.NewMessage(event, now)
			if err != nil {
				return nil, err
			}
			messages = append(messages, msg)
		}
	}
	return messages, nil
}
