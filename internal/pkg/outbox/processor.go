package outbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const DefaultBatchSize = 10

var ErrStoreIsRequired = errors.New("outbox store is required")

// Store opens the transaction a single processor run works in.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is the processor's view of one outbox transaction. FetchUnprocessed must lock
// the rows it returns so that concurrent processors never receive the same message.
type Tx interface {
	FetchUnprocessed(ctx context.Context, limit int) ([]Message, error)
	MarkProcessed(ctx context.Context, ids []uuid.UUID, processedAt time.Time) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Metrics counts processor outcomes per message type.
type Metrics interface {
	MessageProcessed(messageType string)
	DeliveryFailed(messageType string)
}

type noopMetrics struct{}

func (noopMetrics) MessageProcessed(string) {}
func (noopMetrics) DeliveryFailed(string)   {}

// Processor delivers unprocessed outbox messages oldest first.
type Processor struct {
	store     Store
	registry  *Registry
	mediator  *Mediator
	logger    *slog.Logger
	batchSize int
	now       func() time.Time
	metrics   Metrics
}

type ProcessorOption func(*Processor)

func WithBatchSize(n int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

func WithClock(now func() time.Time) ProcessorOption {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

func WithMetrics(m Metrics) ProcessorOption {
	return func(p *Processor) {
		if m != nil {
			p.metrics = m
		}
	}
}

func NewProcessor(
	store Store,
	registry *Registry,
	mediator *Mediator,
	logger *slog.Logger,
	opts ...ProcessorOption,
) (*Processor, error) {
	if store == nil {
		return nil, ErrStoreIsRequired
	}
	if registry == nil {
		registry = NewRegistry()
	}
	if mediator == nil {
		mediator = NewMediator()
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Processor{
		store:     store,
		registry:  registry,
		mediator:  mediator,
		logger:    logger.With("component", "outbox_processor"),
		batchSize: DefaultBatchSize,
		now:       time.Now,
		metrics:   noopMetrics{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Process runs one poll in a single transaction and returns how many messages were
// stamped as processed. A message that cannot be decoded or handled ends the batch;
// it stays unprocessed and is retried on the next poll, while the messages before it
// are still stamped.
func (p *Processor) Process(ctx context.Context) (int, error) {
	tx, err := p.store.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin outbox transaction: %w", err)
	}

	messages, err := tx.FetchUnprocessed(ctx, p.batchSize)
	if err != nil {
		_ = tx.Rollback(ctx)
		return 0, fmt.Errorf("fetch outbox messages: %w", err)
	}

	delivered := make([]Message, 0, len(messages))
	for _, msg := range messages {
		if ctx.Err() != nil {
			break
		}

		if err := p.deliver(ctx, msg); err != nil {
			p.logger.WarnContext(ctx, "Outbox message delivery failed",
				"message_id", msg.ID, "type", msg.Type, "error", err)
			p.metrics.DeliveryFailed(msg.Type)
			break
		}
		delivered = append(delivered, msg)
	}

	if len(delivered) == 0 {
		return 0, tx.Rollback(ctx)
	}

	// Stamps for messages already handed to handlers are written even when the
	// run is being cancelled.
	stampCtx := context.WithoutCancel(ctx)

	ids := make([]uuid.UUID, 0, len(delivered))
	for _, msg := range delivered {
		ids = append(ids, msg.ID)
	}

	if err := tx.MarkProcessed(stampCtx, ids, p.now().UTC()); err != nil {
		_ = tx.Rollback(stampCtx)
		return 0, fmt.Errorf("mark outbox messages processed: %w", err)
	}

	if err := tx.Commit(stampCtx); err != nil {
		return 0, fmt.Errorf("commit outbox transaction: %w", err)
	}

	for _, msg := range delivered {
		p.metrics.MessageProcessed(msg.Type)
	}
	return len(delivered), nil
}

func (p *Processor) deliver(ctx context.Context, msg Message) error {
	event, err := p.registry.Decode(msg)
	if err != nil {
		return err
	}
	return p.mediator.Publish(ctx, event)
}
