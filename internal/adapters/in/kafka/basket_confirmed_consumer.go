// Package kafka turns integration events from other services into commands.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"deliverydispatch/internal/core/application/usecases/commands"
	"deliverydispatch/internal/core/domain/model/kernel"

	"github.com/go-playground/validator/v10"
	"github.com/segmentio/kafka-go"
)

const defaultRetryDelay = time.Second

var ErrInvalidMessage = errors.New("invalid basket confirmed message")

// BasketConfirmedIntegrationEvent is published by the basket service when a
// customer checks out.
type BasketConfirmedIntegrationEvent struct {
	BasketID string  `json:"basketId" validate:"required,uuid"`
	Address  Address `json:"address"`
}

type Address struct {
	Street string `json:"street" validate:"required"`
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type createOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) (bool, error)
}

// BasketConfirmedConsumer creates an order for every confirmed basket. An offset is
// committed only after its message has been handled; malformed messages are logged
// and committed so they cannot block the partition.
type BasketConfirmedConsumer struct {
	reader     messageReader
	handler    createOrderHandler
	validate   *validator.Validate
	logger     *slog.Logger
	retryDelay time.Duration
}

// ReaderConfig selects the topic and consumer group to read from.
type ReaderConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// NewBasketConfirmedConsumer joins the consumer group described by cfg.
func NewBasketConfirmedConsumer(cfg ReaderConfig, handler createOrderHandler, logger *slog.Logger) *BasketConfirmedConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newBasketConfirmedConsumer(reader, handler, logger, defaultRetryDelay)
}

func newBasketConfirmedConsumer(
	reader messageReader,
	handler createOrderHandler,
	logger *slog.Logger,
	retryDelay time.Duration,
) *BasketConfirmedConsumer {
	return &BasketConfirmedConsumer{
		reader:     reader,
		handler:    handler,
		validate:   validator.New(),
		logger:     logger.With("component", "basket_confirmed_consumer"),
		retryDelay: retryDelay,
	}
}

// Run consumes until ctx is cancelled. It returns nil on cancellation and an error
// only when the reader itself fails.
func (c *BasketConfirmedConsumer) Run(ctx context.Context) error {
	c.logger.InfoContext(ctx, "Basket confirmed consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.InfoContext(ctx, "Basket confirmed consumer stopped")
				return nil
			}
			return fmt.Errorf("fetch basket confirmed message: %w", err)
		}

		if err := c.handleWithRetry(ctx, msg); err != nil {
			// only cancellation ends the retry loop
			c.logger.InfoContext(ctx, "Basket confirmed consumer stopped", "offset", msg.Offset)
			return nil
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}

func (c *BasketConfirmedConsumer) Close() error {
	return c.reader.Close()
}

func (c *BasketConfirmedConsumer) handleWithRetry(ctx context.Context, msg kafka.Message) error {
	for {
		err := c.handle(ctx, msg)
		if err == nil {
			return nil
		}

		if errors.Is(err, ErrInvalidMessage) {
			c.logger.WarnContext(ctx, "Skipping malformed basket confirmed message",
				"offset", msg.Offset, "partition", msg.Partition, "error", err)
			return nil
		}

		c.logger.ErrorContext(ctx, "Failed to create order from basket", "offset", msg.Offset, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
}

func (c *BasketConfirmedConsumer) handle(ctx context.Context, msg kafka.Message) error {
	var event BasketConfirmedIntegrationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	if err := c.validate.Struct(&event); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	basketID, err := kernel.UUIDFromString(event.BasketID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	cmd, err := commands.NewCreateOrderCommand(basketID, event.Address.Street)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	created, err := c.handler.Handle(ctx, cmd)
	if err != nil {
		return err
	}

	if created {
		c.logger.InfoContext(ctx, "Order created", "order_id", basketID.String())
	} else {
		c.logger.DebugContext(ctx, "Order already exists", "order_id", basketID.String())
	}
	return nil
}
