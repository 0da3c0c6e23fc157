package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"photomarket/internal/domain"
)

const (
	dispatchInterval = 5 * time.Second
	dispatchBatch    = 100
)

// Publisher pushes a dispatched notification to the broker for the push
// gateway (email, mobile) to consume.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

// Pusher delivers to connected websocket clients. Best effort: an offline
// user simply reads the row later.
type Pusher interface {
	Push(userID int64, payload any)
}

// Dispatcher drains the outbox on a fixed interval. Rows are marked sent
// only after the broker accepted them, so a crash mid-batch re-delivers
// rather than drops.
type Dispatcher struct {
	store     Store
	publisher Publisher
	pusher    Pusher
	logger    *zap.Logger
}

func NewDispatcher(store Store, publisher Publisher, pusher Pusher, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		store:     store,
		publisher: publisher,
		pusher:    pusher,
		logger:    logger,
	}
}

// Run blocks until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(dispatchInterval)
	defer ticker.Stop()

	d.logger.Info("notification dispatcher started",
		zap.Duration("interval", dispatchInterval))
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("notification dispatcher stopped")
			return
		case <-ticker.C:
			if err := d.DrainOnce(ctx); err != nil {
				d.logger.Error("outbox drain failed", zap.Error(err))
			}
		}
	}
}

// DrainOnce dispatches up to one batch of unsent rows.
func (d *Dispatcher) DrainOnce(ctx context.Context) error {
	rows, err := d.store.FindUnsent(ctx, dispatchBatch)
	if err != nil {
		return fmt.Errorf("load unsent notifications: %w", err)
	}

	for _, n := range rows {
		if err := d.dispatch(ctx, n); err != nil {
			// Leave the row unsent; next tick retries it.
			d.logger.Warn("notification dispatch failed",
				zap.Int64("notification_id", n.ID),
				zap.Int64("user_id", n.UserID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (d *Dispatcher) dispatch(ctx context.Context, n domain.Notification) error {
	if d.publisher != nil {
		if err := d.publisher.Publish(routingKey(n.Type), n); err != nil {
			return err
		}
	}
	if d.pusher != nil {
		d.pusher.Push(n.UserID, n)
	}
	return d.store.MarkSent(ctx, n.ID, time.Now().UTC())
}

func routingKey(t domain.NotificationType) string {
	return "notification." + string(t)
}
