package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
)

// Notifier delivers a signup event to the downstream profile service.
type Notifier interface {
	NotifySignup(ctx context.Context, event *models.SignupEvent) error
}

const (
	dispatchBatchSize = 50
	deliveryTimeout   = 10 * time.Second
)

// OutboxDispatcher drains the signup outbox in the background. Registration
// only writes outbox rows; this loop is the sole place talking to the profile
// service, so its failures never affect registration responses.
type OutboxDispatcher struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	notifier Notifier
	logger   logging.Logger
	interval time.Duration
}

// NewOutboxDispatcher constructs a dispatcher polling at the given interval.
func NewOutboxDispatcher(db *sql.DB, m repomanager.RepositoryManager, n Notifier, l logging.Logger, interval time.Duration) *OutboxDispatcher {
	return &OutboxDispatcher{
		db:       db,
		repos:    m,
		notifier: n,
		logger:   l.With("module", "outbox_dispatcher"),
		interval: interval,
	}
}

// Run polls for pending events until ctx is cancelled.
func (d *OutboxDispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info(ctx, "Starting outbox dispatcher", "interval", d.interval.String())

	for {
		select {
		case <-ctx.Done():
			d.logger.Info(ctx, "Stopping outbox dispatcher...")
			return
		case <-ticker.C:
			d.dispatchPending(ctx)
		}
	}
}

func (d *OutboxDispatcher) dispatchPending(ctx context.Context) {
	repo := d.repos.Outbox(d.db)

	events, err := repo.ListPending(ctx, dispatchBatchSize)
	if err != nil {
		d.logger.Error(ctx, "error listing pending events", "error", err.Error())
		return
	}

	for _, event := range events {
		if ctx.Err() != nil {
			return
		}

		if err := repo.MarkAttempted(ctx, event.ID); err != nil {
			d.logger.Error(ctx, "error recording delivery attempt", "error", err.Error())
			continue
		}

		deliveryCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
		err := d.notifier.NotifySignup(deliveryCtx, event)
		cancel()

		if err != nil {
			// left pending, picked up again on a later tick
			d.logger.Warn(ctx, "signup notification failed", "event_id", event.ID, "attempts", event.Attempts+1, "error", err.Error())
			continue
		}

		if err := repo.MarkDelivered(ctx, event.ID); err != nil {
			d.logger.Error(ctx, "error marking event delivered", "event_id", event.ID, "error", err.Error())
			continue
		}

		d.logger.Info(ctx, "signup notification delivered", "event_id", event.ID, "user_id", event.UserID)
	}
}
