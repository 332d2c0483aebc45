package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/tradelink-backend/pkg/db/models"
	"github.com/angelmondragon/tradelink-backend/pkg/logger"
	"github.com/angelmondragon/tradelink-backend/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Dispatcher records, then delivers, pending notifications after the triggering
// transaction has committed. It never blocks the caller on a cancelled request
// context and reports failures without retrying.
type Dispatcher struct {
	repo      Repository
	deliverer Deliverer
	logg      *logger.Logger
	metrics   *metrics.NotificationMetrics
	timeout   time.Duration
	now       func() time.Time
}

// DispatcherParams wires the dispatcher dependencies.
type DispatcherParams struct {
	Repo      Repository
	Deliverer Deliverer
	Logger    *logger.Logger
	Metrics   *metrics.NotificationMetrics
	Timeout   time.Duration
}

// NewDispatcher requires a repository, a deliverer and a logger. Metrics are optional.
func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if params.Deliverer == nil {
		return nil, fmt.Errorf("notification deliverer required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Dispatcher{
		repo:      params.Repo,
		deliverer: params.Deliverer,
		logg:      params.Logger,
		metrics:   params.Metrics,
		timeout:   params.Timeout,
		now:       time.Now,
	}, nil
}

// Dispatch handles every pending entry in order and returns the combined
// failures. One failed entry does not stop the rest.
func (d *Dispatcher) Dispatch(ctx context.Context, pending []Pending) error {
	if len(pending) == 0 {
		return nil
	}

	ctx = context.WithoutCancel(ctx)
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	var errs error
	for _, entry := range pending {
		errs = multierr.Append(errs, d.dispatchOne(ctx, entry))
	}
	return errs
}

func (d *Dispatcher) dispatchOne(ctx context.Context, entry Pending) error {
	logCtx := d.logg.WithFields(ctx, map[string]any{
		"recipient_id": entry.RecipientID.String(),
		"kind":         entry.Kind.String(),
	})

	if entry.RecipientID == uuid.Nil || !entry.Kind.IsValid() || entry.Message == "" {
		err := fmt.Errorf("malformed notification for %s (%s)", entry.RecipientID, entry.Kind)
		d.metrics.Inc(entry.Kind.String(), metrics.NotificationResultFailed)
		d.logg.Error(logCtx, "dropping malformed notification", err)
		return err
	}

	notification := &models.Notification{
		ID:      uuid.New(),
		UserID:  entry.RecipientID,
		Kind:    entry.Kind,
		Message: entry.Message,
		SentAt:  d.now().UTC(),
	}

	if err := d.repo.Create(ctx, notification); err != nil {
		d.metrics.Inc(entry.Kind.String(), metrics.NotificationResultFailed)
		d.logg.Error(logCtx, "failed to record notification", err)
		return fmt.Errorf("record notification: %w", err)
	}

	logCtx = d.logg.WithField(logCtx, "notification_id", notification.ID.String())
	if err := d.deliverer.Deliver(logCtx, notification); err != nil {
		d.metrics.Inc(entry.Kind.String(), metrics.NotificationResultRecorded)
		d.logg.Warn(d.logg.WithField(logCtx, "error", err.Error()), "notification delivery failed")
		return err
	}

	d.metrics.Inc(entry.Kind.String(), metrics.NotificationResultDelivered)
	if err := d.repo.MarkDelivered(ctx, notification.ID); err != nil {
		d.logg.Error(logCtx, "failed to mark notification delivered", err)
		return fmt.Errorf("mark notification delivered: %w", err)
	}
	notification.IsDelivered = true
	return nil
}
