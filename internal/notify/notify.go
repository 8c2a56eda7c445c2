// Package notify delivers best-effort notices to users who are not connected
// to the realtime endpoint.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tontine-app/tontine/internal/metrics"
	"github.com/tontine-app/tontine/internal/models"
)

// Notification is a short title/body pair.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notifier delivers a notification to one user. Implementations return nil
// when the user has no destination for their channel.
type Notifier interface {
	Notify(ctx context.Context, user *models.User, n Notification) error
}

// Noop discards every notification.
type Noop struct{}

func (Noop) Notify(context.Context, *models.User, Notification) error { return nil }

// Multi sends through every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, user *models.User, n Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, user, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DefaultSendTimeout bounds one background delivery.
const DefaultSendTimeout = 10 * time.Second

// Dispatcher wraps a Notifier for callers that must never fail or wait
// because of a notification. Deliveries run in the background under their
// own deadline; errors are counted and logged, then discarded.
type Dispatcher struct {
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewDispatcher returns a Dispatcher. A nil notifier behaves like Noop.
func NewDispatcher(n Notifier, m *metrics.Metrics, logger *slog.Logger) *Dispatcher {
	if n == nil {
		n = Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{notifier: n, metrics: m, logger: logger, timeout: DefaultSendTimeout}
}

// WithTimeout sets the deadline of each delivery.
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	if timeout > 0 {
		d.timeout = timeout
	}
	return d
}

// Send queues delivery of n to user and returns immediately. The delivery
// outlives ctx's cancellation but keeps its values.
func (d *Dispatcher) Send(ctx context.Context, user *models.User, n Notification) {
	if d == nil || user == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		err := d.notifier.Notify(sendCtx, user, n)
		d.metrics.Notification("offline", err)
		if err != nil {
			d.logger.Warn("Notification failed", "user_id", user.ID, "title", n.Title, "error", err)
		}
	}()
}

// Wait blocks until every queued delivery has finished.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
