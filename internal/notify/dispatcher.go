package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/taskr/internal/events"
	"github.com/phrazzld/taskr/internal/metrics"
	"github.com/phrazzld/taskr/internal/redact"
	"github.com/sethvargo/go-retry"
)

// ErrDispatcherClosed is returned by HandleEvent after Stop.
var ErrDispatcherClosed = errors.New("notification dispatcher is closed")

// DispatcherConfig sizes the dispatcher.
type DispatcherConfig struct {
	QueueSize  int
	Workers    int
	MaxRetries int
	RetryBase  time.Duration // First retry delay, doubled on each attempt
}

// DefaultDispatcherConfig returns the defaults used when a value is unset.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		QueueSize:  100,
		Workers:    2,
		MaxRetries: 3,
		RetryBase:  500 * time.Millisecond,
	}
}

// Dispatcher queues notifications and delivers them from a worker pool.
type Dispatcher struct {
	sender Sender
	cfg    DispatcherConfig
	queue  chan Message

	mu      sync.RWMutex
	closed  bool
	started bool

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

var _ events.EventHandler = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher. Non-positive sizes fall back to
// DefaultDispatcherConfig.
func NewDispatcher(sender Sender, cfg DispatcherConfig, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultDispatcherConfig()
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = def.RetryBase
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		sender: sender,
		cfg:    cfg,
		queue:  make(chan Message, cfg.QueueSize),
		ctx:    ctx,
		cancel: cancel,
		logger: logger.With(slog.String("component", "notify_dispatcher")),
	}
}

// Start launches the workers. Calling Start more than once has no effect.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	d.logger.Info("starting notification workers", slog.Int("worker_count", d.cfg.Workers))
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

// HandleEvent implements events.EventHandler. It never blocks: when the
// queue is full the notification is dropped with a warning.
func (d *Dispatcher) HandleEvent(ctx context.Context, event *events.AccountEvent) error {
	msg, ok := Compose(event)
	if !ok {
		return nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- msg:
		d.logger.Debug("notification queued",
			slog.String("kind", msg.Kind),
			slog.Int("queue_len", len(d.queue)))
	default:
		metrics.RecordNotification(msg.Kind, metrics.NotificationDropped)
		d.logger.Warn("notification queue full, dropping notification",
			slog.String("kind", msg.Kind),
			slog.String("user_id", event.UserID.String()),
			slog.Int("queue_cap", cap(d.queue)))
	}
	return nil
}

// Stop stops accepting notifications and waits for queued ones to be
// delivered. If ctx ends first, in-flight retries are abandoned and
// ctx.Err() is returned.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		d.logger.Info("notification workers stopped")
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		d.logger.Warn("notification workers stopped before queue drained")
		return ctx.Err()
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	log := d.logger.With(slog.Int("worker_id", id))

	for msg := range d.queue {
		if d.ctx.Err() != nil {
			metrics.RecordNotification(msg.Kind, metrics.NotificationDropped)
			continue
		}
		d.deliver(log, msg)
	}
}

// deliver sends msg, retrying with exponential backoff.
func (d *Dispatcher) deliver(log *slog.Logger, msg Message) {
	backoff := retry.WithMaxRetries(uint64(d.cfg.MaxRetries), retry.NewExponential(d.cfg.RetryBase))

	attempts := 0
	err := retry.Do(d.ctx, backoff, func(ctx context.Context) error {
		attempts++
		if err := d.sender.Send(ctx, msg); err != nil {
			log.Debug("notification attempt failed",
				slog.String("kind", msg.Kind),
				slog.Int("attempt", attempts),
				slog.String("error", redact.Error(err)))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		metrics.RecordNotification(msg.Kind, metrics.NotificationFailed)
		log.Error("notification delivery failed",
			slog.String("kind", msg.Kind),
			slog.Int("attempts", attempts),
			slog.String("error", redact.Error(err)))
		return
	}

	metrics.RecordNotification(msg.Kind, metrics.NotificationSent)
	log.Debug("notification delivered", slog.String("kind", msg.Kind), slog.Int("attempts", attempts))
}
