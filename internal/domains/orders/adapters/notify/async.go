package notify

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/minglemakers/minglemakers-api/internal/domains/orders/ports"
)

const defaultBuffer = 64

var _ ports.NotificationSink = (*Async)(nil)

// Async delivers notifications to an inner sink from a single goroutine so the
// caller never blocks. When the buffer is full the message is dropped and logged.
type Async struct {
	inner  ports.NotificationSink
	logger *slog.Logger
	queue  chan string

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

type AsyncOption func(*Async)

// WithBuffer sets the queue capacity.
func WithBuffer(size int) AsyncOption {
	return func(a *Async) {
		if size > 0 {
			a.queue = make(chan string, size)
		}
	}
}

// WithDropLogger sets the logger used to report dropped messages.
func WithDropLogger(logger *slog.Logger) AsyncOption {
	return func(a *Async) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAsync starts the delivery goroutine. Call Close to drain and stop it.
func NewAsync(inner ports.NotificationSink, opts ...AsyncOption) *Async {
	a := &Async{
		inner:  inner,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		queue:  make(chan string, defaultBuffer),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	go a.run()
	return a
}

func (a *Async) Notify(ctx context.Context, message string) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		a.logger.LogAttrs(ctx, slog.LevelWarn, "notification dropped: sink closed", slog.String("message", message))
		return
	}
	select {
	case a.queue <- message:
	default:
		a.logger.LogAttrs(ctx, slog.LevelWarn, "notification dropped: buffer full", slog.String("message", message))
	}
}

// Close stops accepting messages and waits until queued ones are delivered or ctx ends.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Async) run() {
	defer close(a.done)
	for message := range a.queue {
		if a.inner != nil {
			a.inner.Notify(context.Background(), message)
		}
	}
}
