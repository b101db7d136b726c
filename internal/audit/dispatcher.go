package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Event struct {
	ActorID  *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Writer persists one audit event.
type Writer interface {
	Write(ctx context.Context, ev Event) error
}

// Hooks lets the caller observe written and dropped events (metrics).
type Hooks struct {
	OnWritten func()
	OnDropped func()
}

// Dispatcher writes audit events on a background goroutine so request
// handlers never wait on them. A nil *Dispatcher discards events.
type Dispatcher struct {
	writer Writer
	log    *zap.Logger
	hooks  Hooks

	queue chan Event
	done  chan struct{}
	once  sync.Once
}

func NewDispatcher(w Writer, log *zap.Logger, bufferSize int, hooks Hooks) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		writer: w,
		log:    log,
		hooks:  hooks,
		queue:  make(chan Event, bufferSize),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := d.writer.Write(ctx, ev)
		cancel()

		if err != nil {
			d.log.Error("audit write failed",
				zap.String("action", ev.Action),
				zap.String("entity", ev.Entity),
				zap.Error(err),
			)
			continue
		}
		if d.hooks.OnWritten != nil {
			d.hooks.OnWritten()
		}
	}
}

// Dispatch enqueues ev, dropping it when the buffer is full.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
		if d.hooks.OnDropped != nil {
			d.hooks.OnDropped()
		}
	}
}

// Close stops accepting events and waits for the queue to drain or ctx to
// expire. Dispatch must not be called after Close.
func (d *Dispatcher) Close(ctx context.Context) error {
	if d == nil {
		return nil
	}
	d.once.Do(func() { close(d.queue) })

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
