package audit

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

const queueSize = 100

type Event struct {
	UserID   *string
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Writer persists one event.
type Writer interface {
	Log(ctx context.Context, ev Event) error
}

// Publisher receives every dispatched event after it is written.
type Publisher interface {
	PublishAudit(ev Event)
}

// Dispatcher writes audit events off the request path. A full queue drops
// the event; audit never fails a request.
type Dispatcher struct {
	writer     Writer
	publishers []Publisher
	log        *zap.Logger
	queue      chan Event

	once sync.Once
	done chan struct{}
}

func NewDispatcher(writer Writer, log *zap.Logger, publishers ...Publisher) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		writer:     writer,
		publishers: publishers,
		log:        log,
		queue:      make(chan Event, queueSize),
		done:       make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.writer.Log(context.Background(), ev); err != nil {
			d.log.Error("audit write failed",
				zap.String("action", ev.Action),
				zap.Error(err),
			)
		}
		for _, p := range d.publishers {
			p.PublishAudit(ev)
		}
	}
}

// Dispatch is safe on a nil dispatcher.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for the queue to drain or ctx to
// end. Dispatch must not be called after Close.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.once.Do(func() { close(d.queue) })
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
