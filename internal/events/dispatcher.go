package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Handler consome eventos de domínio (auditoria, e-mail, kafka...).
type Handler interface {
	Name() string
	Handle(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	log      *zap.Logger
	handlers []Handler
	queue    chan Event
	wg       sync.WaitGroup

	// mu protege queue contra envio depois do Close
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(log *zap.Logger, handlers ...Handler) *Dispatcher {
	d := &Dispatcher{
		log:      log,
		handlers: handlers,
		queue:    make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		for _, h := range d.handlers {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := h.Handle(ctx, ev); err != nil {
				d.log.Error("event handler failed",
					zap.String("handler", h.Name()),
					zap.String("event", ev.Name),
					zap.String("event_id", ev.ID),
					zap.Error(err),
				)
			}
			cancel()
		}
	}
}

// Dispatch nunca bloqueia a requisição: com a fila cheia ou já fechada o
// evento é descartado e logado.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("dispatcher closed, dropping event",
			zap.String("event", ev.Name),
			zap.String("event_id", ev.ID),
		)
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("event queue full, dropping event",
			zap.String("event", ev.Name),
			zap.String("event_id", ev.ID),
		)
	}
}

// Close esvazia a fila e espera o worker terminar.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
