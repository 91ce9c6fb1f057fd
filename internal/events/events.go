package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dokon/internal/domain"
)

type Type string

const (
	TransactionRecorded Type = "TransactionRecorded"
	TransactionDeleted  Type = "TransactionDeleted"
)

type Kind string

const (
	KindSale     Kind = "sale"
	KindPurchase Kind = "purchase"
	KindExpense  Kind = "expense"
	KindSalary   Kind = "salary"
)

// Event is published after a transaction row is created or deleted. Year and
// Month name the period the row counts toward.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Kind       Kind      `json:"kind"`
	RecordID   int64     `json:"recordId"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewRecorded(kind Kind, recordID int64, period domain.Period) Event {
	return newEvent(TransactionRecorded, kind, recordID, period)
}

func NewDeleted(kind Kind, recordID int64, period domain.Period) Event {
	return newEvent(TransactionDeleted, kind, recordID, period)
}

func newEvent(t Type, kind Kind, recordID int64, period domain.Period) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       t,
		Kind:       kind,
		RecordID:   recordID,
		Year:       period.Year,
		Month:      int(period.Month),
		OccurredAt: time.Now().UTC(),
	}
}

func (e Event) Period() domain.Period {
	return domain.Period{Year: e.Year, Month: time.Month(e.Month)}
}

type Handler interface {
	Handle(ctx context.Context, e Event) error
}

type HandlerFunc func(ctx context.Context, e Event) error

func (f HandlerFunc) Handle(ctx context.Context, e Event) error {
	return f(ctx, e)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type subscription struct {
	name    string
	handler Handler
}

// Dispatcher delivers events synchronously, in subscription order. Every
// handler runs even when an earlier one fails.
type Dispatcher struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *zap.Logger
}

func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

func (d *Dispatcher) Subscribe(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subs = append(d.subs, subscription{name: name, handler: h})
}

func (d *Dispatcher) Publish(ctx context.Context, e Event) error {
	d.mu.RLock()
	subs := make([]subscription, len(d.subs))
	copy(subs, d.subs)
	d.mu.RUnlock()

	var errs []error
	for _, s := range subs {
		if err := s.handler.Handle(ctx, e); err != nil {
			d.logger.Error("event handler failed",
				zap.String("handler", s.name),
				zap.String("eventId", e.ID),
				zap.String("type", string(e.Type)),
				zap.String("kind", string(e.Kind)),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}

	return errors.Join(errs...)
}
