package conversation

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// AlertNotifier fans a persisted alert out to the care team.
type AlertNotifier interface {
	NotifyAlert(ctx context.Context, a Alert) error
}

// FailedAlert is an alert that exhausted its retries.
type FailedAlert struct {
	Alert    Alert     `json:"alert"`
	Attempts int       `json:"attempts"`
	LastErr  string    `json:"last_error"`
	FailedAt time.Time `json:"failed_at"`
}

// DeadLetterQueue holds alerts that could not be persisted so they can be
// inspected and re-driven.
type DeadLetterQueue struct {
	mu    sync.Mutex
	items []FailedAlert
}

func NewDeadLetterQueue() *DeadLetterQueue {
	return &DeadLetterQueue{}
}

func (q *DeadLetterQueue) Push(f FailedAlert) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, f)
}

func (q *DeadLetterQueue) List() []FailedAlert {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]FailedAlert, len(q.items))
	copy(out, q.items)
	return out
}

// drain removes and returns every queued alert.
func (q *DeadLetterQueue) drain() []FailedAlert {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

// AlertDispatcher persists alerts with bounded retries. Alerts that still
// fail land in the dead-letter queue instead of being dropped.
type AlertDispatcher struct {
	gateway   Gateway
	notifiers []AlertNotifier
	dlq       *DeadLetterQueue
	attempts  int
	backoff   time.Duration
}

func NewAlertDispatcher(gw Gateway, dlq *DeadLetterQueue, attempts int, backoff time.Duration, notifiers ...AlertNotifier) *AlertDispatcher {
	if attempts < 1 {
		attempts = 1
	}
	return &AlertDispatcher{
		gateway:   gw,
		notifiers: notifiers,
		dlq:       dlq,
		attempts:  attempts,
		backoff:   backoff,
	}
}

// Dispatch stores a and notifies the care team. It reports whether the alert
// was persisted; failures never propagate to the caller's conversation.
func (d *AlertDispatcher) Dispatch(ctx context.Context, a Alert) bool {
	var lastErr error
	wait := d.backoff
retry:
	for attempt := 1; attempt <= d.attempts; attempt++ {
		lastErr = d.gateway.CreateAlert(ctx, a)
		if lastErr == nil {
			d.notify(ctx, a)
			return true
		}
		log.Printf("Alert %s attempt %d/%d failed: %v", a.ID, attempt, d.attempts, lastErr)
		if attempt == d.attempts {
			break
		}
		select {
		case <-ctx.Done():
			lastErr = ctx.Err()
			break retry
		case <-time.After(wait):
		}
		wait *= 2
	}

	log.Printf("Alert %s for conversation %s moved to dead-letter queue", a.ID, a.ConversationID)
	d.dlq.Push(FailedAlert{
		Alert:    a,
		Attempts: d.attempts,
		LastErr:  lastErr.Error(),
		FailedAt: time.Now(),
	})
	return false
}

func (d *AlertDispatcher) notify(ctx context.Context, a Alert) {
	for _, n := range d.notifiers {
		if err := n.NotifyAlert(ctx, a); err != nil {
			log.Printf("Alert %s notification failed: %v", a.ID, err)
		}
	}
}

// Redrive retries every dead-lettered alert once more. Alerts that fail
// again are queued back. It returns how many were persisted.
func (d *AlertDispatcher) Redrive(ctx context.Context) (int, error) {
	items := d.dlq.drain()
	ok := 0
	for i, f := range items {
		if err := ctx.Err(); err != nil {
			for _, rest := range items[i:] {
				d.dlq.Push(rest)
			}
			return ok, fmt.Errorf("redrive interrupted: %w", err)
		}
		if err := d.gateway.CreateAlert(ctx, f.Alert); err != nil {
			f.Attempts++
			f.LastErr = err.Error()
			f.FailedAt = time.Now()
			d.dlq.Push(f)
			continue
		}
		d.notify(ctx, f.Alert)
		ok++
	}
	return ok, nil
}

func (d *AlertDispatcher) DeadLetters() []FailedAlert {
	return d.dlq.List()
}
