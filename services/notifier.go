package services

import (
	"context"

	"jobportal/tasks-service/models"

	"github.com/sony/gobreaker"
)

// NotificationStore persists per-user notification feed entries.
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// BreakerNotifier pushes notifications through a circuit breaker so a
// struggling notification store cannot slow down task mutations.
type BreakerNotifier struct {
	store   NotificationStore
	breaker *gobreaker.CircuitBreaker
}

func NewBreakerNotifier(store NotificationStore, breaker *gobreaker.CircuitBreaker) *BreakerNotifier {
	return &BreakerNotifier{store: store, breaker: breaker}
}

func (n *BreakerNotifier) Push(ctx context.Context, notification models.Notification) error {
	_, err := n.breaker.Execute(func() (interface{}, error) {
		return nil, n.store.Create(ctx, &notification)
	})
	return err
}
