package application

import (
	"context"

	"github.com/mateusmacedo/go-railway/pkg/domain"
)

type EventHandler[E domain.Event[T], T any] interface {
	Handle(ctx context.Context, event E) error
}

// EventBus publica eventos de domínio. Close encerra as assinaturas abertas
// por RegisterHandler.
type EventBus[E domain.Event[D], D any] interface {
	RegisterHandler(eventName string, handler EventHandler[E, D]) error
	Publish(ctx context.Context, event E) error
	Close() error
}

// EventHandlerFunc adapta uma função comum a EventHandler.
type EventHandlerFunc[E domain.Event[T], T any] func(ctx context.Context, event E) error

func (f EventHandlerFunc[E, T]) Handle(ctx context.Context, event E) error {
	return f(ctx, event)
}
