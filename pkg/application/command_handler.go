package application

import (
	"context"

	"github.com/mateusmacedo/go-railway/pkg/domain"
)

// CommandHandler define a interface para manipuladores de comando. O resultado
// R é o estado do agregado depois da alteração.
type CommandHandler[C domain.Command[T], T any, R any] interface {
	Handle(ctx context.Context, command C) (R, error)
}

// CommandBus define a interface para o barramento de comandos.
type CommandBus[C domain.Command[T], T any, R any] interface {
	RegisterHandler(commandName string, handler CommandHandler[C, T, R]) // Registra um manipulador de comando
	Dispatch(ctx context.Context, command C) (R, error)                  // Despacha um comando
}

// CommandHandlerFunc adapta uma função comum a CommandHandler.
type CommandHandlerFunc[C domain.Command[T], T any, R any] func(ctx context.Context, command C) (R, error)

func (f CommandHandlerFunc[C, T, R]) Handle(ctx context.Context, command C) (R, error) {
	return f(ctx, command)
}
