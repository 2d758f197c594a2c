package domain

import "time"

// IDGenerator gera identificadores para novos agregados.
type IDGenerator[T any] func() T

// Clock devolve o instante atual; substituível em testes.
type Clock func() time.Time
