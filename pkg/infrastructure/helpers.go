package infrastructure

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNoHandler indica que nenhum manipulador foi registrado para o nome despachado.
var ErrNoHandler = errors.New("no handler registered")

func GenerateUUID() string {
	return uuid.New().String()
}
