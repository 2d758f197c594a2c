package domain

import "errors"

// Categorias de erro compartilhadas entre os slices. Erros concretos embrulham
// uma destas com fmt.Errorf("...: %w", ...) e são classificados com errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
)
