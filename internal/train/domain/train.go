package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
)

// ErrInsufficientInventory indica que o trem não tem assentos livres suficientes.
var ErrInsufficientInventory = errors.New("insufficient inventory")

const timeOfDayLayout = "15:04"

// Train é o agregado de inventário. AvailableSeats só é alterado pelo Ledger.
type Train struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name"`
	Number         string    `json:"number" gorm:"uniqueIndex"`
	Source         string    `json:"source" gorm:"index"`
	Destination    string    `json:"destination" gorm:"index"`
	DepartureTime  string    `json:"departureTime"`
	ArrivalTime    string    `json:"arrivalTime"`
	TotalSeats     int       `json:"totalSeats"`
	AvailableSeats int       `json:"availableSeats"`
	Price          float64   `json:"price"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Validate verifica os campos descritivos e a invariante dos contadores.
func (t Train) Validate() error {
	var problems []string

	if strings.TrimSpace(t.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(t.Number) == "" {
		problems = append(problems, "number is required")
	}
	if strings.TrimSpace(t.Source) == "" {
		problems = append(problems, "source is required")
	}
	if strings.TrimSpace(t.Destination) == "" {
		problems = append(problems, "destination is required")
	}
	if !isTimeOfDay(t.DepartureTime) {
		problems = append(problems, "departureTime must be HH:MM")
	}
	if !isTimeOfDay(t.ArrivalTime) {
		problems = append(problems, "arrivalTime must be HH:MM")
	}
	if t.TotalSeats < 1 {
		problems = append(problems, "totalSeats must be at least 1")
	}
	if t.AvailableSeats < 0 || t.AvailableSeats > t.TotalSeats {
		problems = append(problems, "availableSeats must be between 0 and totalSeats")
	}
	if t.Price < 0 {
		problems = append(problems, "price must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", pkgDomain.ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

func isTimeOfDay(value string) bool {
	if len(value) != len(timeOfDayLayout) {
		return false
	}
	_, err := time.Parse(timeOfDayLayout, value)
	return err == nil
}

// TrainFilter filtra por substring, sem diferenciar maiúsculas, na origem e/ou
// no destino. O filtro vazio seleciona todos os trens.
type TrainFilter struct {
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination,omitempty"`
}

func (f TrainFilter) Normalize() TrainFilter {
	return TrainFilter{
		Source:      strings.TrimSpace(f.Source),
		Destination: strings.TrimSpace(f.Destination),
	}
}

func (f TrainFilter) IsZero() bool {
	return f.Source == "" && f.Destination == ""
}

func (f TrainFilter) Matches(t Train) bool {
	return containsFold(t.Source, f.Source) && containsFold(t.Destination, f.Destination)
}

func containsFold(value, part string) bool {
	return part == "" || strings.Contains(strings.ToLower(value), strings.ToLower(part))
}

// TrainRepository persiste trens. Update grava apenas os campos descritivos;
// TotalSeats e AvailableSeats nunca são sobrescritos por ele.
//
// List devolve os trens mais recentes primeiro quando o filtro é vazio e, caso
// contrário, ordenados pelo horário de partida.
type TrainRepository interface {
	Save(ctx context.Context, train Train) error
	Update(ctx context.Context, train Train) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (Train, error)
	List(ctx context.Context, filter TrainFilter) ([]Train, error)
}

// Ledger é a única autoridade sobre os contadores de assentos. Cada operação é
// um read-modify-write atômico sobre um único trem.
//
// Reserve falha com ErrInsufficientInventory sem alterar nada quando não há
// assentos suficientes. Release nunca deixa AvailableSeats passar de TotalSeats.
// Ambos falham com ErrNotFound quando o trem não existe.
type Ledger interface {
	Reserve(ctx context.Context, trainID string, seats int) error
	Release(ctx context.Context, trainID string, seats int) error
}

func NotFoundError(trainID string) error {
	return fmt.Errorf("train %s: %w", trainID, pkgDomain.ErrNotFound)
}

func InsufficientInventoryError(trainID string, requested, available int) error {
	return fmt.Errorf("train %s: requested %d seats, %d available: %w", trainID, requested, available, ErrInsufficientInventory)
}

func DuplicateNumberError(number string) error {
	return fmt.Errorf("train with number %s already exists: %w", number, pkgDomain.ErrConflict)
}
