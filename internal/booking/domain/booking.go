package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	trainDomain "github.com/mateusmacedo/go-railway/internal/train/domain"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
)

// ErrAlreadyCancelled indica uma segunda tentativa de cancelar a mesma reserva.
var ErrAlreadyCancelled = errors.New("booking already cancelled")

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Booking só muda uma vez: de confirmed para cancelled.
type Booking struct {
	ID          string      `json:"id" gorm:"primaryKey"`
	UserID      string      `json:"userId" gorm:"index"`
	TrainID     string      `json:"trainId" gorm:"index"`
	Passengers  []Passenger `json:"passengers" gorm:"serializer:json;type:jsonb"`
	TotalAmount float64     `json:"totalAmount"`
	Status      Status      `json:"status" gorm:"type:varchar(16);index"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (b Booking) SeatCount() int {
	return len(b.Passengers)
}

func (b Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// BookingRepository persiste reservas. MarkCancelled é a virada condicional
// confirmed -> cancelled: devolve ErrAlreadyCancelled quando a reserva já não
// está confirmada, de modo que dois cancelamentos simultâneos não liberem os
// assentos duas vezes.
type BookingRepository interface {
	Save(ctx context.Context, booking Booking) error
	FindByID(ctx context.Context, id string) (Booking, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
	ListAll(ctx context.Context) ([]Booking, error)
	MarkCancelled(ctx context.Context, id string, at time.Time) (Booking, error)
}

// TrainCatalog é o que o fluxo de reserva precisa saber sobre trens.
type TrainCatalog interface {
	FindByID(ctx context.Context, id string) (trainDomain.Train, error)
}

func NotFoundError(bookingID string) error {
	return fmt.Errorf("booking %s: %w", bookingID, pkgDomain.ErrNotFound)
}

func AlreadyCancelledError(bookingID string) error {
	return fmt.Errorf("booking %s: %w", bookingID, ErrAlreadyCancelled)
}

func ForbiddenError(bookingID string) error {
	return fmt.Errorf("not authorized to access booking %s: %w", bookingID, pkgDomain.ErrForbidden)
}

// SortNewestFirst ordena por criação decrescente, com desempate estável pelo id.
func SortNewestFirst(bookings []Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].ID > bookings[j].ID
		}
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
}

func validationError(problems []string) error {
	return fmt.Errorf("%w: %s", pkgDomain.ErrValidation, strings.Join(problems, "; "))
}
