package application

import (
	"github.com/mateusmacedo/go-railway/internal/booking/domain"
	"github.com/mateusmacedo/go-railway/internal/identity"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
)

const (
	CreateBookingCommand = "CreateBooking"
	CancelBookingCommand = "CancelBooking"
)

// CreateBookingData contém o pedido de reserva. O valor total é sempre
// calculado pelo servidor.
type CreateBookingData struct {
	Requester  identity.Identity  `json:"-"`
	TrainID    string             `json:"trainId"`
	Passengers []domain.Passenger `json:"passengers"`
}

type CancelBookingData struct {
	Requester identity.Identity
	BookingID string
}

type (
	CreateBookingBus = pkgApp.CommandBus[pkgDomain.Command[CreateBookingData], CreateBookingData, domain.Booking]
	CancelBookingBus = pkgApp.CommandBus[pkgDomain.Command[CancelBookingData], CancelBookingData, domain.Booking]
)

func NewCreateBookingCommand(data CreateBookingData) pkgDomain.Command[CreateBookingData] {
	return pkgDomain.NewCommand(CreateBookingCommand, data)
}

func NewCancelBookingCommand(data CancelBookingData) pkgDomain.Command[CancelBookingData] {
	return pkgDomain.NewCommand(CancelBookingCommand, data)
}
