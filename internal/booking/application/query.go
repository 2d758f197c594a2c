package application

import (
	"github.com/mateusmacedo/go-railway/internal/booking/domain"
	"github.com/mateusmacedo/go-railway/internal/identity"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
)

const (
	GetBookingQuery       = "GetBooking"
	ListUserBookingsQuery = "ListUserBookings"
	ListAllBookingsQuery  = "ListAllBookings"
)

type GetBookingData struct {
	Requester identity.Identity
	BookingID string
}

type ListBookingsData struct {
	Requester identity.Identity
}

type (
	GetBookingBus   = pkgApp.QueryBus[pkgDomain.Query[GetBookingData], GetBookingData, domain.Booking]
	ListBookingsBus = pkgApp.QueryBus[pkgDomain.Query[ListBookingsData], ListBookingsData, []domain.Booking]
)

func NewGetBookingQuery(data GetBookingData) pkgDomain.Query[GetBookingData] {
	return pkgDomain.NewQuery(GetBookingQuery, data)
}

// NewListUserBookingsQuery lista as reservas do próprio solicitante.
func NewListUserBookingsQuery(data ListBookingsData) pkgDomain.Query[ListBookingsData] {
	return pkgDomain.NewQuery(ListUserBookingsQuery, data)
}

// NewListAllBookingsQuery lista todas as reservas; exige administrador.
func NewListAllBookingsQuery(data ListBookingsData) pkgDomain.Query[ListBookingsData] {
	return pkgDomain.NewQuery(ListAllBookingsQuery, data)
}
