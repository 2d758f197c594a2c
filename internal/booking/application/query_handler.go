package application

import (
	"context"
	"fmt"

	"github.com/mateusmacedo/go-railway/internal/booking/domain"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
)

type getBookingHandler struct {
	repository domain.BookingRepository
	logger     pkgApp.AppLogger
}

func (h *getBookingHandler) Handle(ctx context.Context, query pkgDomain.Query[GetBookingData]) (domain.Booking, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return domain.Booking{}, ctx.Err()
	}

	data := query.Payload()
	if err := requireAuthenticated(data.Requester); err != nil {
		return domain.Booking{}, err
	}

	booking, err := h.repository.FindByID(ctx, data.BookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if !data.Requester.CanAccess(booking.UserID) {
		return domain.Booking{}, domain.ForbiddenError(booking.ID)
	}
	return booking, nil
}

func NewGetBookingHandler(repo domain.BookingRepository, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[GetBookingData], GetBookingData, domain.Booking] {
	return &getBookingHandler{repository: repo, logger: logger}
}

type listUserBookingsHandler struct {
	repository domain.BookingRepository
	logger     pkgApp.AppLogger
}

func (h *listUserBookingsHandler) Handle(ctx context.Context, query pkgDomain.Query[ListBookingsData]) ([]domain.Booking, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return nil, ctx.Err()
	}

	requester := query.Payload().Requester
	if err := requireAuthenticated(requester); err != nil {
		return nil, err
	}

	bookings, err := h.repository.ListByUser(ctx, requester.UserID)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "Erro ao listar reservas", err, map[string]interface{}{"user_id": requester.UserID})
		return nil, err
	}
	return bookings, nil
}

func NewListUserBookingsHandler(repo domain.BookingRepository, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[ListBookingsData], ListBookingsData, []domain.Booking] {
	return &listUserBookingsHandler{repository: repo, logger: logger}
}

type listAllBookingsHandler struct {
	repository domain.BookingRepository
	logger     pkgApp.AppLogger
}

func (h *listAllBookingsHandler) Handle(ctx context.Context, query pkgDomain.Query[ListBookingsData]) ([]domain.Booking, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return nil, ctx.Err()
	}

	requester := query.Payload().Requester
	if err := requireAuthenticated(requester); err != nil {
		return nil, err
	}
	if !requester.IsAdmin {
		return nil, fmt.Errorf("listing every booking requires an administrator: %w", pkgDomain.ErrForbidden)
	}

	bookings, err := h.repository.ListAll(ctx)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "Erro ao listar reservas", err, nil)
		return nil, err
	}
	return bookings, nil
}

func NewListAllBookingsHandler(repo domain.BookingRepository, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[ListBookingsData], ListBookingsData, []domain.Booking] {
	return &listAllBookingsHandler{repository: repo, logger: logger}
}
