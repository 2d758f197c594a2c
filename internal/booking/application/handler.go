package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mateusmacedo/go-railway/internal/booking/domain"
	"github.com/mateusmacedo/go-railway/internal/identity"
	trainDomain "github.com/mateusmacedo/go-railway/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
)

func requireAuthenticated(requester identity.Identity) error {
	if requester.UserID == "" {
		return fmt.Errorf("%w: no caller identity", pkgDomain.ErrUnauthenticated)
	}
	return nil
}

type createBookingHandler struct {
	repository  domain.BookingRepository
	catalog     domain.TrainCatalog
	ledger      trainDomain.Ledger
	releaser    seatReleaser
	eventBus    BookingEventBus
	idGenerator pkgDomain.IDGenerator[string]
	clock       pkgDomain.Clock
	logger      pkgApp.AppLogger
}

// Handle reserva os assentos antes de gravar a reserva. Se a gravação falhar
// os assentos são devolvidos, de modo que {reserve, persist} é tudo ou nada.
func (h *createBookingHandler) Handle(ctx context.Context, command pkgDomain.Command[CreateBookingData]) (domain.Booking, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return domain.Booking{}, ctx.Err()
	}

	data := command.Payload()
	if err := requireAuthenticated(data.Requester); err != nil {
		return domain.Booking{}, err
	}

	trainID := strings.TrimSpace(data.TrainID)
	if trainID == "" {
		return domain.Booking{}, fmt.Errorf("%w: trainId is required", pkgDomain.ErrValidation)
	}
	passengers, err := domain.NormalizePassengers(data.Passengers)
	if err != nil {
		return domain.Booking{}, err
	}

	train, err := h.catalog.FindByID(ctx, trainID)
	if err != nil {
		return domain.Booking{}, err
	}

	seats := len(passengers)
	if err := h.ledger.Reserve(ctx, train.ID, seats); err != nil {
		return domain.Booking{}, err
	}

	now := h.clock()
	booking := domain.Booking{
		ID:          h.idGenerator(),
		UserID:      data.Requester.UserID,
		TrainID:     train.ID,
		Passengers:  passengers,
		TotalAmount: train.Price * float64(seats),
		Status:      domain.StatusConfirmed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.repository.Save(ctx, booking); err != nil {
		pkgApp.LogError(ctx, h.logger, "Erro ao salvar reserva, devolvendo assentos", err, map[string]interface{}{
			"booking_id": booking.ID,
			"train_id":   train.ID,
			"seats":      seats,
		})
		if releaseErr := h.releaser.release(ctx, train.ID, seats); releaseErr != nil {
			pkgApp.LogError(ctx, h.logger, "Erro ao devolver assentos reservados", releaseErr, map[string]interface{}{
				"train_id": train.ID,
				"seats":    seats,
			})
		}
		return domain.Booking{}, err
	}

	pkgApp.LogInfo(ctx, h.logger, "Reserva confirmada", map[string]interface{}{
		"booking_id":   booking.ID,
		"user_id":      booking.UserID,
		"train_id":     booking.TrainID,
		"seats":        seats,
		"total_amount": booking.TotalAmount,
	})

	publish(ctx, h.eventBus, h.logger, NewBookingConfirmedEvent(newBookingEventData(booking, now)))
	return booking, nil
}

func NewCreateBookingHandler(
	repo domain.BookingRepository,
	catalog domain.TrainCatalog,
	ledger trainDomain.Ledger,
	policy ReleasePolicy,
	eventBus BookingEventBus,
	idGenerator pkgDomain.IDGenerator[string],
	clock pkgDomain.Clock,
	logger pkgApp.AppLogger,
) pkgApp.CommandHandler[pkgDomain.Command[CreateBookingData], CreateBookingData, domain.Booking] {
	return &createBookingHandler{
		repository:  repo,
		catalog:     catalog,
		ledger:      ledger,
		releaser:    seatReleaser{ledger: ledger, policy: policy, logger: logger},
		eventBus:    eventBus,
		idGenerator: idGenerator,
		clock:       clock,
		logger:      logger,
	}
}

type cancelBookingHandler struct {
	repository domain.BookingRepository
	releaser   seatReleaser
	eventBus   BookingEventBus
	clock      pkgDomain.Clock
	logger     pkgApp.AppLogger
}

// Handle grava o cancelamento e só então devolve os assentos, com novas
// tentativas. Se o trem não existe mais a devolução é ignorada.
func (h *cancelBookingHandler) Handle(ctx context.Context, command pkgDomain.Command[CancelBookingData]) (domain.Booking, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return domain.Booking{}, ctx.Err()
	}

	data := command.Payload()
	if err := requireAuthenticated(data.Requester); err != nil {
		return domain.Booking{}, err
	}

	booking, err := h.repository.FindByID(ctx, data.BookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if !data.Requester.CanAccess(booking.UserID) {
		pkgApp.LogInfo(ctx, h.logger, "Cancelamento recusado", map[string]interface{}{
			"booking_id": booking.ID,
			"user_id":    data.Requester.UserID,
		})
		return domain.Booking{}, domain.ForbiddenError(booking.ID)
	}
	if booking.IsCancelled() {
		return domain.Booking{}, domain.AlreadyCancelledError(booking.ID)
	}

	now := h.clock()
	cancelled, err := h.repository.MarkCancelled(ctx, booking.ID, now)
	if err != nil {
		return domain.Booking{}, err
	}

	event := newBookingEventData(cancelled, now)
	switch err := h.releaser.release(ctx, cancelled.TrainID, cancelled.SeatCount()); {
	case err == nil:
		event.SeatsReleased = true
	case errors.Is(err, pkgDomain.ErrNotFound):
		pkgApp.LogWarn(ctx, h.logger, "Trem não existe mais, assentos não devolvidos", err, map[string]interface{}{
			"booking_id": cancelled.ID,
			"train_id":   cancelled.TrainID,
		})
	default:
		pkgApp.LogError(ctx, h.logger, "Assentos não devolvidos após o cancelamento", err, map[string]interface{}{
			"booking_id": cancelled.ID,
			"train_id":   cancelled.TrainID,
			"seats":      cancelled.SeatCount(),
		})
	}

	pkgApp.LogInfo(ctx, h.logger, "Reserva cancelada", map[string]interface{}{
		"booking_id":     cancelled.ID,
		"cancelled_by":   data.Requester.UserID,
		"seats_released": event.SeatsReleased,
	})

	publish(ctx, h.eventBus, h.logger, NewBookingCancelledEvent(event))
	return cancelled, nil
}

func NewCancelBookingHandler(
	repo domain.BookingRepository,
	ledger trainDomain.Ledger,
	policy ReleasePolicy,
	eventBus BookingEventBus,
	clock pkgDomain.Clock,
	logger pkgApp.AppLogger,
) pkgApp.CommandHandler[pkgDomain.Command[CancelBookingData], CancelBookingData, domain.Booking] {
	return &cancelBookingHandler{
		repository: repo,
		releaser:   seatReleaser{ledger: ledger, policy: policy, logger: logger},
		eventBus:   eventBus,
		clock:      clock,
		logger:     logger,
	}
}

// publish nunca desfaz uma operação já gravada; falhas só são registradas.
func publish(ctx context.Context, bus BookingEventBus, logger pkgApp.AppLogger, event pkgDomain.Event[BookingEventData]) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, event); err != nil {
		pkgApp.LogError(ctx, logger, "Erro ao publicar evento", err, map[string]interface{}{
			"event_name": event.EventName(),
			"booking_id": event.Payload().BookingID,
		})
	}
}
