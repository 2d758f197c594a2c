package application

import (
	"context"
	"time"

	"github.com/mateusmacedo/go-railway/internal/booking/domain"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
)

const (
	BookingConfirmedEvent = "BookingConfirmed"
	BookingCancelledEvent = "BookingCancelled"
)

// BookingEventData é o payload publicado depois que uma reserva é gravada ou
// cancelada. SeatsReleased só é relevante para BookingCancelled.
type BookingEventData struct {
	BookingID     string        `json:"bookingId"`
	UserID        string        `json:"userId"`
	TrainID       string        `json:"trainId"`
	Seats         int           `json:"seats"`
	TotalAmount   float64       `json:"totalAmount"`
	Status        domain.Status `json:"status"`
	SeatsReleased bool          `json:"seatsReleased,omitempty"`
	OccurredAt    time.Time     `json:"occurredAt"`
}

type BookingEventBus = pkgApp.EventBus[pkgDomain.Event[BookingEventData], BookingEventData]

func newBookingEventData(booking domain.Booking, at time.Time) BookingEventData {
	return BookingEventData{
		BookingID:   booking.ID,
		UserID:      booking.UserID,
		TrainID:     booking.TrainID,
		Seats:       booking.SeatCount(),
		TotalAmount: booking.TotalAmount,
		Status:      booking.Status,
		OccurredAt:  at,
	}
}

func NewBookingConfirmedEvent(data BookingEventData) pkgDomain.Event[BookingEventData] {
	return pkgDomain.NewEvent(BookingConfirmedEvent, data)
}

func NewBookingCancelledEvent(data BookingEventData) pkgDomain.Event[BookingEventData] {
	return pkgDomain.NewEvent(BookingCancelledEvent, data)
}

type bookingAuditHandler struct {
	logger pkgApp.AppLogger
}

// Handle registra cada evento de reserva recebido do transporte.
func (h *bookingAuditHandler) Handle(ctx context.Context, event pkgDomain.Event[BookingEventData]) error {
	payload := event.Payload()
	pkgApp.LogInfo(ctx, h.logger, "Evento de reserva recebido", map[string]interface{}{
		"event_name":     event.EventName(),
		"booking_id":     payload.BookingID,
		"user_id":        payload.UserID,
		"train_id":       payload.TrainID,
		"seats":          payload.Seats,
		"status":         string(payload.Status),
		"seats_released": payload.SeatsReleased,
	})
	return nil
}

func NewBookingAuditHandler(logger pkgApp.AppLogger) pkgApp.EventHandler[pkgDomain.Event[BookingEventData], BookingEventData] {
	return &bookingAuditHandler{logger: logger}
}
