package infrastructure

import (
	"context"
	"sync"
	"time"

	"github.com/mateusmacedo/go-railway/internal/booking/domain"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
)

type InMemoryBookingRepository struct {
	mu     sync.RWMutex
	data   map[string]domain.Booking
	logger pkgApp.AppLogger
}

var _ domain.BookingRepository = (*InMemoryBookingRepository)(nil)

func NewInMemoryBookingRepository(logger pkgApp.AppLogger) *InMemoryBookingRepository {
	return &InMemoryBookingRepository{
		data:   make(map[string]domain.Booking),
		logger: logger,
	}
}

func (r *InMemoryBookingRepository) Save(ctx context.Context, booking domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking.Passengers = append([]domain.Passenger(nil), booking.Passengers...)
	r.data[booking.ID] = booking

	pkgApp.LogDebug(ctx, r.logger, "booking saved", map[string]interface{}{"booking_id": booking.ID})
	return nil
}

func (r *InMemoryBookingRepository) FindByID(_ context.Context, id string) (domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, exists := r.data[id]
	if !exists {
		return domain.Booking{}, domain.NotFoundError(id)
	}
	return booking, nil
}

func (r *InMemoryBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return r.list(func(b domain.Booking) bool { return b.UserID == userID }), nil
}

func (r *InMemoryBookingRepository) ListAll(context.Context) ([]domain.Booking, error) {
	return r.list(func(domain.Booking) bool { return true }), nil
}

func (r *InMemoryBookingRepository) MarkCancelled(ctx context.Context, id string, at time.Time) (domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, exists := r.data[id]
	if !exists {
		return domain.Booking{}, domain.NotFoundError(id)
	}
	if booking.Status != domain.StatusConfirmed {
		return domain.Booking{}, domain.AlreadyCancelledError(id)
	}

	booking.Status = domain.StatusCancelled
	booking.UpdatedAt = at
	r.data[id] = booking

	pkgApp.LogDebug(ctx, r.logger, "booking marked cancelled", map[string]interface{}{"booking_id": id})
	return booking, nil
}

func (r *InMemoryBookingRepository) list(keep func(domain.Booking) bool) []domain.Booking {
	r.mu.RLock()
	bookings := make([]domain.Booking, 0, len(r.data))
	for _, booking := range r.data {
		if keep(booking) {
			bookings = append(bookings, booking)
		}
	}
	r.mu.RUnlock()

	domain.SortNewestFirst(bookings)
	return bookings
}
