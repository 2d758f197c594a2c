package infrastructure

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mateusmacedo/go-railway/internal/booking/domain"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
)

// GormBookingRepository grava reservas no postgres; os passageiros ficam numa
// coluna jsonb.
type GormBookingRepository struct {
	db     *gorm.DB
	logger pkgApp.AppLogger
}

var _ domain.BookingRepository = (*GormBookingRepository)(nil)

func NewGormBookingRepository(db *gorm.DB, logger pkgApp.AppLogger) (*GormBookingRepository, error) {
	if err := db.AutoMigrate(&domain.Booking{}); err != nil {
		return nil, err
	}
	return &GormBookingRepository{db: db, logger: logger}, nil
}

func (r *GormBookingRepository) Save(ctx context.Context, booking domain.Booking) error {
	if err := r.db.WithContext(ctx).Create(&booking).Error; err != nil {
		pkgApp.LogError(ctx, r.logger, "failed to save booking", err, map[string]interface{}{
			"booking_id": booking.ID,
		})
		return err
	}
	return nil
}

func (r *GormBookingRepository) FindByID(ctx context.Context, id string) (domain.Booking, error) {
	var booking domain.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Booking{}, domain.NotFoundError(id)
		}
		pkgApp.LogError(ctx, r.logger, "failed to find booking", err, map[string]interface{}{"booking_id": id})
		return domain.Booking{}, err
	}
	return booking, nil
}

func (r *GormBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&bookings).Error
	if err != nil {
		pkgApp.LogError(ctx, r.logger, "failed to list user bookings", err, map[string]interface{}{"user_id": userID})
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&bookings).Error; err != nil {
		pkgApp.LogError(ctx, r.logger, "failed to list bookings", err, nil)
		return nil, err
	}
	return bookings, nil
}

// MarkCancelled só altera linhas ainda confirmadas; zero linhas afetadas
// significa reserva inexistente ou já cancelada.
func (r *GormBookingRepository) MarkCancelled(ctx context.Context, id string, at time.Time) (domain.Booking, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, domain.StatusConfirmed).
		Updates(map[string]interface{}{
			"status":     domain.StatusCancelled,
			"updated_at": at,
		})
	if err := result.Error; err != nil {
		pkgApp.LogError(ctx, r.logger, "failed to cancel booking", err, map[string]interface{}{"booking_id": id})
		return domain.Booking{}, err
	}

	booking, err := r.FindByID(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if result.RowsAffected == 0 {
		return domain.Booking{}, domain.AlreadyCancelledError(id)
	}
	return booking, nil
}
