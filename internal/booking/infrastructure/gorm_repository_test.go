package infrastructure

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-railway/internal/booking/domain"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
	gormAdapter "github.com/mateusmacedo/go-railway/pkg/infrastructure/gorm/adapter"
	zapAdapter "github.com/mateusmacedo/go-railway/pkg/infrastructure/zaplogger/adapter"
)

// Testes de integração: rodam apenas com DATABASE_DSN apontando para um postgres.
func newGormRepository(t *testing.T) *GormBookingRepository {
	t.Helper()
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		t.Skip("DATABASE_DSN not set")
	}

	logger := zapAdapter.NewNopAppLogger()
	db, err := gormAdapter.OpenPostgres(dsn, logger)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	repo, err := NewGormBookingRepository(db, logger)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Where("user_id LIKE ?", "it-%").Delete(&domain.Booking{})
		_ = sqlDB.Close()
	})
	return repo
}

func saveGormBooking(t *testing.T, repo *GormBookingRepository, userID string, createdAt time.Time) domain.Booking {
	t.Helper()
	booking := domain.Booking{
		ID:      uuid.NewString(),
		UserID:  userID,
		TrainID: uuid.NewString(),
		Passengers: []domain.Passenger{
			{Name: "Asha", Age: 34, Gender: domain.GenderFemale, SeatPreference: domain.SeatWindow},
			{Name: "Ravi", Age: 36, Gender: domain.GenderMale, SeatPreference: domain.SeatAisle},
		},
		TotalAmount: 5000,
		Status:      domain.StatusConfirmed,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, repo.Save(context.Background(), booking))
	return booking
}

func TestGormBookingRepository_RoundTripAndOrder(t *testing.T) {
	repo := newGormRepository(t)
	ctx := context.Background()
	userID := "it-" + uuid.NewString()
	base := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	older := saveGormBooking(t, repo, userID, base)
	newer := saveGormBooking(t, repo, userID, base.Add(time.Hour))

	got, err := repo.FindByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, older.Passengers, got.Passengers)
	assert.Equal(t, 5000.0, got.TotalAmount)

	listed, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, newer.ID, listed[0].ID)
	assert.Equal(t, older.ID, listed[1].ID)

	_, err = repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, pkgDomain.ErrNotFound)
}

func TestGormBookingRepository_ConcurrentMarkCancelled(t *testing.T) {
	repo := newGormRepository(t)
	booking := saveGormBooking(t, repo, "it-"+uuid.NewString(), time.Now().UTC())

	var (
		wg        sync.WaitGroup
		cancelled atomic.Int32
		already   atomic.Int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch _, err := repo.MarkCancelled(context.Background(), booking.ID, time.Now().UTC()); {
			case err == nil:
				cancelled.Add(1)
			case assert.ErrorIs(t, err, domain.ErrAlreadyCancelled):
				already.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), cancelled.Load())
	assert.Equal(t, int32(7), already.Load())

	_, err := repo.MarkCancelled(context.Background(), uuid.NewString(), time.Now())
	assert.ErrorIs(t, err, pkgDomain.ErrNotFound)
}
