package infrastructure

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-railway/internal/train/domain"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
	zapAdapter "github.com/mateusmacedo/go-railway/pkg/infrastructure/zaplogger/adapter"
)

var baseTime = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

func newTrain(id, number, source, destination, departure string, seats int, createdAt time.Time) domain.Train {
	return domain.Train{
		ID:             id,
		Name:           "Express " + number,
		Number:         number,
		Source:         source,
		Destination:    destination,
		DepartureTime:  departure,
		ArrivalTime:    "23:00",
		TotalSeats:     seats,
		AvailableSeats: seats,
		Price:          1000,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
}

func seededRepository(t *testing.T) *InMemoryTrainRepository {
	t.Helper()
	repo := NewInMemoryTrainRepository(zapAdapter.NewNopAppLogger())
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, newTrain("t-1", "12001", "Mumbai", "Delhi", "16:35", 100, baseTime)))
	require.NoError(t, repo.Save(ctx, newTrain("t-2", "12002", "Delhi", "Mumbai", "17:15", 80, baseTime.Add(time.Minute))))
	require.NoError(t, repo.Save(ctx, newTrain("t-3", "12003", "Bangalore", "Chennai", "06:00", 120, baseTime.Add(2*time.Minute))))
	return repo
}

func ids(trains []domain.Train) []string {
	out := make([]string, 0, len(trains))
	for _, train := range trains {
		out = append(out, train.ID)
	}
	return out
}

func TestInMemoryTrainRepository_SaveRejectsDuplicateNumber(t *testing.T) {
	repo := seededRepository(t)

	err := repo.Save(context.Background(), newTrain("t-9", "12001", "Pune", "Goa", "10:00", 10, baseTime))
	assert.ErrorIs(t, err, pkgDomain.ErrConflict)
}

func TestInMemoryTrainRepository_List(t *testing.T) {
	repo := seededRepository(t)
	ctx := context.Background()

	all, err := repo.List(ctx, domain.TrainFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"t-3", "t-2", "t-1"}, ids(all), "newest first")

	delhi, err := repo.List(ctx, domain.TrainFilter{Source: "DEL"})
	require.NoError(t, err)
	assert.Equal(t, []string{"t-2"}, ids(delhi))

	mumbaiEither, err := repo.List(ctx, domain.TrainFilter{Destination: "i"})
	require.NoError(t, err)
	assert.Equal(t, []string{"t-3", "t-1", "t-2"}, ids(mumbaiEither), "ordered by departure")

	none, err := repo.List(ctx, domain.TrainFilter{Source: "Kolkata"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInMemoryTrainRepository_UpdateKeepsCounters(t *testing.T) {
	repo := seededRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Reserve(ctx, "t-1", 10))

	changed := newTrain("t-1", "12101", "Mumbai", "New Delhi", "16:40", 5, baseTime)
	changed.Price = 2600
	require.NoError(t, repo.Update(ctx, changed))

	got, err := repo.FindByID(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "12101", got.Number)
	assert.Equal(t, "New Delhi", got.Destination)
	assert.Equal(t, 2600.0, got.Price)
	assert.Equal(t, 100, got.TotalSeats)
	assert.Equal(t, 90, got.AvailableSeats)

	// o número antigo fica livre e o novo passa a ser exclusivo
	require.NoError(t, repo.Save(ctx, newTrain("t-4", "12001", "Pune", "Goa", "10:00", 10, baseTime)))
	assert.ErrorIs(t, repo.Update(ctx, newTrain("t-2", "12101", "Delhi", "Mumbai", "17:15", 80, baseTime)), pkgDomain.ErrConflict)
	assert.ErrorIs(t, repo.Update(ctx, newTrain("t-404", "99999", "A", "B", "10:00", 1, baseTime)), pkgDomain.ErrNotFound)
}

func TestInMemoryTrainRepository_Delete(t *testing.T) {
	repo := seededRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, "t-2"))
	_, err := repo.FindByID(ctx, "t-2")
	assert.ErrorIs(t, err, pkgDomain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "t-2"), pkgDomain.ErrNotFound)
	assert.NoError(t, repo.Save(ctx, newTrain("t-5", "12002", "Delhi", "Agra", "09:00", 10, baseTime)))
}

func TestInMemoryTrainRepository_ReserveAndRelease(t *testing.T) {
	repo := seededRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Reserve(ctx, "t-2", 80))
	assert.ErrorIs(t, repo.Reserve(ctx, "t-2", 1), domain.ErrInsufficientInventory)

	require.NoError(t, repo.Release(ctx, "t-2", 30))
	require.NoError(t, repo.Release(ctx, "t-2", 500))
	got, err := repo.FindByID(ctx, "t-2")
	require.NoError(t, err)
	assert.Equal(t, 80, got.AvailableSeats, "release is clamped to total seats")

	assert.ErrorIs(t, repo.Reserve(ctx, "missing", 1), pkgDomain.ErrNotFound)
	assert.ErrorIs(t, repo.Release(ctx, "missing", 1), pkgDomain.ErrNotFound)
}

func TestInMemoryTrainRepository_ConcurrentReservesNeverOversell(t *testing.T) {
	repo := NewInMemoryTrainRepository(zapAdapter.NewNopAppLogger())
	ctx := context.Background()
	const seats = 25
	require.NoError(t, repo.Save(ctx, newTrain("hot", "1", "A", "B", "10:00", seats, baseTime)))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  int
	)
	for i := 0; i < seats+15; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Reserve(ctx, "hot", 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else {
				assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
				failures++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, seats, successes)
	assert.Equal(t, 15, failures)
	got, err := repo.FindByID(ctx, "hot")
	require.NoError(t, err)
	assert.Equal(t, 0, got.AvailableSeats)
}
