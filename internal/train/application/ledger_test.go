package application_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-railway/internal/train/application"
	"github.com/mateusmacedo/go-railway/internal/train/domain"
	"github.com/mateusmacedo/go-railway/internal/train/infrastructure"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
	zapAdapter "github.com/mateusmacedo/go-railway/pkg/infrastructure/zaplogger/adapter"
)

func ledgerWithTrain(t *testing.T, total, available int) (*application.InventoryLedger, *infrastructure.InMemoryTrainRepository) {
	t.Helper()
	logger := zapAdapter.NewNopAppLogger()
	repo := infrastructure.NewInMemoryTrainRepository(logger)
	require.NoError(t, repo.Save(context.Background(), domain.Train{
		ID:             "t-1",
		Name:           "Garib Rath",
		Number:         "12004",
		Source:         "Chennai",
		Destination:    "Bangalore",
		DepartureTime:  "22:30",
		ArrivalTime:    "05:15",
		TotalSeats:     total,
		AvailableSeats: available,
		Price:          600,
	}))
	return application.NewInventoryLedger(repo, logger), repo
}

func availableSeats(t *testing.T, repo domain.TrainRepository) int {
	t.Helper()
	train, err := repo.FindByID(context.Background(), "t-1")
	require.NoError(t, err)
	return train.AvailableSeats
}

func TestInventoryLedger_InsufficientInventoryLeavesCounterUnchanged(t *testing.T) {
	ledger, repo := ledgerWithTrain(t, 100, 1)

	err := ledger.Reserve(context.Background(), "t-1", 2)
	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
	assert.Equal(t, 1, availableSeats(t, repo))
}

func TestInventoryLedger_RejectsNonPositiveCounts(t *testing.T) {
	ledger, repo := ledgerWithTrain(t, 10, 10)
	ctx := context.Background()

	assert.ErrorIs(t, ledger.Reserve(ctx, "t-1", 0), pkgDomain.ErrValidation)
	assert.ErrorIs(t, ledger.Reserve(ctx, "t-1", -3), pkgDomain.ErrValidation)
	assert.ErrorIs(t, ledger.Release(ctx, "t-1", 0), pkgDomain.ErrValidation)
	assert.Equal(t, 10, availableSeats(t, repo))
}

func TestInventoryLedger_ReleaseIsClamped(t *testing.T) {
	ledger, repo := ledgerWithTrain(t, 10, 8)

	require.NoError(t, ledger.Release(context.Background(), "t-1", 5))
	assert.Equal(t, 10, availableSeats(t, repo))
	assert.ErrorIs(t, ledger.Release(context.Background(), "nope", 1), pkgDomain.ErrNotFound)
}

func TestInventoryLedger_ConcurrentSingleSeatReservations(t *testing.T) {
	const seats = 40
	ledger, repo := ledgerWithTrain(t, seats, seats)

	results := make(chan error, seats+1)
	var wg sync.WaitGroup
	for i := 0; i < seats+1; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- ledger.Reserve(context.Background(), "t-1", 1)
		}()
	}
	wg.Wait()
	close(results)

	successes, refused := 0, 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		require.ErrorIs(t, err, domain.ErrInsufficientInventory)
		refused++
	}

	assert.Equal(t, seats, successes)
	assert.Equal(t, 1, refused)
	assert.Equal(t, 0, availableSeats(t, repo))
}
