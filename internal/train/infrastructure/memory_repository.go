package infrastructure

import (
	"context"
	"sort"
	"sync"

	"github.com/mateusmacedo/go-railway/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
)

// trainRecord tem seu próprio mutex para que reservas em trens diferentes não
// disputem o mesmo lock.
type trainRecord struct {
	mu    sync.Mutex
	train domain.Train
}

func (rec *trainRecord) snapshot() domain.Train {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.train
}

// InMemoryTrainRepository implementa TrainRepository e Ledger em memória.
type InMemoryTrainRepository struct {
	mu      sync.RWMutex
	data    map[string]*trainRecord
	numbers map[string]string
	logger  pkgApp.AppLogger
}

var (
	_ domain.TrainRepository = (*InMemoryTrainRepository)(nil)
	_ domain.Ledger          = (*InMemoryTrainRepository)(nil)
)

func NewInMemoryTrainRepository(logger pkgApp.AppLogger) *InMemoryTrainRepository {
	return &InMemoryTrainRepository{
		data:    make(map[string]*trainRecord),
		numbers: make(map[string]string),
		logger:  logger,
	}
}

func (r *InMemoryTrainRepository) Save(ctx context.Context, train domain.Train) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.numbers[train.Number]; exists {
		pkgApp.LogInfo(ctx, r.logger, "train number already exists", map[string]interface{}{
			"number": train.Number,
		})
		return domain.DuplicateNumberError(train.Number)
	}
	if _, exists := r.data[train.ID]; exists {
		return domain.DuplicateNumberError(train.Number)
	}

	r.data[train.ID] = &trainRecord{train: train}
	r.numbers[train.Number] = train.ID

	pkgApp.LogDebug(ctx, r.logger, "train saved", map[string]interface{}{"train_id": train.ID})
	return nil
}

func (r *InMemoryTrainRepository) Update(ctx context.Context, train domain.Train) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.data[train.ID]
	if !exists {
		return domain.NotFoundError(train.ID)
	}
	if ownerID, taken := r.numbers[train.Number]; taken && ownerID != train.ID {
		return domain.DuplicateNumberError(train.Number)
	}

	rec.mu.Lock()
	previousNumber := rec.train.Number
	rec.train.Name = train.Name
	rec.train.Number = train.Number
	rec.train.Source = train.Source
	rec.train.Destination = train.Destination
	rec.train.DepartureTime = train.DepartureTime
	rec.train.ArrivalTime = train.ArrivalTime
	rec.train.Price = train.Price
	rec.train.UpdatedAt = train.UpdatedAt
	rec.mu.Unlock()

	delete(r.numbers, previousNumber)
	r.numbers[train.Number] = train.ID

	pkgApp.LogDebug(ctx, r.logger, "train updated", map[string]interface{}{"train_id": train.ID})
	return nil
}

func (r *InMemoryTrainRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, exists := r.data[id]
	if !exists {
		return domain.NotFoundError(id)
	}
	delete(r.numbers, rec.snapshot().Number)
	delete(r.data, id)

	pkgApp.LogDebug(ctx, r.logger, "train deleted", map[string]interface{}{"train_id": id})
	return nil
}

func (r *InMemoryTrainRepository) FindByID(_ context.Context, id string) (domain.Train, error) {
	rec, err := r.record(id)
	if err != nil {
		return domain.Train{}, err
	}
	return rec.snapshot(), nil
}

func (r *InMemoryTrainRepository) List(_ context.Context, filter domain.TrainFilter) ([]domain.Train, error) {
	r.mu.RLock()
	trains := make([]domain.Train, 0, len(r.data))
	for _, rec := range r.data {
		train := rec.snapshot()
		if filter.Matches(train) {
			trains = append(trains, train)
		}
	}
	r.mu.RUnlock()

	if filter.IsZero() {
		sort.Slice(trains, func(i, j int) bool {
			if trains[i].CreatedAt.Equal(trains[j].CreatedAt) {
				return trains[i].ID < trains[j].ID
			}
			return trains[i].CreatedAt.After(trains[j].CreatedAt)
		})
	} else {
		sort.Slice(trains, func(i, j int) bool {
			if trains[i].DepartureTime == trains[j].DepartureTime {
				return trains[i].ID < trains[j].ID
			}
			return trains[i].DepartureTime < trains[j].DepartureTime
		})
	}
	return trains, nil
}

func (r *InMemoryTrainRepository) Reserve(ctx context.Context, trainID string, seats int) error {
	rec, err := r.record(trainID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.train.AvailableSeats < seats {
		return domain.InsufficientInventoryError(trainID, seats, rec.train.AvailableSeats)
	}
	rec.train.AvailableSeats -= seats

	pkgApp.LogDebug(ctx, r.logger, "seats reserved", map[string]interface{}{
		"train_id":        trainID,
		"seats":           seats,
		"available_seats": rec.train.AvailableSeats,
	})
	return nil
}

func (r *InMemoryTrainRepository) Release(ctx context.Context, trainID string, seats int) error {
	rec, err := r.record(trainID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.train.AvailableSeats = min(rec.train.AvailableSeats+seats, rec.train.TotalSeats)

	pkgApp.LogDebug(ctx, r.logger, "seats released", map[string]interface{}{
		"train_id":        trainID,
		"seats":           seats,
		"available_seats": rec.train.AvailableSeats,
	})
	return nil
}

func (r *InMemoryTrainRepository) record(id string) (*trainRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.data[id]
	if !exists {
		return nil, domain.NotFoundError(id)
	}
	return rec, nil
}

