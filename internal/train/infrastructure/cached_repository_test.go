package infrastructure

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-railway/internal/train/domain"
	zapAdapter "github.com/mateusmacedo/go-railway/pkg/infrastructure/zaplogger/adapter"
)

type mapCache struct {
	mu      sync.Mutex
	values  map[string][]byte
	failGet bool
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{values: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, false, errors.New("connection refused")
	}
	value, found := c.values[key]
	return value, found, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	c.sets++
	return nil
}

func (c *mapCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	current, _ := strconv.ParseInt(string(c.values[key]), 10, 64)
	current++
	c.values[key] = []byte(strconv.FormatInt(current, 10))
	return current, nil
}

type countingRepository struct {
	domain.TrainRepository
	lists int
}

func (r *countingRepository) List(ctx context.Context, filter domain.TrainFilter) ([]domain.Train, error) {
	r.lists++
	return r.TrainRepository.List(ctx, filter)
}

func TestCachedTrainRepository_ServesFromCacheUntilWrite(t *testing.T) {
	inner := &countingRepository{TrainRepository: seededRepository(t)}
	cache := newMapCache()
	repo := NewCachedTrainRepository(inner, cache, time.Minute, zapAdapter.NewNopAppLogger())
	ctx := context.Background()

	first, err := repo.List(ctx, domain.TrainFilter{})
	require.NoError(t, err)
	second, err := repo.List(ctx, domain.TrainFilter{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.lists)

	_, err = repo.List(ctx, domain.TrainFilter{Source: "Delhi"})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.lists, "different filters use different keys")

	require.NoError(t, repo.Delete(ctx, "t-3"))
	afterDelete, err := repo.List(ctx, domain.TrainFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, inner.lists)
	assert.Equal(t, []string{"t-2", "t-1"}, ids(afterDelete))
}

func TestCachedTrainRepository_FallsBackWhenCacheFails(t *testing.T) {
	inner := &countingRepository{TrainRepository: seededRepository(t)}
	cache := newMapCache()
	cache.failGet = true
	repo := NewCachedTrainRepository(inner, cache, time.Minute, zapAdapter.NewNopAppLogger())

	trains, err := repo.List(context.Background(), domain.TrainFilter{})
	require.NoError(t, err)
	assert.Len(t, trains, 3)
	assert.Equal(t, 0, cache.sets)
}

func TestCachedTrainRepository_FailedWriteKeepsCache(t *testing.T) {
	inner := &countingRepository{TrainRepository: seededRepository(t)}
	cache := newMapCache()
	repo := NewCachedTrainRepository(inner, cache, time.Minute, zapAdapter.NewNopAppLogger())
	ctx := context.Background()

	_, err := repo.List(ctx, domain.TrainFilter{})
	require.NoError(t, err)
	require.Error(t, repo.Delete(ctx, "missing"))
	_, err = repo.List(ctx, domain.TrainFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, inner.lists)
}
