package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mateusmacedo/go-railway/internal/train/domain"
	"github.com/mateusmacedo/go-railway/pkg/application"
)

const listVersionKey = "trains:version"

// Cache é o subconjunto de operações de cache usado pela listagem de trens.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// CachedTrainRepository guarda o resultado de List por um TTL curto. As
// chaves carregam uma versão incrementada a cada escrita administrativa, de
// modo que criar, alterar ou remover um trem invalida todas as listagens.
// Os contadores de assentos podem ficar defasados até o TTL expirar.
type CachedTrainRepository struct {
	domain.TrainRepository
	cache  Cache
	ttl    time.Duration
	logger application.AppLogger
}

func NewCachedTrainRepository(next domain.TrainRepository, cache Cache, ttl time.Duration, logger application.AppLogger) *CachedTrainRepository {
	return &CachedTrainRepository{TrainRepository: next, cache: cache, ttl: ttl, logger: logger}
}

func (r *CachedTrainRepository) List(ctx context.Context, filter domain.TrainFilter) ([]domain.Train, error) {
	key, err := r.listKey(ctx, filter)
	if err != nil {
		application.LogWarn(ctx, r.logger, "train cache unavailable", err, nil)
		return r.TrainRepository.List(ctx, filter)
	}

	if cached, found, err := r.cache.Get(ctx, key); err != nil {
		application.LogWarn(ctx, r.logger, "train cache read failed", err, map[string]interface{}{"key": key})
	} else if found {
		var trains []domain.Train
		if err := json.Unmarshal(cached, &trains); err == nil {
			return trains, nil
		}
	}

	trains, err := r.TrainRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(trains); err == nil {
		if err := r.cache.Set(ctx, key, payload, r.ttl); err != nil {
			application.LogWarn(ctx, r.logger, "train cache write failed", err, map[string]interface{}{"key": key})
		}
	}
	return trains, nil
}

func (r *CachedTrainRepository) Save(ctx context.Context, train domain.Train) error {
	if err := r.TrainRepository.Save(ctx, train); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedTrainRepository) Update(ctx context.Context, train domain.Train) error {
	if err := r.TrainRepository.Update(ctx, train); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedTrainRepository) Delete(ctx context.Context, id string) error {
	if err := r.TrainRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedTrainRepository) invalidate(ctx context.Context) {
	if _, err := r.cache.Incr(ctx, listVersionKey); err != nil {
		application.LogWarn(ctx, r.logger, "train cache invalidation failed", err, nil)
	}
}

func (r *CachedTrainRepository) listKey(ctx context.Context, filter domain.TrainFilter) (string, error) {
	version := int64(0)
	raw, found, err := r.cache.Get(ctx, listVersionKey)
	if err != nil {
		return "", err
	}
	if found {
		if version, err = strconv.ParseInt(string(raw), 10, 64); err != nil {
			return "", fmt.Errorf("parse cache version: %w", err)
		}
	}
	return fmt.Sprintf("trains:v%d:list:%q:%q", version, filter.Source, filter.Destination), nil
}
