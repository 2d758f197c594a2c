package infrastructure

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mateusmacedo/go-railway/internal/train/domain"
	"github.com/mateusmacedo/go-railway/pkg/application"
)

var descriptiveColumns = []string{
	"name", "number", "source", "destination", "departure_time", "arrival_time", "price", "updated_at",
}

// GormTrainRepository implementa TrainRepository e Ledger sobre postgres. As
// operações do Ledger são um único UPDATE condicional, atômico por linha.
type GormTrainRepository struct {
	db     *gorm.DB
	logger application.AppLogger
}

var (
	_ domain.TrainRepository = (*GormTrainRepository)(nil)
	_ domain.Ledger          = (*GormTrainRepository)(nil)
)

func NewGormTrainRepository(db *gorm.DB, logger application.AppLogger) (*GormTrainRepository, error) {
	if err := db.AutoMigrate(&domain.Train{}); err != nil {
		return nil, err
	}
	return &GormTrainRepository{db: db, logger: logger}, nil
}

func (r *GormTrainRepository) Save(ctx context.Context, train domain.Train) error {
	if err := r.db.WithContext(ctx).Create(&train).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.DuplicateNumberError(train.Number)
		}
		application.LogError(ctx, r.logger, "failed to save train", err, map[string]interface{}{
			"train_id": train.ID,
		})
		return err
	}
	return nil
}

func (r *GormTrainRepository) Update(ctx context.Context, train domain.Train) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Train{}).
		Where("id = ?", train.ID).
		Select(descriptiveColumns).
		Updates(&train)
	if err := result.Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.DuplicateNumberError(train.Number)
		}
		application.LogError(ctx, r.logger, "failed to update train", err, map[string]interface{}{
			"train_id": train.ID,
		})
		return err
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError(train.ID)
	}
	return nil
}

func (r *GormTrainRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Train{})
	if err := result.Error; err != nil {
		application.LogError(ctx, r.logger, "failed to delete train", err, map[string]interface{}{
			"train_id": id,
		})
		return err
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError(id)
	}
	return nil
}

func (r *GormTrainRepository) FindByID(ctx context.Context, id string) (domain.Train, error) {
	var train domain.Train
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&train).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Train{}, domain.NotFoundError(id)
		}
		return domain.Train{}, err
	}
	return train, nil
}

func (r *GormTrainRepository) List(ctx context.Context, filter domain.TrainFilter) ([]domain.Train, error) {
	query := r.db.WithContext(ctx).Model(&domain.Train{})
	if filter.Source != "" {
		query = query.Where("source ILIKE ? ESCAPE '\\'", likePattern(filter.Source))
	}
	if filter.Destination != "" {
		query = query.Where("destination ILIKE ? ESCAPE '\\'", likePattern(filter.Destination))
	}
	if filter.IsZero() {
		query = query.Order("created_at DESC").Order("id")
	} else {
		query = query.Order("departure_time ASC").Order("id")
	}

	trains := make([]domain.Train, 0)
	if err := query.Find(&trains).Error; err != nil {
		application.LogError(ctx, r.logger, "failed to list trains", err, map[string]interface{}{
			"filter": filter,
		})
		return nil, err
	}
	return trains, nil
}

func (r *GormTrainRepository) Reserve(ctx context.Context, trainID string, seats int) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Train{}).
		Where("id = ? AND available_seats >= ?", trainID, seats).
		UpdateColumn("available_seats", gorm.Expr("available_seats - ?", seats))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	// Nenhuma linha alterada: ou o trem não existe ou faltam assentos.
	train, err := r.FindByID(ctx, trainID)
	if err != nil {
		return err
	}
	return domain.InsufficientInventoryError(trainID, seats, train.AvailableSeats)
}

func (r *GormTrainRepository) Release(ctx context.Context, trainID string, seats int) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Train{}).
		Where("id = ?", trainID).
		UpdateColumn("available_seats", gorm.Expr("LEAST(available_seats + ?, total_seats)", seats))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError(trainID)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(part string) string {
	return "%" + likeEscaper.Replace(part) + "%"
}
