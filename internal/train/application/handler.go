package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/mateusmacedo/go-railway/internal/identity"
	"github.com/mateusmacedo/go-railway/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
)

func requireAdmin(requester identity.Identity) error {
	if requester.UserID == "" {
		return pkgDomain.ErrUnauthenticated
	}
	if !requester.IsAdmin {
		return fmt.Errorf("train management requires an administrator: %w", pkgDomain.ErrForbidden)
	}
	return nil
}

type createTrainHandler struct {
	repository  domain.TrainRepository
	idGenerator pkgDomain.IDGenerator[string]
	clock       pkgDomain.Clock
	logger      pkgApp.AppLogger
}

func (h *createTrainHandler) Handle(ctx context.Context, command pkgDomain.Command[CreateTrainData]) (domain.Train, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return domain.Train{}, ctx.Err()
	}

	data := command.Payload()
	if err := requireAdmin(data.Requester); err != nil {
		return domain.Train{}, err
	}

	now := h.clock()
	train := domain.Train{
		ID:             h.idGenerator(),
		Name:           strings.TrimSpace(data.Name),
		Number:         strings.TrimSpace(data.Number),
		Source:         strings.TrimSpace(data.Source),
		Destination:    strings.TrimSpace(data.Destination),
		DepartureTime:  strings.TrimSpace(data.DepartureTime),
		ArrivalTime:    strings.TrimSpace(data.ArrivalTime),
		TotalSeats:     data.TotalSeats,
		AvailableSeats: data.TotalSeats,
		Price:          data.Price,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := train.Validate(); err != nil {
		return domain.Train{}, err
	}

	if err := h.repository.Save(ctx, train); err != nil {
		return domain.Train{}, err
	}

	pkgApp.LogInfo(ctx, h.logger, "Trem cadastrado", map[string]interface{}{
		"train_id": train.ID,
		"number":   train.Number,
		"admin_id": data.Requester.UserID,
	})
	return train, nil
}

func NewCreateTrainHandler(repo domain.TrainRepository, idGenerator pkgDomain.IDGenerator[string], clock pkgDomain.Clock, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[CreateTrainData], CreateTrainData, domain.Train] {
	return &createTrainHandler{
		repository:  repo,
		idGenerator: idGenerator,
		clock:       clock,
		logger:      logger,
	}
}

type updateTrainHandler struct {
	repository domain.TrainRepository
	clock      pkgDomain.Clock
	logger     pkgApp.AppLogger
}

func (h *updateTrainHandler) Handle(ctx context.Context, command pkgDomain.Command[UpdateTrainData]) (domain.Train, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return domain.Train{}, ctx.Err()
	}

	data := command.Payload()
	if err := requireAdmin(data.Requester); err != nil {
		return domain.Train{}, err
	}

	train, err := h.repository.FindByID(ctx, data.ID)
	if err != nil {
		return domain.Train{}, err
	}

	applyString(&train.Name, data.Name)
	applyString(&train.Number, data.Number)
	applyString(&train.Source, data.Source)
	applyString(&train.Destination, data.Destination)
	applyString(&train.DepartureTime, data.DepartureTime)
	applyString(&train.ArrivalTime, data.ArrivalTime)
	if data.Price != nil {
		train.Price = *data.Price
	}
	train.UpdatedAt = h.clock()

	if err := train.Validate(); err != nil {
		return domain.Train{}, err
	}
	if err := h.repository.Update(ctx, train); err != nil {
		return domain.Train{}, err
	}

	pkgApp.LogInfo(ctx, h.logger, "Trem atualizado", map[string]interface{}{
		"train_id": train.ID,
		"admin_id": data.Requester.UserID,
	})
	// os contadores podem ter mudado entre a leitura e a escrita
	return h.repository.FindByID(ctx, train.ID)
}

func applyString(target *string, value *string) {
	if value != nil {
		*target = strings.TrimSpace(*value)
	}
}

func NewUpdateTrainHandler(repo domain.TrainRepository, clock pkgDomain.Clock, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[UpdateTrainData], UpdateTrainData, domain.Train] {
	return &updateTrainHandler{repository: repo, clock: clock, logger: logger}
}

type deleteTrainHandler struct {
	repository domain.TrainRepository
	logger     pkgApp.AppLogger
}

func (h *deleteTrainHandler) Handle(ctx context.Context, command pkgDomain.Command[DeleteTrainData]) (domain.Train, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return domain.Train{}, ctx.Err()
	}

	data := command.Payload()
	if err := requireAdmin(data.Requester); err != nil {
		return domain.Train{}, err
	}

	train, err := h.repository.FindByID(ctx, data.ID)
	if err != nil {
		return domain.Train{}, err
	}
	if err := h.repository.Delete(ctx, data.ID); err != nil {
		return domain.Train{}, err
	}

	pkgApp.LogInfo(ctx, h.logger, "Trem removido", map[string]interface{}{
		"train_id": data.ID,
		"admin_id": data.Requester.UserID,
	})
	return train, nil
}

func NewDeleteTrainHandler(repo domain.TrainRepository, logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[DeleteTrainData], DeleteTrainData, domain.Train] {
	return &deleteTrainHandler{repository: repo, logger: logger}
}

type listTrainsHandler struct {
	repository domain.TrainRepository
	logger     pkgApp.AppLogger
}

func (h *listTrainsHandler) Handle(ctx context.Context, query pkgDomain.Query[ListTrainsData]) ([]domain.Train, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return nil, ctx.Err()
	}

	filter := query.Payload().Filter.Normalize()
	trains, err := h.repository.List(ctx, filter)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "Erro ao listar trens", err, map[string]interface{}{"filter": filter})
		return nil, err
	}

	pkgApp.LogDebug(ctx, h.logger, "Trens listados", map[string]interface{}{"count": len(trains)})
	return trains, nil
}

func NewListTrainsHandler(repo domain.TrainRepository, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[ListTrainsData], ListTrainsData, []domain.Train] {
	return &listTrainsHandler{repository: repo, logger: logger}
}

type getTrainHandler struct {
	repository domain.TrainRepository
	logger     pkgApp.AppLogger
}

func (h *getTrainHandler) Handle(ctx context.Context, query pkgDomain.Query[GetTrainData]) (domain.Train, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return domain.Train{}, ctx.Err()
	}
	return h.repository.FindByID(ctx, query.Payload().ID)
}

func NewGetTrainHandler(repo domain.TrainRepository, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[GetTrainData], GetTrainData, domain.Train] {
	return &getTrainHandler{repository: repo, logger: logger}
}
