package application

import (
	"context"
	"fmt"

	"github.com/mateusmacedo/go-railway/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
)

// InventoryLedger valida a quantidade de assentos e delega a operação atômica
// ao armazenamento.
type InventoryLedger struct {
	store  domain.Ledger
	logger pkgApp.AppLogger
}

var _ domain.Ledger = (*InventoryLedger)(nil)

func NewInventoryLedger(store domain.Ledger, logger pkgApp.AppLogger) *InventoryLedger {
	return &InventoryLedger{store: store, logger: logger}
}

func (l *InventoryLedger) Reserve(ctx context.Context, trainID string, seats int) error {
	if err := checkSeatCount(seats); err != nil {
		return err
	}
	if err := l.store.Reserve(ctx, trainID, seats); err != nil {
		pkgApp.LogInfo(ctx, l.logger, "Reserva de assentos recusada", map[string]interface{}{
			"train_id": trainID,
			"seats":    seats,
			"reason":   err.Error(),
		})
		return err
	}

	pkgApp.LogInfo(ctx, l.logger, "Assentos reservados", map[string]interface{}{"train_id": trainID, "seats": seats})
	return nil
}

func (l *InventoryLedger) Release(ctx context.Context, trainID string, seats int) error {
	if err := checkSeatCount(seats); err != nil {
		return err
	}
	if err := l.store.Release(ctx, trainID, seats); err != nil {
		pkgApp.LogWarn(ctx, l.logger, "Erro ao devolver assentos", err, map[string]interface{}{
			"train_id": trainID,
			"seats":    seats,
		})
		return err
	}

	pkgApp.LogInfo(ctx, l.logger, "Assentos devolvidos", map[string]interface{}{"train_id": trainID, "seats": seats})
	return nil
}

func checkSeatCount(seats int) error {
	if seats <= 0 {
		return fmt.Errorf("%w: seat count must be positive, got %d", pkgDomain.ErrValidation, seats)
	}
	return nil
}
