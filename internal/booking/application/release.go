package application

import (
	"context"
	"errors"
	"time"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/backoff"
	"github.com/Rican7/retry/strategy"

	trainDomain "github.com/mateusmacedo/go-railway/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railway/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railway/pkg/domain"
)

// ReleasePolicy controla as novas tentativas de devolver assentos ao Ledger.
type ReleasePolicy struct {
	Attempts uint
	Backoff  time.Duration
}

func DefaultReleasePolicy() ReleasePolicy {
	return ReleasePolicy{Attempts: 5, Backoff: 50 * time.Millisecond}
}

// seatReleaser devolve assentos com novas tentativas. Erros de validação e
// trem inexistente são definitivos e não são repetidos.
type seatReleaser struct {
	ledger trainDomain.Ledger
	policy ReleasePolicy
	logger pkgApp.AppLogger
}

func (r seatReleaser) release(ctx context.Context, trainID string, seats int) error {
	// a devolução não deve ser abandonada porque o cliente desconectou
	ctx = context.WithoutCancel(ctx)

	var lastErr error
	permanent := func(uint) bool {
		return lastErr == nil || !isPermanent(lastErr)
	}

	return retry.Retry(
		func(attempt uint) error {
			lastErr = r.ledger.Release(ctx, trainID, seats)
			if lastErr != nil && !isPermanent(lastErr) {
				pkgApp.LogWarn(ctx, r.logger, "Tentativa de devolver assentos falhou", lastErr, map[string]interface{}{
					"train_id": trainID,
					"seats":    seats,
					"attempt":  attempt,
				})
			}
			return lastErr
		},
		permanent,
		strategy.Limit(max(r.policy.Attempts, 1)),
		strategy.Backoff(backoff.BinaryExponential(r.policy.Backoff)),
	)
}

func isPermanent(err error) bool {
	return errors.Is(err, pkgDomain.ErrNotFound) || errors.Is(err, pkgDomain.ErrValidation)
}
