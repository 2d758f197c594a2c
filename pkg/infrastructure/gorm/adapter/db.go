package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/mateusmacedo/go-railway/pkg/application"
)

const slowQueryThreshold = 200 * time.Millisecond

// OpenPostgres abre a conexão com TranslateError habilitado, para que violações
// de unicidade cheguem aos repositórios como gorm.ErrDuplicatedKey.
func OpenPostgres(dsn string, logger application.AppLogger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(logger, gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

type gormLoggerAdapter struct {
	logger application.AppLogger
	level  gormLogger.LogLevel
}

// NewGormLogger envia os logs do gorm para o AppLogger. Registro não
// encontrado não é tratado como erro.
func NewGormLogger(logger application.AppLogger, level gormLogger.LogLevel) gormLogger.Interface {
	return &gormLoggerAdapter{logger: logger, level: level}
}

func (a *gormLoggerAdapter) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	return &gormLoggerAdapter{logger: a.logger, level: level}
}

func (a *gormLoggerAdapter) Info(ctx context.Context, msg string, args ...interface{}) {
	if a.level >= gormLogger.Info {
		a.logger.Info(ctx, fmt.Sprintf(msg, args...), nil)
	}
}

func (a *gormLoggerAdapter) Warn(ctx context.Context, msg string, args ...interface{}) {
	if a.level >= gormLogger.Warn {
		a.logger.Warn(ctx, fmt.Sprintf(msg, args...), nil)
	}
}

func (a *gormLoggerAdapter) Error(ctx context.Context, msg string, args ...interface{}) {
	if a.level >= gormLogger.Error {
		a.logger.Error(ctx, fmt.Sprintf(msg, args...), nil)
	}
}

func (a *gormLoggerAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if a.level <= gormLogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	fields := func() map[string]interface{} {
		sql, rows := fc()
		return map[string]interface{}{
			"sql":        sql,
			"rows":       rows,
			"elapsed_ms": elapsed.Milliseconds(),
		}
	}

	switch {
	case err != nil && a.level >= gormLogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		application.LogError(ctx, a.logger, "query failed", err, fields())
	case elapsed > slowQueryThreshold && a.level >= gormLogger.Warn:
		application.LogWarn(ctx, a.logger, "slow query", nil, fields())
	case a.level >= gormLogger.Info:
		application.LogDebug(ctx, a.logger, "query executed", fields())
	}
}
