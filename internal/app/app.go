package app

import (
	"context"
	"database/sql"

	"github.com/Jstali/employee-onboarding-sub000/internal/bootstrap"
	"github.com/Jstali/employee-onboarding-sub000/internal/config"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is what the api binary needs after wiring: the audit logger for
// server lifecycle events and the shutdown hook that releases connections.
type App struct {
	AuditLogger bootstrap.AuditLogger
	Close       func(context.Context)
}

type infra struct {
	gormDB *gorm.DB
	db     *sql.DB
	rdb    *redis.Client
}

func connectInfra(cfg config.Config) (*infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
		cfg.Database.MaxRetries,
	)
	if err != nil {
		return nil, err
	}
	db, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Database.MaxRetries)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &infra{gormDB: gormDB, db: db, rdb: rdb}, nil
}

func (i *infra) close() {
	_ = i.rdb.Close()
	_ = i.db.Close()
}

func BuildApp(ctx context.Context, router *gin.Engine, cfg config.Config) (*App, error) {
	logger := zap.L().Named("app")

	inf, err := connectInfra(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database and redis connections established")

	systemLogger, err := registerModules(ctx, router, cfg, inf)
	if err != nil {
		inf.close()
		return nil, err
	}

	return &App{
		AuditLogger: bootstrap.MultiAuditLogger{bootstrap.NewStdoutAuditLogger(), systemLogger},
		Close: func(context.Context) {
			inf.close()
			logger.Info("connections closed")
		},
	}, nil
}
