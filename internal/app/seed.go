package app

import (
	"context"

	"github.com/Jstali/employee-onboarding-sub000/internal/audit"
	"github.com/Jstali/employee-onboarding-sub000/internal/config"
	"github.com/Jstali/employee-onboarding-sub000/internal/masteremployee"
	"github.com/Jstali/employee-onboarding-sub000/internal/notification"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/counter"
	"github.com/Jstali/employee-onboarding-sub000/internal/user"

	"go.uber.org/zap"
)

// SeedDefaultHR creates the bootstrap HR account and its root roster record
// without starting the API. It needs only the database and Redis.
func SeedDefaultHR(ctx context.Context, cfg config.Config) error {
	logger := zap.L()

	inf, err := connectInfra(cfg)
	if err != nil {
		return err
	}
	defer inf.close()

	auditService := audit.NewService(audit.NewRepository(inf.gormDB), logger)
	userRepo := user.NewRepository(inf.gormDB)
	silent := notification.NewNotifier(config.NotificationDisabled, nil, nil, 0, logger)

	userService := user.NewService(inf.db, userRepo, auditService, silent, nil, nil, cfg.Notification.AppURL, logger)
	masterService := masteremployee.NewService(
		inf.db,
		masteremployee.NewRepository(inf.gormDB),
		userRepo,
		counter.NewRepository(inf.gormDB),
		auditService,
		inf.rdb,
		nil,
		logger,
	)
	return userService.EnsureDefaultHR(ctx, cfg.Bootstrap, masterService)
}
