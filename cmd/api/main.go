package main

import (
	"context"

	"github.com/Jstali/employee-onboarding-sub000/internal/app"
	"github.com/Jstali/employee-onboarding-sub000/internal/bootstrap"
	"github.com/Jstali/employee-onboarding-sub000/internal/config"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// build dependency + routes
	application, err := app.BuildApp(context.Background(), r, cfg)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         cfg.App.Port,
			ReadTimeout:  cfg.App.ReadTimeout,
			WriteTimeout: cfg.App.WriteTimeout,
			IdleTimeout:  cfg.App.IdleTimeout,
		},
		application.AuditLogger,
		application.Close,
	)
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.App.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
