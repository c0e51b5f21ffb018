package main

import (
	"github.com/Jstali/employee-onboarding-sub000/internal/app"
	"github.com/Jstali/employee-onboarding-sub000/internal/config"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.RunConsumer(cfg); err != nil {
		logger.Fatal("run consumer failed", zap.Error(err))
	}
}
