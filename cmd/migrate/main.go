package main

import (
	"os"

	"github.com/Jstali/employee-onboarding-sub000/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Manage the onboarding database schema",
	SilenceUsage: true,
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	return config.Load()
}
