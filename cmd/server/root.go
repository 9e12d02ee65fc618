package main

import (
	"fmt"

	"github.com/kidwise/api/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kidwise-api",
		Short:         "KidWise parenting assistant API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	serve := newServeCmd()
	root.RunE = serve.RunE

	root.AddCommand(
		serve,
		newMigrateCmd(),
		newCheckCmd(),
		newSmokeCmd(),
	)
	return root
}

// bootstrap loads configuration and builds the process logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	zapConfig := zap.NewProductionConfig()
	if !cfg.IsProduction() {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	logger, err := zapConfig.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}
