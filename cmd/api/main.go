package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/jun/drivepicker/internal/app"
	"github.com/jun/drivepicker/internal/config"
	"github.com/jun/drivepicker/internal/logging"
	"github.com/jun/drivepicker/internal/secret"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("production", "info").Fatal("failed to load config", "err", err)
	}
	logger := logging.New(cfg.Environment, cfg.LogLevel)

	resolver, err := secret.New(context.Background(), cfg.DevMode)
	if err != nil {
		logger.Error("failed to create secret resolver", "err", err)
		os.Exit(1)
	}

	application := app.NewApp(cfg, resolver, logger.WithPrefix("api"))
	lambda.Start(application.HandleRequest)
}
