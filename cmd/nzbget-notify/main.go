package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/nzbget-notify/internal/core"
	"github.com/mikey/nzbget-notify/internal/di"
)

// Exit codes understood by NZBGet
const (
	exitSuccess = 93
	exitError   = 94
	exitSkip    = 95
)

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(args []string) int {
	flags, err := di.ParseFlags(args)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		return exitError
	}

	// Build the dependency injection container
	container, err := di.BuildContainer(flags)
	if err != nil {
		fmt.Printf("[ERROR] Failed to build dependency container: %v\n", err)
		return exitError
	}

	var logger *zap.Logger
	if err := container.Invoke(func(l *zap.Logger) { logger = l }); err != nil {
		fmt.Printf("[ERROR] %v\n", dig.RootCause(err))
		return exitError
	}
	defer logger.Sync()

	logger.Debug("Script successfully started")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var result core.Result
	err = container.Invoke(func(service *core.NotifierService) error {
		var runErr error
		result, runErr = service.Run(ctx)
		return runErr
	})
	return exitCode(logger, result, err)
}

// exitCode logs a failure and maps the run result to NZBGet's exit codes
func exitCode(logger *zap.Logger, result core.Result, err error) int {
	if err != nil {
		cause := dig.RootCause(err)

		var deliveryErr *core.DeliveryError
		if errors.As(cause, &deliveryErr) {
			logger.Debug("Run aborted", zap.String("stage", deliveryErr.Stage))
		}
		logger.Error(cause.Error())
		return exitError
	}

	if result == core.ResultSkipped {
		return exitSkip
	}
	return exitSuccess
}
