package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	appErrors "extsort/internal/errors"
	"extsort/internal/logging"
)

// errRunFailures marks a run that finished but could not copy every file.
var errRunFailures = errors.New("some files could not be copied")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		exitWithError(err)
	}
}

func exitWithError(err error) {
	logger := logging.New(os.Stderr, false)
	if errors.Is(err, errRunFailures) {
		logger.Errorf("%v", err)
		os.Exit(2)
	}
	logger.Errorf("%s", appErrors.UserMessage(err))
	os.Exit(1)
}
