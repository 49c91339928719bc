package smoketest

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/floradex/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) error {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "smoke_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.InitWithOptions(logger.Options{Writer: io.MultiWriter(os.Stdout, file)}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the smoke test tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`floradex smoke test
===================

Submits generated flower observations to a running floradex service, then
checks the list and petal aggregate endpoints against the submitted data.

Usage:
  go run ./cmd/floradex-smoke [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -observations int
        Number of observations to submit (default 500)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for submitted observations (default: submitted_TIMESTAMP.json)
  -log string
        Log file for test output (default: smoke_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Smoke test a local instance
  go run ./cmd/floradex-smoke

  # Heavier run against another address
  go run ./cmd/floradex-smoke -observations 5000 -workers 16 -url http://localhost:8080
`)
}
