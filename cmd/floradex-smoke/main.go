package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/floradex/internal/smoketest"
)

// Default configuration constants.
const (
	defaultNumObservations = 500
	defaultWorkers         = 2 // multiplier for runtime.NumCPU()
	defaultTimeout         = 30 * time.Second
	defaultTestTimeout     = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:8000", "Base URL of the service")
		observations = flag.Int("observations", defaultNumObservations, "Number of observations to submit")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile   = flag.String("output", "", "Output file for submitted observations (default: submitted_TIMESTAMP.json)")
		logFile      = flag.String("log", "", "Log file for test output (default: smoke_log_TIMESTAMP.log)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoketest.ShowHelp()
		return
	}

	if err := smoketest.SetupLogging(*logFile, *verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &smoketest.Config{
		BaseURL:         *baseURL,
		NumObservations: *observations,
		Workers:         *workers,
		Timeout:         *timeout,
		OutputFile:      *outputFile,
		LogFile:         *logFile,
		Verbose:         *verbose,
	}

	if err := smoketest.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Smoke test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
