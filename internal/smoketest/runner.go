package smoketest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/floradex/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	outputPermission    = 0600
)

// Run executes the complete smoke test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}
	runID := NewRunID()

	logger.Get().Info(ctx, "starting floradex smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("observations", config.NumObservations),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.String("runID", runID))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate observations
	subs, err := generateSubmissions(ctx, config.NumObservations, runID, stats)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	// Step 3: Submit concurrently
	if err := submitObservations(ctx, config, subs, stats); err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	// Step 4: Read back and verify
	if err := verifyResults(ctx, config, subs, runID, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 5: Save submissions to file
	if config.OutputFile != "-" {
		if err := saveSubmissions(ctx, config.OutputFile, subs); err != nil {
			logger.Get().Warn(ctx, "failed to save submissions", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, stats)

	logger.Get().Info(ctx, "smoke test completed successfully")
	return nil
}

// checkServiceHealth verifies the service and its store are up.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	var health struct {
		Status string `json:"status"`
	}
	status, err := client.getJSON(ctx, config.BaseURL+"/healthz", &health)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != StatusOK || health.Status != "ok" {
		return fmt.Errorf("service health check failed with status: %d", status)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveSubmissions writes the submitted observations as a JSON array.
func saveSubmissions(ctx context.Context, filename string, subs []Submission) error {
	if len(subs) == 0 {
		return fmt.Errorf("no submissions to save")
	}

	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "submitted_" + timestamp + ".json"
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal submissions: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), outputPermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "submissions saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final test statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, perSecond float64

	if stats.Submitted > 0 {
		successRate = float64(stats.Successful) / float64(stats.Submitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.Int("speciesVerified", stats.SpeciesVerified),
		logger.Int("recordsRetrieved", stats.RecordsRetrieved),
		logger.Int("aggregatesChecked", stats.AggregatesChecked),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("submissionsPerSecond", perSecond))
}
