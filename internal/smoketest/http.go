package smoketest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/floradex/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Put performs a PUT request with JSON body
func (c *HTTPClient) Put(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// getJSON fetches url and decodes a 200 body into v. It returns the status code.
func (c *HTTPClient) getJSON(ctx context.Context, url string, v interface{}) (int, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// speciesURL builds /flowers/{genus}/{species} with escaped segments.
func speciesURL(base, genus, species string) string {
	return base + "/flowers/" + url.PathEscape(genus) + "/" + url.PathEscape(species)
}

// submitObservations PUTs subs concurrently using a worker pool
func submitObservations(ctx context.Context, config *Config, subs []Submission, stats *Stats) error {
	logger.Get().Info(ctx, "submitting observations",
		logger.Int("count", len(subs)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	target := config.BaseURL + "/flowers"

	var (
		successful int64
		failed     int64
		submitted  int64
	)

	subChan := make(chan Submission, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range subChan {
				ok := submitSingle(ctx, client, target, sub)
				atomic.AddInt64(&submitted, 1)
				if ok {
					atomic.AddInt64(&successful, 1)
				} else {
					atomic.AddInt64(&failed, 1)
					logger.Get().Debug(ctx, "submission failed", logger.String("binomial", sub.BinomialNomenclature))
				}
			}
		}()
	}

	go func() {
		defer close(subChan)
		for _, sub := range subs {
			select {
			case <-ctx.Done():
				return
			case subChan <- sub:
			}
		}
	}()

	wg.Wait()

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Successful = int(atomic.LoadInt64(&successful))
	stats.Failed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "submission completed",
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed))

	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d submissions failed", stats.Failed, stats.Submitted)
	}
	return nil
}

// submitSingle PUTs one observation and checks the echo matches what was sent.
func submitSingle(ctx context.Context, client *HTTPClient, url string, sub Submission) bool {
	resp, err := client.Put(ctx, url, sub)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != StatusOK {
		return false
	}
	var echoed Submission
	if err := json.NewDecoder(resp.Body).Decode(&echoed); err != nil {
		return false
	}
	return echoed == sub
}
