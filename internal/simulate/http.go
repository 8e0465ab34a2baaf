package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// submitBatchSize bounds each POST /statlines request.
const submitBatchSize = 500

// httpClient wraps the standard client with the configured timeout.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{client: &http.Client{Timeout: timeout}}
}

func (c *httpClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *httpClient) postJSON(ctx context.Context, url string, in, out any) (int, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("POST %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	if out != nil && resp.StatusCode < http.StatusBadRequest {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// submitLines pushes all generated lines through POST /statlines using
// the configured worker count.
func submitLines(ctx context.Context, cfg *Config, client *httpClient, lines []map[string]any, stats *Stats) {
	batches := make(chan []map[string]any)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range batches {
				submitBatch(ctx, cfg, client, batch, stats)
			}
		}()
	}

	for start := 0; start < len(lines); start += submitBatchSize {
		end := start + submitBatchSize
		if end > len(lines) {
			end = len(lines)
		}
		select {
		case batches <- lines[start:end]:
		case <-ctx.Done():
			start = len(lines)
		}
	}
	close(batches)
	wg.Wait()
}

func submitBatch(ctx context.Context, cfg *Config, client *httpClient, batch []map[string]any, stats *Stats) {
	var ack ingestAck
	status, err := client.postJSON(ctx, cfg.BaseURL+"/statlines", batch, &ack)
	if err != nil {
		stats.Errors.Add(int64(len(batch)))
		return
	}
	switch status {
	case http.StatusAccepted:
		stats.Submitted.Add(int64(ack.Accepted))
		stats.Rejected.Add(int64(ack.Rejected))
	case http.StatusTooManyRequests:
		stats.Rejected.Add(int64(len(batch)))
	default:
		stats.Errors.Add(int64(len(batch)))
	}
}
