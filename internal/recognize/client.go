package recognize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	submitPath      = "/vision/v3.2/read/analyze"
	apiKeyHeader    = "Ocp-Apim-Subscription-Key"
	jobHandleHeader = "Operation-Location"

	// Job status values reported by the poll endpoint.
	StatusSucceeded  = "succeeded"
	StatusRunning    = "running"
	StatusNotStarted = "notStarted"
)

// Client talks to the external read/OCR API: one submit call that yields a job
// handle, then a bounded status poll against that handle.
type Client struct {
	endpoint    string
	apiKey      string
	httpClient  *http.Client
	maxAttempts int
	pollDelay   time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewClient constructs a recognition client.
func NewClient(endpoint, apiKey string, maxAttempts int, pollDelay time.Duration) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("VISION_ENDPOINT is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("VISION_KEY is required")
	}
	if maxAttempts <= 0 {
		maxAttempts = 120
	}
	if pollDelay <= 0 {
		pollDelay = time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxAttempts: maxAttempts,
		pollDelay:   pollDelay,
		sleep:       sleepCtx,
	}, nil
}

// Submit sends the document bytes for analysis and returns the job handle URL.
func (c *Client) Submit(ctx context.Context, data []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+submitPath, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit recognition: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("submit recognition: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	jobURL := strings.TrimSpace(resp.Header.Get(jobHandleHeader))
	if jobURL == "" {
		return "", ErrUpstreamProtocol
	}
	return jobURL, nil
}

type pollResponse struct {
	Status        string        `json:"status"`
	AnalyzeResult AnalyzeResult `json:"analyzeResult"`
}

// Await polls the job handle until a terminal status, bounded by the attempt
// count. It returns the payload on success, RecognitionFailedError for any
// other terminal status, and ErrRecognitionTimeout once the bound is hit.
func (c *Client) Await(ctx context.Context, jobURL string) (AnalyzeResult, error) {
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, c.pollDelay); err != nil {
				return AnalyzeResult{}, err
			}
		}

		status, result, err := c.poll(ctx, jobURL)
		if err != nil {
			return AnalyzeResult{}, err
		}

		switch status {
		case StatusSucceeded:
			return result, nil
		case StatusRunning, StatusNotStarted:
			// keep polling
		default:
			return AnalyzeResult{}, &RecognitionFailedError{Status: status}
		}
	}
	return AnalyzeResult{}, ErrRecognitionTimeout
}

func (c *Client) poll(ctx context.Context, jobURL string) (string, AnalyzeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jobURL, nil)
	if err != nil {
		return "", AnalyzeResult{}, err
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", AnalyzeResult{}, fmt.Errorf("poll recognition: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", AnalyzeResult{}, fmt.Errorf("poll recognition: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload pollResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", AnalyzeResult{}, fmt.Errorf("poll recognition: decode: %w", err)
	}
	if strings.TrimSpace(payload.Status) == "" {
		return "", AnalyzeResult{}, fmt.Errorf("poll recognition: %w", ErrUpstreamProtocol)
	}
	return payload.Status, payload.AnalyzeResult, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
