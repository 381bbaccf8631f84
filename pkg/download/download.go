// pkg/download/download.go - HTTP retrieval of remote metadata documents.

package download

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sdporres/wdssupermenu/pkg/logging"
	"github.com/sdporres/wdssupermenu/pkg/retry"
)

const (
	// Timeout bounds a single remote request.
	Timeout = 10 * time.Second
	// UserAgent identifies the client; GitHub rejects requests without one.
	UserAgent = "WDS-Super-Menu-UpdateChecker"
	// maxBodyBytes caps documents we are willing to parse.
	maxBodyBytes = 4 << 20
)

// Options tune a fetch. Timeout covers every attempt of a fetch.
type Options struct {
	Client  *http.Client
	Timeout time.Duration
	Retry   retry.RetryConfig
}

// DefaultOptions uses a 10s timeout and a single retry.
func DefaultOptions() Options {
	return Options{
		Timeout: Timeout,
		Retry:   retry.RetryConfig{MaxRetries: 2, InitialInterval: 500 * time.Millisecond, Multiplier: 2.0},
	}
}

// StatusError reports a non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status code %d from %s", e.StatusCode, e.URL)
}

// Fetch performs a GET and returns the body. Client errors (4xx) are not retried.
func Fetch(ctx context.Context, url string, opts Options) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("invalid parameters: url cannot be empty")
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = Timeout
	}

	// The timeout bounds the whole fetch, retries and backoff included.
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body []byte
	err := retry.Retry(fetchCtx, opts.Retry, func() error {
		req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, url, nil)
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to prepare HTTP request: %w", err))
		}
		req.Header.Set("User-Agent", UserAgent)
		req.Header.Set("Accept", "application/json")

		logging.Debug("Starting fetch", "url", url)
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to perform HTTP request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			statusErr := &StatusError{URL: url, StatusCode: resp.StatusCode}
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return retry.Permanent(statusErr)
			}
			return statusErr
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	logging.Debug("Fetch completed", "url", url, "bytes", len(body))
	return body, nil
}

// FetchJSON fetches url and decodes the JSON document into v. Malformed
// documents are reported without retrying.
func FetchJSON(ctx context.Context, url string, v interface{}, opts Options) error {
	body, err := Fetch(ctx, url, opts)
	if err != nil {
		return err
	}
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return nil
}
