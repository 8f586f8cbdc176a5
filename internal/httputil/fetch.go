// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil fetches MCF documents published over HTTP.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/ogc-records/pkg/types"
)

// RetryBaseDelay is the first backoff interval. Tests override it to avoid
// real sleeps.
var RetryBaseDelay = 2 * time.Second

const (
	defaultMaxRetries = 5
	defaultUserAgent  = "ogc-records"
	maxBodyBytes      = 8 << 20
)

// ErrBodyTooLarge is returned when a response body exceeds the size limit.
var ErrBodyTooLarge = errors.New("httputil: response body too large")

// IsURL reports whether source names an http or https resource.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// retryable reports whether a status is worth another attempt.
func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// Fetch GETs url and returns the response body. HTTP 429 and 5xx responses
// are retried with exponential backoff starting at RetryBaseDelay and
// doubling each attempt, up to cfg.MaxRetries (default 5). Any other
// non-2xx status, or a retryable one after the last attempt, is an error,
// as is a body larger than 8 MiB.
// Cancelling ctx during a backoff wait returns ctx.Err().
func Fetch(ctx context.Context, client *http.Client, url string, cfg types.HTTPConfig) ([]byte, error) {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/yaml, text/yaml, text/plain, */*")

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", url, err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", url, err)
			}
			if len(data) > maxBodyBytes {
				return nil, fmt.Errorf("fetching %s: %w (limit %d bytes)", url, ErrBodyTooLarge, maxBodyBytes)
			}
			return data, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return nil, fmt.Errorf("fetching %s: HTTP %d", url, resp.StatusCode)
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}
