// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the API client and the
// attachment downloader.
package httputil

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// RetryBaseDelay is the fallback backoff used when a response carries no
// Retry-After header. It doubles on each attempt. Tests override this to
// avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// MaxRetryAfter caps a server-supplied Retry-After hint.
var MaxRetryAfter = 60 * time.Second

const defaultMaxRetries = 4

// Retryable reports whether status denotes a transient failure: rate
// limiting (429), a write conflict (409) or a server error (5xx).
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests ||
		status == http.StatusConflict ||
		status >= http.StatusInternalServerError
}

// DoWithRetry executes an HTTP request and retries transient failures. The
// wait before each retry is the response's Retry-After hint in seconds when
// present, otherwise RetryBaseDelay doubled per attempt.
//
// When maxRetries is 0 the default (4) is used. The body of a retried
// response is drained and closed before sleeping; requests with a body must
// set GetBody (http.NewRequest does this for in-memory readers). If the
// context is cancelled during a backoff wait the function returns ctx.Err().
// After exhausting retries the last response is returned so the caller can
// inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	log := zerolog.Ctx(ctx)

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}

		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := retryDelay(resp.Header.Get("Retry-After"), attempt)
		log.Debug().
			Int("status", resp.StatusCode).
			Dur("backoff", backoff).
			Int("attempt", attempt+1).
			Int("max", maxRetries).
			Str("url", req.URL.String()).
			Msg("transient failure, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func retryDelay(header string, attempt int) time.Duration {
	if secs, err := strconv.ParseFloat(strings.TrimSpace(header), 64); err == nil && secs >= 0 {
		d := time.Duration(secs * float64(time.Second))
		if d > MaxRetryAfter {
			d = MaxRetryAfter
		}
		return d
	}
	return time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
}
