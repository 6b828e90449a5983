// Copyright 2025 CineCraft, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package services

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

const (
	// DefaultMaxAttempts bounds how many times a retried call runs in
	// total, the first attempt included.
	DefaultMaxAttempts = 2

	// rateLimitBackoff is the fixed wait after a quota rejection. The
	// provider's per-minute buckets need real time to refill, so a short
	// linear backoff would just burn the remaining attempts.
	rateLimitBackoff = 10 * time.Second

	// attemptBackoffStep scales the linear backoff for ordinary failures:
	// 3s after the first attempt, 6s after the second.
	attemptBackoffStep = 3 * time.Second
)

// RetryPolicy re-runs a failing call a bounded number of times, with a
// backoff that depends on the failure class. Only transcription uses it:
// transcription is the longest and most expensive stage to restart from
// the top, while the other provider calls are cheap enough to surface
// their first error.
type RetryPolicy struct {
	MaxAttempts int
	// Sleep is swapped for a recorder in tests. Nil means time.Sleep.
	Sleep func(d time.Duration)
}

// NewRetryPolicy returns a policy with the default attempt budget.
func NewRetryPolicy() *RetryPolicy {
	return &RetryPolicy{MaxAttempts: DefaultMaxAttempts}
}

// Do runs fn until it succeeds, the attempt budget is exhausted, or ctx
// is cancelled. The error of the final attempt is returned unchanged so
// callers can still classify it.
func (p *RetryPolicy) Do(ctx context.Context, op string, fn func() error) error {
	max := p.MaxAttempts
	if max < 1 {
		max = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for attempt := 1; attempt <= max; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == max {
			break
		}

		wait := time.Duration(attempt) * attemptBackoffStep
		if IsRateLimited(lastErr) {
			wait = rateLimitBackoff
		}
		slog.Warn("retrying after failure",
			"operation", op,
			"attempt", attempt,
			"wait", wait.String(),
			"error", lastErr)
		sleep(wait)
	}
	return lastErr
}

// IsRateLimited reports whether an error looks like a provider quota
// rejection. The genai transport surfaces these as googleapi errors whose
// text carries the 429 status, so string matching is the practical test.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "quota")
}
