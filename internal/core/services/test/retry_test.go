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

// Package services_test contains unit tests for the provider adapters'
// supporting logic: the retry policy's attempt accounting and backoff
// selection, and the request validation that runs before any provider
// call.
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cinecraft/video-director/internal/core/services"
	"github.com/stretchr/testify/assert"
)

// TestRetryPolicySucceedsFirstTry verifies that a successful call runs
// exactly once and never sleeps.
func TestRetryPolicySucceedsFirstTry(t *testing.T) {
	var slept []time.Duration
	policy := &services.RetryPolicy{
		MaxAttempts: 2,
		Sleep:       func(d time.Duration) { slept = append(slept, d) },
	}

	calls := 0
	err := policy.Do(context.Background(), "test", func() error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, slept)
}

// TestRetryPolicyExhaustsAttempts verifies the attempt budget: with two
// attempts a persistently failing call runs exactly twice, sleeps once
// with the first linear backoff step, and surfaces the last error.
func TestRetryPolicyExhaustsAttempts(t *testing.T) {
	var slept []time.Duration
	policy := &services.RetryPolicy{
		MaxAttempts: 2,
		Sleep:       func(d time.Duration) { slept = append(slept, d) },
	}

	boom := errors.New("upstream unavailable")
	calls := 0
	err := policy.Do(context.Background(), "test", func() error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []time.Duration{3 * time.Second}, slept)
}

// TestRetryPolicyLinearBackoff verifies the backoff grows with the
// attempt number: 3s after the first failure, 6s after the second.
func TestRetryPolicyLinearBackoff(t *testing.T) {
	var slept []time.Duration
	policy := &services.RetryPolicy{
		MaxAttempts: 3,
		Sleep:       func(d time.Duration) { slept = append(slept, d) },
	}

	err := policy.Do(context.Background(), "test", func() error {
		return errors.New("still failing")
	})

	assert.Error(t, err)
	assert.Equal(t, []time.Duration{3 * time.Second, 6 * time.Second}, slept)
}

// TestRetryPolicyRateLimitBackoff verifies that a quota rejection waits
// the fixed ten seconds instead of the linear step: per-minute quota
// buckets need real time to refill.
func TestRetryPolicyRateLimitBackoff(t *testing.T) {
	var slept []time.Duration
	policy := &services.RetryPolicy{
		MaxAttempts: 2,
		Sleep:       func(d time.Duration) { slept = append(slept, d) },
	}

	err := policy.Do(context.Background(), "test", func() error {
		return errors.New("googleapi: Error 429: rate limit exceeded")
	})

	assert.Error(t, err)
	assert.Equal(t, []time.Duration{10 * time.Second}, slept)
}

// TestRetryPolicyRecovers verifies a failure followed by a success stops
// retrying and reports success.
func TestRetryPolicyRecovers(t *testing.T) {
	var slept []time.Duration
	policy := &services.RetryPolicy{
		MaxAttempts: 2,
		Sleep:       func(d time.Duration) { slept = append(slept, d) },
	}

	calls := 0
	err := policy.Do(context.Background(), "test", func() error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, slept, 1)
}

// TestRetryPolicyHonorsCancellation verifies a cancelled context stops
// the loop before the next attempt runs.
func TestRetryPolicyHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := &services.RetryPolicy{
		MaxAttempts: 3,
		Sleep:       func(time.Duration) { cancel() },
	}

	calls := 0
	err := policy.Do(ctx, "test", func() error {
		calls++
		return errors.New("failing")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

// TestIsRateLimited verifies the error classifier recognizes the shapes
// quota rejections actually arrive in.
func TestIsRateLimited(t *testing.T) {
	assert.True(t, services.IsRateLimited(errors.New("googleapi: Error 429: too many requests")))
	assert.True(t, services.IsRateLimited(errors.New("rpc error: code = ResourceExhausted desc = quota exceeded")))
	assert.True(t, services.IsRateLimited(errors.New("Rate limit reached for requests")))
	assert.False(t, services.IsRateLimited(errors.New("connection reset by peer")))
	assert.False(t, services.IsRateLimited(nil))
}
