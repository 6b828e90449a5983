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

// Package cloud provides components for interacting with Google Cloud
// services. This file implements a decorator around the Generative AI
// model handle that adds rate limiting. Vertex AI enforces per-minute
// quotas; the decorator makes every caller share one token bucket so the
// application cannot exceed them, regardless of how many requests arrive
// in parallel.
//
// Structs:
//   - QuotaAwareGenerativeAIModel: Wraps a model name, its generation
//     config and the client's model handle with a rate limiter.
//
// Functions:
//   - NewQuotaAwareModel: Constructor for the wrapped model.
//   - GenerateContent: Blocks on the limiter, then issues the call.
package cloud

import (
	"context"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// QuotaAwareGenerativeAIModel is a decorator that pairs a configured
// generative model with a shared rate limiter. All services that hold the
// same instance contend for the same token bucket.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig // The generation parameters applied to every call.
	ModelName               string                       // The Vertex AI model identifier.
	ModelHandle             *genai.Models                // The client's model handle that executes the calls.
	RateLimit               *rate.Limiter                // Token bucket controlling request frequency.
}

// NewQuotaAwareModel creates a QuotaAwareGenerativeAIModel around the
// given generation config and model handle. requestsPerSecond sets both
// the refill rate and the burst size of the limiter; values below one
// fall back to one request per second.
func NewQuotaAwareModel(wrapped *genai.GenerateContentConfig, name string, handle *genai.Models, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	if requestsPerSecond < 1 {
		requestsPerSecond = 1
	}
	return &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: wrapped,
		ModelName:               name,
		ModelHandle:             handle,
		RateLimit:               rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// GenerateContent waits for a limiter token, then issues the generation
// request with the wrapped configuration. Waiting respects the caller's
// context, so a cancelled request stops queueing instead of burning a
// token. Errors are returned to the caller without retrying; retry
// policy belongs to the services that know which calls are worth
// repeating.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, err
	}
	return q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerativeContentConfig)
}

// GenerateContentWithConfig behaves like GenerateContent but substitutes
// a per-request generation config, still paying the shared limiter. The
// speech synthesizer uses this to select a voice per request while every
// synthesis call draws from one bucket.
func (q *QuotaAwareGenerativeAIModel) GenerateContentWithConfig(ctx context.Context, content []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, err
	}
	return q.ModelHandle.GenerateContent(ctx, q.ModelName, content, cfg)
}
