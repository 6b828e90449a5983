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

// Package services holds the provider adapters: transcription, cinematic
// analysis, director rewrites, speech synthesis, remote download and
// report persistence. This file defines the typed errors those adapters
// return, each carrying the HTTP status the API layer should map it to.
package services

import "fmt"

// ValidationError reports a request rejected before any provider call:
// an oversized upload, a bad MIME type, an unplayable video. It always
// maps to a client error.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// StatusCode returns the HTTP status for a validation failure.
func (e *ValidationError) StatusCode() int { return 400 }

// ProviderError is the shared shape for failures talking to the
// generative AI provider. Stage names the adapter that failed.
type ProviderError struct {
	Stage  string // "transcription", "analysis", "rewrite" or "synthesis".
	Detail string // Human-readable context, e.g. the head of an unparseable payload.
	Err    error  // The underlying provider or parse error, when there is one.
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Stage, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Stage, e.Detail)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// StatusCode maps provider failures to a 502: the request was fine, the
// upstream was not.
func (e *ProviderError) StatusCode() int { return 502 }

// NewTranscriptionError wraps a failure in the audio transcription stage.
func NewTranscriptionError(detail string, err error) *ProviderError {
	return &ProviderError{Stage: "transcription", Detail: detail, Err: err}
}

// NewAnalysisError wraps a failure in the cinematic analysis stage.
func NewAnalysisError(detail string, err error) *ProviderError {
	return &ProviderError{Stage: "analysis", Detail: detail, Err: err}
}

// NewRewriteError wraps a failure in the director rewrite stage.
func NewRewriteError(detail string, err error) *ProviderError {
	return &ProviderError{Stage: "rewrite", Detail: detail, Err: err}
}

// NewSynthesisError wraps a failure in the speech synthesis stage.
func NewSynthesisError(detail string, err error) *ProviderError {
	return &ProviderError{Stage: "synthesis", Detail: detail, Err: err}
}

// DownloadError reports a failed remote video fetch. The tool output
// tail is preserved because yt-dlp puts the actual reason there.
type DownloadError struct {
	URL    string
	Detail string
	Err    error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download of %s failed: %s: %v", e.URL, e.Detail, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// StatusCode maps download failures to a 502.
func (e *DownloadError) StatusCode() int { return 502 }
