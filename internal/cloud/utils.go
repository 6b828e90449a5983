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
// services. This file contains general-purpose helpers supporting the
// package: hierarchical configuration loading and a helper for collecting
// the text of a multi-modal GenAI response.
//
// Functions:
//   - LoadConfig: Implements a hierarchical configuration loader. It first
//     reads a base configuration file and then overwrites values with a
//     second, environment-specific file (e.g. .env.local.toml,
//     .env.test.toml). The environment is selected by an env variable.
//   - GenerateMultiModalResponse: Executes a single GenAI call, records
//     token-usage metrics, and returns the concatenated candidate text.
//     It deliberately does NOT retry: the transcription service owns the
//     only retry policy in the pipeline, so retrying here as well would
//     multiply attempts.
//   - StripCodeFence: Removes a Markdown code fence wrapping a model's
//     JSON answer.
//   - NewTextPart, NewInlineData: Factories for genai prompt parts.
package cloud

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/metric"

	"github.com/BurntSushi/toml"
	"google.golang.org/genai"
)

// Cloud constants define key strings used for configuration loading.
const (
	ConfigFileBaseName  = ".env"                         // The base name for configuration files (e.g. ".env.toml").
	ConfigFileExtension = ".toml"                        // The file extension for configuration files.
	ConfigSeparator     = "."                            // The separator in config file names (e.g. ".env.local.toml").
	EnvConfigFilePrefix = "VIDEO_DIRECTOR_CONFIG_PREFIX" // Env variable naming the config directory.
	EnvConfigRuntime    = "VIDEO_DIRECTOR_RUNTIME"       // Env variable naming the runtime context (e.g. "local", "test").
)

// fileExists checks if a file or directory exists at the given path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// LoadConfig provides hierarchical configuration loading. It first loads
// a base configuration file and then overwrites its values with an
// environment-specific file. The config directory and environment are
// taken from VIDEO_DIRECTOR_CONFIG_PREFIX and VIDEO_DIRECTOR_RUNTIME;
// the runtime defaults to "test" so unit tests need no setup.
func LoadConfig(baseConfig interface{}) error {
	configurationFilePrefix := os.Getenv(EnvConfigFilePrefix)
	if len(configurationFilePrefix) > 0 && !strings.HasSuffix(configurationFilePrefix, string(os.PathSeparator)) {
		configurationFilePrefix = configurationFilePrefix + string(os.PathSeparator)
	}

	runtimeEnvironment := os.Getenv(EnvConfigRuntime)
	if runtimeEnvironment == "" {
		runtimeEnvironment = "test"
	}

	baseConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigFileExtension
	envConfigFileName := configurationFilePrefix + ConfigFileBaseName + ConfigSeparator + runtimeEnvironment + ConfigFileExtension
	slog.Info("loading configuration",
		"base", baseConfigFileName,
		"environment", envConfigFileName,
		"runtime", runtimeEnvironment)

	if fileExists(baseConfigFileName) {
		if _, err := toml.DecodeFile(baseConfigFileName, baseConfig); err != nil {
			return err
		}
	}

	// Values in the environment file overwrite the base values.
	if fileExists(envConfigFileName) {
		if _, err := toml.DecodeFile(envConfigFileName, baseConfig); err != nil {
			return err
		}
	}
	return nil
}

// GenerateMultiModalResponse executes a multi-modal request against a
// generative model, records prompt and candidate token counts, and
// returns the concatenated text of all candidates with any surrounding
// Markdown code fence removed. Failures are returned to the caller
// unretried so each service can apply its own policy.
func GenerateMultiModalResponse(
	ctx context.Context,
	inputTokenCounter metric.Int64Counter,
	outputTokenCounter metric.Int64Counter,
	model *QuotaAwareGenerativeAIModel,
	content []*genai.Content) (string, error) {
	resp, err := model.GenerateContent(ctx, content)
	if err != nil {
		return "", err
	}
	if resp.UsageMetadata != nil {
		inputTokenCounter.Add(ctx, int64(resp.UsageMetadata.PromptTokenCount))
		outputTokenCounter.Add(ctx, int64(resp.UsageMetadata.CandidatesTokenCount))
	}

	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	return StripCodeFence(sb.String()), nil
}

// StripCodeFence removes a Markdown code fence wrapping a model response.
// Models asked for JSON routinely answer with "```json\n{...}\n```" even
// when told not to; the payload inside the fence is returned trimmed.
func StripCodeFence(in string) string {
	out := strings.TrimSpace(in)
	if !strings.HasPrefix(out, "```") {
		return out
	}
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	return strings.TrimSpace(out)
}

// NewTextPart creates the content slice for a plain-text prompt.
func NewTextPart(in string) []*genai.Content {
	return genai.Text(in)
}

// NewInlineData creates a prompt part carrying raw bytes, used for JPEG
// frames and WAV audio that never leave the process.
func NewInlineData(data []byte, mimeType string) *genai.Part {
	return &genai.Part{InlineData: &genai.Blob{Data: data, MIMEType: mimeType}}
}
