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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/template"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"

	"github.com/cinecraft/video-director/internal/cloud"
	"github.com/cinecraft/video-director/internal/core/model"
)

const (
	// MaxAudioBytes is the largest audio payload the transcription model
	// accepts, checked before any provider call.
	MaxAudioBytes = 25 << 20

	// fallbackSegmentSeconds is the uniform segment length used when the
	// model returns a transcript without timing information.
	fallbackSegmentSeconds = 5
)

// Transcriber converts an extracted audio track into a timed transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audio *model.AudioFile) (*model.Transcription, error)
}

// GenAITranscriber implements Transcriber on a quota-aware generative
// model using inline WAV audio. Transcription is the one pipeline stage
// with a retry policy: it sits at the front of every analysis, so a
// transient provider failure here would otherwise void the whole run.
type GenAITranscriber struct {
	model          *cloud.QuotaAwareGenerativeAIModel
	promptTemplate *template.Template
	retry          *RetryPolicy
	inputTokens    metric.Int64Counter
	outputTokens   metric.Int64Counter
}

// transcriptPayload is the JSON shape the prompt instructs the model to
// produce.
type transcriptPayload struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// NewGenAITranscriber builds a transcriber around the given model and
// prompt template. The template receives the audio duration in seconds
// as {{.Duration}}.
func NewGenAITranscriber(aiModel *cloud.QuotaAwareGenerativeAIModel, prompt string) (*GenAITranscriber, error) {
	tmpl, err := template.New("transcription").Parse(prompt)
	if err != nil {
		return nil, fmt.Errorf("invalid transcription prompt template: %w", err)
	}
	meter := otel.Meter("transcriber")
	inTokens, err := meter.Int64Counter("transcriber_input_tokens")
	if err != nil {
		return nil, err
	}
	outTokens, err := meter.Int64Counter("transcriber_output_tokens")
	if err != nil {
		return nil, err
	}
	return &GenAITranscriber{
		model:          aiModel,
		promptTemplate: tmpl,
		retry:          NewRetryPolicy(),
		inputTokens:    inTokens,
		outputTokens:   outTokens,
	}, nil
}

// Transcribe reads the extracted audio file, rejects it if it exceeds
// the provider's size limit, and asks the model for a timed transcript.
// Provider failures are retried per the policy; an untimed transcript is
// repaired with uniform fallback segments rather than rejected.
func (t *GenAITranscriber) Transcribe(ctx context.Context, audio *model.AudioFile) (*model.Transcription, error) {
	data, err := os.ReadFile(audio.Path)
	if err != nil {
		return nil, NewTranscriptionError("could not read extracted audio", err)
	}
	if len(data) > MaxAudioBytes {
		return nil, &ValidationError{Reason: fmt.Sprintf(
			"extracted audio is %.1f MiB, the transcription limit is %d MiB",
			float64(len(data))/(1<<20), MaxAudioBytes>>20)}
	}

	var promptBuf bytes.Buffer
	if err := t.promptTemplate.Execute(&promptBuf, struct{ Duration float64 }{Duration: audio.Duration}); err != nil {
		return nil, NewTranscriptionError("could not render transcription prompt", err)
	}

	content := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: promptBuf.String()},
			cloud.NewInlineData(data, "audio/wav"),
		},
	}}

	var raw string
	err = t.retry.Do(ctx, "transcribe", func() error {
		var genErr error
		raw, genErr = cloud.GenerateMultiModalResponse(ctx, t.inputTokens, t.outputTokens, t.model, content)
		return genErr
	})
	if err != nil {
		return nil, NewTranscriptionError("provider call failed after retries", err)
	}

	var payload transcriptPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, NewTranscriptionError(fmt.Sprintf("unparseable transcript payload: %s", head(raw)), err)
	}

	out := &model.Transcription{
		Text:     strings.TrimSpace(payload.Text),
		Language: payload.Language,
	}
	for i, seg := range payload.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		out.Segments = append(out.Segments, &model.Segment{
			Index: i,
			Start: int(seg.Start),
			End:   int(seg.End),
			Text:  text,
		})
	}
	if len(out.Segments) == 0 {
		out.Segments = fallbackSegments(out.Text)
	}
	return out, nil
}

// fallbackSegments splits an untimed transcript into sentences and
// assigns each a uniform five-second window, so downstream director
// modes still get timestamps to anchor their notes to. "Hello world.
// Goodbye now." becomes two segments covering [0,5) and [5,10).
func fallbackSegments(text string) []*model.Segment {
	sentences := splitSentences(text)
	segments := make([]*model.Segment, 0, len(sentences))
	for i, sentence := range sentences {
		segments = append(segments, &model.Segment{
			Index: i,
			Start: i * fallbackSegmentSeconds,
			End:   (i + 1) * fallbackSegmentSeconds,
			Text:  sentence,
		})
	}
	return segments
}

// splitSentences breaks text at sentence-final punctuation, keeping the
// punctuation with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// head returns the start of a payload for error messages, enough to see
// what the model actually sent without logging the whole response.
func head(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 160 {
		return s[:160] + "..."
	}
	return s
}
