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
	"github.com/cinecraft/video-director/internal/core/media"
	"github.com/cinecraft/video-director/internal/core/model"
)

// DefaultMaxAnalysisFrames is the frame budget for a single analysis
// call. Five evenly spread frames are enough for camera, lighting and
// composition judgments while keeping the prompt small.
const DefaultMaxAnalysisFrames = 5

// MaxTranscriptExcerptChars caps how much of the transcript travels in
// the vision prompt. The opening lines are enough to tell the model what
// the video is about without crowding out the frames.
const MaxTranscriptExcerptChars = 200

// CinematicAnalyzer scores a video's camera work, lighting, composition
// and technical quality from a sample of its frames. The transcription
// is optional context; a nil transcription analyzes on frames alone.
type CinematicAnalyzer interface {
	Analyze(ctx context.Context, frames []*model.Frame, meta *model.VideoMetadata, transcription *model.Transcription) (*model.CinematicAnalysis, error)
}

// GenAICinematicAnalyzer implements CinematicAnalyzer on a quota-aware
// generative model, sending sampled JPEG frames inline together with the
// video's metadata. The model is configured for JSON output; the answer
// is parsed strictly into the report structure. The call is not retried:
// frames are cheap to re-analyze, so a failure surfaces immediately.
type GenAICinematicAnalyzer struct {
	model          *cloud.QuotaAwareGenerativeAIModel
	promptTemplate *template.Template
	maxFrames      int
	inputTokens    metric.Int64Counter
	outputTokens   metric.Int64Counter
}

// cinematicPromptData is the payload rendered into the analysis prompt.
type cinematicPromptData struct {
	Duration          float64
	Width             int
	Height            int
	FPS               float64
	FrameCount        int
	Timestamps        []float64
	TranscriptExcerpt string
	Example           string
}

// NewGenAICinematicAnalyzer builds an analyzer around the given model
// and prompt template. maxFrames at or below zero falls back to the
// default budget.
func NewGenAICinematicAnalyzer(aiModel *cloud.QuotaAwareGenerativeAIModel, prompt string, maxFrames int) (*GenAICinematicAnalyzer, error) {
	tmpl, err := template.New("cinematic").Parse(prompt)
	if err != nil {
		return nil, fmt.Errorf("invalid cinematic prompt template: %w", err)
	}
	if maxFrames <= 0 {
		maxFrames = DefaultMaxAnalysisFrames
	}
	meter := otel.Meter("cinematic-analyzer")
	inTokens, err := meter.Int64Counter("cinematic_input_tokens")
	if err != nil {
		return nil, err
	}
	outTokens, err := meter.Int64Counter("cinematic_output_tokens")
	if err != nil {
		return nil, err
	}
	return &GenAICinematicAnalyzer{
		model:          aiModel,
		promptTemplate: tmpl,
		maxFrames:      maxFrames,
		inputTokens:    inTokens,
		outputTokens:   outTokens,
	}, nil
}

// Analyze samples the extracted frames down to the configured budget,
// builds a multi-image prompt with the transcript excerpt and few-shot
// example, and parses the model's JSON report.
func (a *GenAICinematicAnalyzer) Analyze(ctx context.Context, frames []*model.Frame, meta *model.VideoMetadata, transcription *model.Transcription) (*model.CinematicAnalysis, error) {
	if len(frames) == 0 {
		return nil, NewAnalysisError("no frames to analyze", nil)
	}
	sampled := media.SampleFramesEvenly(frames, a.maxFrames)

	data := cinematicPromptData{
		Duration:          meta.Duration,
		Width:             meta.Width,
		Height:            meta.Height,
		FPS:               meta.FPS,
		FrameCount:        len(sampled),
		TranscriptExcerpt: transcriptExcerpt(transcription),
		Example:           exampleCinematicJSON(),
	}
	for _, frame := range sampled {
		data.Timestamps = append(data.Timestamps, frame.Timestamp)
	}

	var promptBuf bytes.Buffer
	if err := a.promptTemplate.Execute(&promptBuf, data); err != nil {
		return nil, NewAnalysisError("could not render analysis prompt", err)
	}

	parts := []*genai.Part{{Text: promptBuf.String()}}
	for _, frame := range sampled {
		jpeg, err := os.ReadFile(frame.Path)
		if err != nil {
			return nil, NewAnalysisError(fmt.Sprintf("could not read frame %s", frame.Path), err)
		}
		parts = append(parts, cloud.NewInlineData(jpeg, "image/jpeg"))
	}
	content := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	raw, err := cloud.GenerateMultiModalResponse(ctx, a.inputTokens, a.outputTokens, a.model, content)
	if err != nil {
		return nil, NewAnalysisError("provider call failed", err)
	}

	analysis := &model.CinematicAnalysis{}
	if err := json.Unmarshal([]byte(raw), analysis); err != nil {
		return nil, NewAnalysisError(fmt.Sprintf("unparseable analysis payload: %s", head(raw)), err)
	}
	return analysis, nil
}

// transcriptExcerpt trims the transcript down to its opening characters
// for the vision prompt. Cuts at a rune boundary so a multi-byte
// character never gets split.
func transcriptExcerpt(transcription *model.Transcription) string {
	if transcription == nil {
		return ""
	}
	text := strings.TrimSpace(transcription.Text)
	runes := []rune(text)
	if len(runes) <= MaxTranscriptExcerptChars {
		return text
	}
	return string(runes[:MaxTranscriptExcerptChars]) + "..."
}

// exampleCinematicJSON serializes the few-shot example embedded in the
// vision prompt, anchoring the model to the exact output shape.
func exampleCinematicJSON() string {
	out, err := json.MarshalIndent(model.GetExampleCinematicAnalysis(), "", "  ")
	if err != nil {
		return ""
	}
	return string(out)
}
