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
	"text/template"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/cinecraft/video-director/internal/cloud"
	"github.com/cinecraft/video-director/internal/core/model"
)

// DirectorRequest carries everything a director pass needs: the analyzed
// video, the requested mode, and an optional tone for the rewrite modes.
type DirectorRequest struct {
	Mode          model.DirectorMode
	Tone          string
	Transcription *model.Transcription
	Cinematic     *model.CinematicAnalysis
}

// Director produces narration guidance for an analyzed video: timestamped
// scene notes, line-by-line rewrites, or a full replacement script.
type Director interface {
	Direct(ctx context.Context, req *DirectorRequest) (*model.DirectorAnalysis, error)
}

// GenAIDirector implements Director on a quota-aware generative model.
// Each mode has its own prompt template and few-shot example; the model
// is configured for JSON output. Director passes are not retried.
type GenAIDirector struct {
	model        *cloud.QuotaAwareGenerativeAIModel
	templates    map[model.DirectorMode]*template.Template
	inputTokens  metric.Int64Counter
	outputTokens metric.Int64Counter
}

// directorPromptData is the payload rendered into each mode's template.
type directorPromptData struct {
	Tone       string
	Transcript string
	Segments   []*model.Segment
	Duration   int
	Cinematic  string
	Example    string
}

// NewGenAIDirector builds a director around the given model and the three
// per-mode prompt templates.
func NewGenAIDirector(aiModel *cloud.QuotaAwareGenerativeAIModel, scenePrompt, rewritePrompt, fullPrompt string) (*GenAIDirector, error) {
	templates := make(map[model.DirectorMode]*template.Template)
	for mode, body := range map[model.DirectorMode]string{
		model.ModeSceneDirector: scenePrompt,
		model.ModeScriptRewrite: rewritePrompt,
		model.ModeFullRewrite:   fullPrompt,
	} {
		tmpl, err := template.New(string(mode)).Parse(body)
		if err != nil {
			return nil, fmt.Errorf("invalid %s prompt template: %w", mode, err)
		}
		templates[mode] = tmpl
	}
	meter := otel.Meter("director")
	inTokens, err := meter.Int64Counter("director_input_tokens")
	if err != nil {
		return nil, err
	}
	outTokens, err := meter.Int64Counter("director_output_tokens")
	if err != nil {
		return nil, err
	}
	return &GenAIDirector{
		model:        aiModel,
		templates:    templates,
		inputTokens:  inTokens,
		outputTokens: outTokens,
	}, nil
}

// Direct renders the mode's prompt over the transcript and cinematic
// report, runs the model, and parses the answer into the mode's result
// shape. Scene director mode yields timestamped notes, script rewrite
// yields per-segment rewrites with a script analysis, and full rewrite
// yields a complete replacement script ending in a call to action.
func (d *GenAIDirector) Direct(ctx context.Context, req *DirectorRequest) (*model.DirectorAnalysis, error) {
	if !req.Mode.Valid() {
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown director mode %q", req.Mode)}
	}
	if req.Transcription == nil || len(req.Transcription.Segments) == 0 {
		return nil, &ValidationError{Reason: "director pass requires a timed transcript"}
	}

	data := directorPromptData{
		Tone:       req.Tone,
		Transcript: req.Transcription.Text,
		Segments:   req.Transcription.Segments,
		Duration:   req.Transcription.Duration(),
		Example:    exampleForMode(req.Mode),
	}
	if req.Cinematic != nil {
		cinematicJSON, err := json.Marshal(req.Cinematic)
		if err != nil {
			return nil, NewRewriteError("could not serialize cinematic report for prompt", err)
		}
		data.Cinematic = string(cinematicJSON)
	}

	var promptBuf bytes.Buffer
	if err := d.templates[req.Mode].Execute(&promptBuf, data); err != nil {
		return nil, NewRewriteError("could not render director prompt", err)
	}

	raw, err := cloud.GenerateMultiModalResponse(ctx, d.inputTokens, d.outputTokens, d.model, cloud.NewTextPart(promptBuf.String()))
	if err != nil {
		return nil, NewRewriteError("provider call failed", err)
	}

	analysis := &model.DirectorAnalysis{Mode: req.Mode}
	if err := json.Unmarshal([]byte(raw), analysis); err != nil {
		return nil, NewRewriteError(fmt.Sprintf("unparseable director payload: %s", head(raw)), err)
	}
	analysis.Mode = req.Mode

	// Every mode has a hard minimum deliverable; an empty answer means
	// the model ignored the instructions and the result is unusable.
	switch req.Mode {
	case model.ModeSceneDirector:
		if len(analysis.DirectorNotes) == 0 {
			return nil, NewRewriteError("scene director returned no notes", nil)
		}
	case model.ModeScriptRewrite, model.ModeFullRewrite:
		if len(analysis.RewrittenScript) == 0 {
			return nil, NewRewriteError(fmt.Sprintf("%s returned no script lines", req.Mode), nil)
		}
	}
	return analysis, nil
}

// exampleForMode returns the serialized few-shot example embedded in the
// mode's prompt, anchoring the model to the exact output shape.
func exampleForMode(mode model.DirectorMode) string {
	var example any
	switch mode {
	case model.ModeSceneDirector:
		example = model.GetExampleDirectorNote()
	case model.ModeScriptRewrite:
		example = model.GetExampleScriptRewrite()
	default:
		return ""
	}
	out, err := json.MarshalIndent(example, "", "  ")
	if err != nil {
		return ""
	}
	return string(out)
}
