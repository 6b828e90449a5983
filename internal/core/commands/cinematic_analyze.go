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

package commands

import (
	"github.com/cinecraft/video-director/internal/core/cor"
	"github.com/cinecraft/video-director/internal/core/model"
	"github.com/cinecraft/video-director/internal/core/services"
)

// CinematicAnalyzeCommand feeds the extracted frames, the probed
// metadata and the transcript from the earlier stage through the
// cinematic analyzer. The transcript is context, not a requirement: a
// chain without one still analyzes on frames alone.
type CinematicAnalyzeCommand struct {
	cor.BaseCommand
	analyzer services.CinematicAnalyzer
}

// NewCinematicAnalyzeCommand creates the analysis step.
func NewCinematicAnalyzeCommand(name string, analyzer services.CinematicAnalyzer) *CinematicAnalyzeCommand {
	cmd := &CinematicAnalyzeCommand{BaseCommand: *cor.NewBaseCommand(name), analyzer: analyzer}
	cmd.InputParamName = CtxFrames
	return cmd
}

// Execute runs the cinematic analysis and publishes the report.
func (c *CinematicAnalyzeCommand) Execute(context cor.Context) {
	frames, ok := context.Get(c.GetInputParam()).([]*model.Frame)
	if !ok || len(frames) == 0 {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), cor.ErrMissingInput)
		return
	}
	meta, ok := context.Get(CtxVideoMeta).(*model.VideoMetadata)
	if !ok {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), cor.ErrMissingInput)
		return
	}

	transcription, _ := context.Get(CtxTranscription).(*model.Transcription)

	analysis, err := c.analyzer.Analyze(context.GetContext(), frames, meta, transcription)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(CtxCinematic, analysis)
	context.Add(c.GetOutputParam(), analysis)
}
