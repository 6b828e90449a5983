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
	"time"

	"github.com/google/uuid"

	"github.com/cinecraft/video-director/internal/core/cor"
	"github.com/cinecraft/video-director/internal/core/model"
)

// AnalysisAssemblyCommand joins the transcript and the cinematic report
// into the final VideoAnalysis document, stamped with a fresh ID and the
// creation time. The ID is random rather than name-derived: the same
// file analyzed twice produces two distinct reports.
type AnalysisAssemblyCommand struct {
	cor.BaseCommand
}

// NewAnalysisAssemblyCommand creates the assembly step.
func NewAnalysisAssemblyCommand(name string) *AnalysisAssemblyCommand {
	cmd := &AnalysisAssemblyCommand{BaseCommand: *cor.NewBaseCommand(name)}
	cmd.InputParamName = CtxTranscription
	return cmd
}

// Execute assembles and publishes the report.
func (c *AnalysisAssemblyCommand) Execute(context cor.Context) {
	transcription, ok := context.Get(c.GetInputParam()).(*model.Transcription)
	if !ok {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), cor.ErrMissingInput)
		return
	}
	cinematic, ok := context.Get(CtxCinematic).(*model.CinematicAnalysis)
	if !ok {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), cor.ErrMissingInput)
		return
	}
	fileName, _ := context.Get(CtxFileName).(string)
	mediaURL, _ := context.Get(CtxMediaURL).(string)

	analysis := &model.VideoAnalysis{
		ID:            uuid.NewString(),
		FileName:      fileName,
		MediaURL:      mediaURL,
		CreatedAt:     time.Now(),
		Transcription: transcription,
		Cinematic:     cinematic,
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(CtxAnalysis, analysis)
	context.Add(c.GetOutputParam(), analysis)
}
