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

package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cinecraft/video-director/internal/core/commands"
	"github.com/cinecraft/video-director/internal/core/cor"
	"github.com/cinecraft/video-director/internal/core/model"
	"github.com/cinecraft/video-director/internal/core/services"
)

// recordingAnalyzer captures what the command hands the analyzer.
type recordingAnalyzer struct {
	frames        []*model.Frame
	meta          *model.VideoMetadata
	transcription *model.Transcription
	result        *model.CinematicAnalysis
}

func (a *recordingAnalyzer) Analyze(_ context.Context, frames []*model.Frame, meta *model.VideoMetadata, transcription *model.Transcription) (*model.CinematicAnalysis, error) {
	a.frames = frames
	a.meta = meta
	a.transcription = transcription
	return a.result, nil
}

var _ services.CinematicAnalyzer = (*recordingAnalyzer)(nil)

// The analysis step hands the analyzer everything the chain has produced
// so far: the frames, the probed metadata, and the transcript from the
// transcription stage.
func TestCinematicAnalyzePassesTranscript(t *testing.T) {
	analyzer := &recordingAnalyzer{result: &model.CinematicAnalysis{OverallScore: 74}}
	transcription := &model.Transcription{Text: "A walkthrough of the new kitchen."}
	frames := []*model.Frame{{Path: "frame-0001.jpg", Timestamp: 1.0, Index: 0}}
	meta := &model.VideoMetadata{Duration: 30, Width: 1920, Height: 1080, FPS: 30}

	chainCtx := cor.NewBaseContext()
	defer chainCtx.Close()
	chainCtx.SetContext(context.Background())
	chainCtx.Add(commands.CtxFrames, frames)
	chainCtx.Add(commands.CtxVideoMeta, meta)
	chainCtx.Add(commands.CtxTranscription, transcription)

	cmd := commands.NewCinematicAnalyzeCommand("analyze-cinematics", analyzer)
	cmd.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, frames, analyzer.frames)
	assert.Equal(t, meta, analyzer.meta)
	assert.Equal(t, transcription, analyzer.transcription)
	assert.Equal(t, analyzer.result, chainCtx.Get(commands.CtxCinematic))
}

// A chain without a transcription stage still analyzes on frames alone.
func TestCinematicAnalyzeWithoutTranscript(t *testing.T) {
	analyzer := &recordingAnalyzer{result: &model.CinematicAnalysis{OverallScore: 60}}

	chainCtx := cor.NewBaseContext()
	defer chainCtx.Close()
	chainCtx.SetContext(context.Background())
	chainCtx.Add(commands.CtxFrames, []*model.Frame{{Path: "frame-0001.jpg"}})
	chainCtx.Add(commands.CtxVideoMeta, &model.VideoMetadata{Duration: 10})

	cmd := commands.NewCinematicAnalyzeCommand("analyze-cinematics", analyzer)
	cmd.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	assert.Nil(t, analyzer.transcription)
	assert.NotNil(t, chainCtx.Get(commands.CtxCinematic))
}
