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

// Package workflow defines the high-level orchestrations, combining the
// atomic commands into coherent pipelines. This file implements the
// primary upload-to-report analysis workflow.
package workflow

import (
	"github.com/cinecraft/video-director/internal/core/commands"
	"github.com/cinecraft/video-director/internal/core/cor"
	"github.com/cinecraft/video-director/internal/core/media"
	"github.com/cinecraft/video-director/internal/core/services"
)

// Thumbnail defaults for report previews.
const (
	defaultThumbnailCount = 3
	defaultThumbnailWidth = 320
)

// VideoAnalysisWorkflow orchestrates the full analysis of one uploaded
// video: persist the upload, validate it, extract audio and frames, run
// the transcription and cinematic adapters, assemble the report, and
// persist it with its archived source. It is a cor.Chain underneath, so
// it plugs into an API handler and a listener alike.
//
// The chain's context is the cleanup boundary: every step registers its
// artifacts there, and the caller's deferred Close removes them whether
// the chain succeeded, failed at any step, or panicked.
type VideoAnalysisWorkflow struct {
	cor.BaseCommand
	store       *media.Store
	extractor   *media.Extractor
	transcriber services.Transcriber
	analyzer    services.CinematicAnalyzer
	reports     *services.ReportService
	frameRate   float64
	chain       cor.Chain
}

// Execute runs the workflow by invoking the underlying chain.
func (w *VideoAnalysisWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

// initializeChain builds the command sequence. The order matters:
// validation runs before any extraction so an inadmissible video costs
// one ffprobe call, and transcription runs before frame analysis so the
// cheaper failure mode surfaces first.
func (w *VideoAnalysisWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	// Step 1: write the upload into the temp store under a unique name.
	out.AddCommand(commands.NewVideoSaveCommand("save-upload", w.store))

	// Step 2: probe the file and apply the admission rules.
	out.AddCommand(commands.NewVideoValidateCommand("validate-video", w.extractor))

	// Step 3: extract the 16 kHz mono audio track.
	out.AddCommand(commands.NewAudioExtractCommand("extract-audio", w.extractor))

	// Step 4: transcribe (the only retried provider call).
	out.AddCommand(commands.NewTranscribeCommand("transcribe-audio", w.transcriber))

	// Step 5: sample frames for the cinematic analyzer.
	out.AddCommand(commands.NewFrameExtractCommand("extract-frames", w.extractor, w.frameRate))

	// Step 6: score camera work, lighting, composition and quality.
	out.AddCommand(commands.NewCinematicAnalyzeCommand("analyze-cinematics", w.analyzer))

	// Step 7: preview stills for the report browser.
	out.AddCommand(commands.NewThumbnailGenerateCommand("generate-thumbnails", w.extractor, defaultThumbnailCount, defaultThumbnailWidth))

	// Step 8: join transcript and cinematic report into one document.
	out.AddCommand(commands.NewAnalysisAssemblyCommand("assemble-report"))

	// Step 9: archive the source and stream the report into BigQuery.
	if w.reports != nil {
		out.AddCommand(commands.NewAnalysisPersistCommand("persist-report", w.reports, true))
	}

	w.chain = out
}

// NewVideoAnalysisWorkflow constructs the upload analysis pipeline from
// its service dependencies. A nil report service produces an ephemeral
// pipeline whose result lives only in the chain context, which is what
// the synchronous API path without persistence configured uses.
func NewVideoAnalysisWorkflow(
	name string,
	store *media.Store,
	extractor *media.Extractor,
	transcriber services.Transcriber,
	analyzer services.CinematicAnalyzer,
	reports *services.ReportService,
	frameRate float64,
) *VideoAnalysisWorkflow {
	w := &VideoAnalysisWorkflow{
		BaseCommand: *cor.NewBaseCommand(name),
		store:       store,
		extractor:   extractor,
		transcriber: transcriber,
		analyzer:    analyzer,
		reports:     reports,
		frameRate:   frameRate,
	}
	w.initializeChain()
	return w
}
