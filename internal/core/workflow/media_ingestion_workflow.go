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

package workflow

import (
	"cloud.google.com/go/storage"

	"github.com/cinecraft/video-director/internal/core/commands"
	"github.com/cinecraft/video-director/internal/core/cor"
	"github.com/cinecraft/video-director/internal/core/media"
	"github.com/cinecraft/video-director/internal/core/services"
)

// MediaIngestionWorkflow is the background counterpart of the upload
// pipeline: it is triggered by a GCS object notification on the ingest
// bucket, downloads the video locally, and runs the same validate,
// extract, transcribe, analyze and persist sequence. The report's media
// URL points at the original ingest object, so nothing is re-archived.
type MediaIngestionWorkflow struct {
	cor.BaseCommand
	storageClient *storage.Client
	store         *media.Store
	extractor     *media.Extractor
	transcriber   services.Transcriber
	analyzer      services.CinematicAnalyzer
	reports       *services.ReportService
	frameRate     float64
	chain         cor.Chain
}

// Execute runs the workflow by invoking the underlying chain.
func (w *MediaIngestionWorkflow) Execute(context cor.Context) {
	w.chain.Execute(context)
}

func (w *MediaIngestionWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	// Step 1: parse the notification and reject non-video objects.
	out.AddCommand(commands.NewMediaTriggerToGCSObject("read-ingest-trigger"))

	// Step 2: stream the object into the local temp store.
	out.AddCommand(commands.NewGCSToTempFile("download-ingest-object", w.storageClient, w.store))

	// Steps 3+: the same spine as the upload pipeline, minus archival.
	out.AddCommand(commands.NewVideoValidateCommand("validate-video", w.extractor))
	out.AddCommand(commands.NewAudioExtractCommand("extract-audio", w.extractor))
	out.AddCommand(commands.NewTranscribeCommand("transcribe-audio", w.transcriber))
	out.AddCommand(commands.NewFrameExtractCommand("extract-frames", w.extractor, w.frameRate))
	out.AddCommand(commands.NewCinematicAnalyzeCommand("analyze-cinematics", w.analyzer))
	out.AddCommand(commands.NewAnalysisAssemblyCommand("assemble-report"))
	out.AddCommand(commands.NewAnalysisPersistCommand("persist-report", w.reports, false))

	w.chain = out
}

// NewMediaIngestionWorkflow constructs the bucket-triggered pipeline.
func NewMediaIngestionWorkflow(
	name string,
	storageClient *storage.Client,
	store *media.Store,
	extractor *media.Extractor,
	transcriber services.Transcriber,
	analyzer services.CinematicAnalyzer,
	reports *services.ReportService,
	frameRate float64,
) *MediaIngestionWorkflow {
	w := &MediaIngestionWorkflow{
		BaseCommand:   *cor.NewBaseCommand(name),
		storageClient: storageClient,
		store:         store,
		extractor:     extractor,
		transcriber:   transcriber,
		analyzer:      analyzer,
		reports:       reports,
		frameRate:     frameRate,
	}
	w.initializeChain()
	return w
}
