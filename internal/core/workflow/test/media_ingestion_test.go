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

// Package workflow_test contains integration tests for the analysis
// pipelines. This file tests the complete media ingestion workflow: it
// simulates the Pub/Sub notification emitted when a video lands in the
// ingest bucket and runs the full chain against it, from download through
// transcription and cinematic analysis to the persisted report.
package workflow_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/codes"

	"github.com/cinecraft/video-director/internal/core/commands"
	"github.com/cinecraft/video-director/internal/core/cor"
	"github.com/cinecraft/video-director/internal/core/media"
	"github.com/cinecraft/video-director/internal/core/model"
	"github.com/cinecraft/video-director/internal/core/services"
	"github.com/cinecraft/video-director/internal/core/workflow"
	test "github.com/cinecraft/video-director/internal/testutil"
)

// TestMediaIngestionChain performs an end-to-end run of the ingestion
// workflow against the test project. The source video named in the test
// message must exist in the test ingest bucket. The workflow's context
// must end without errors, with the assembled report published and every
// temp artifact registered for cleanup.
func TestMediaIngestionChain(t *testing.T) {
	traceCtx, span := tracer.Start(ctx, "media-ingestion-test")
	defer span.End()

	store, err := media.NewStore(config.Media.TempDir)
	assert.NoError(t, err)
	extractor := media.NewExtractor(store, config.Media.FFmpegPath, config.Media.FFprobePath)

	transcriber, err := services.NewGenAITranscriber(
		cloudClients.AgentModels["transcriber"],
		config.PromptTemplates.TranscriptionPrompt)
	assert.NoError(t, err)

	analyzer, err := services.NewGenAICinematicAnalyzer(
		cloudClients.AgentModels["analyst"],
		config.PromptTemplates.CinematicPrompt,
		config.Media.MaxAnalysisFrames)
	assert.NoError(t, err)

	reports := &services.ReportService{
		BigqueryClient: cloudClients.BigQueryClient,
		StorageClient:  cloudClients.StorageClient,
		IAMClient:      cloudClients.IAMClient,
		SignerEmail:    config.Application.SignerServiceAccountEmail,
		DatasetName:    config.BigQueryDataSource.DatasetName,
		AnalysisTable:  config.BigQueryDataSource.AnalysisTable,
		ArchiveBucket:  config.Storage.ArchiveBucket,
	}

	ingestion := workflow.NewMediaIngestionWorkflow(
		"media-ingestion-test",
		cloudClients.StorageClient,
		store,
		extractor,
		transcriber,
		analyzer,
		reports,
		config.Media.FrameRate)

	chainCtx := cor.NewBaseContext()
	defer chainCtx.Close()
	chainCtx.SetContext(traceCtx)
	chainCtx.Add(cor.CtxIn, test.GetTestIngestMessageText())

	ingestion.Execute(chainCtx)

	for k, err := range chainCtx.GetErrors() {
		fmt.Printf("Error: (%s): %v\n", k, err)
	}

	if chainCtx.HasErrors() {
		span.SetStatus(codes.Error, "failed to execute media ingestion test")
	}
	assert.False(t, chainCtx.HasErrors())

	span.SetStatus(codes.Ok, "passed - media ingestion test")

	analysis, ok := chainCtx.Get(commands.CtxAnalysis).(*model.VideoAnalysis)
	assert.True(t, ok)
	assert.NotEmpty(t, analysis.ID)
	assert.Equal(t, "product-demo-001.mp4", analysis.FileName)
	assert.NotNil(t, analysis.Transcription)
	assert.NotNil(t, analysis.Cinematic)
	// The downloaded source and every extraction artifact must be owned
	// by the chain context so Close can reclaim them.
	assert.NotEmpty(t, chainCtx.GetTempFiles())
}

// TestMediaIngestionRejectsNonVideo runs the chain against a text object
// notification and expects it to stop at the trigger step.
func TestMediaIngestionRejectsNonVideo(t *testing.T) {
	store, err := media.NewStore(config.Media.TempDir)
	assert.NoError(t, err)
	extractor := media.NewExtractor(store, config.Media.FFmpegPath, config.Media.FFprobePath)

	transcriber, err := services.NewGenAITranscriber(
		cloudClients.AgentModels["transcriber"],
		config.PromptTemplates.TranscriptionPrompt)
	assert.NoError(t, err)

	analyzer, err := services.NewGenAICinematicAnalyzer(
		cloudClients.AgentModels["analyst"],
		config.PromptTemplates.CinematicPrompt,
		config.Media.MaxAnalysisFrames)
	assert.NoError(t, err)

	ingestion := workflow.NewMediaIngestionWorkflow(
		"media-ingestion-reject-test",
		cloudClients.StorageClient,
		store,
		extractor,
		transcriber,
		analyzer,
		nil,
		config.Media.FrameRate)

	chainCtx := cor.NewBaseContext()
	defer chainCtx.Close()
	chainCtx.SetContext(ctx)
	chainCtx.Add(cor.CtxIn, test.GetTestNonVideoMessageText())

	ingestion.Execute(chainCtx)

	assert.True(t, chainCtx.HasErrors())
	assert.Nil(t, chainCtx.Get(commands.CtxAnalysis))
}
