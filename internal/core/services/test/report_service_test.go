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

// This file contains an integration test for the report store. It runs
// against the live test project from configs/.env.test.toml: it streams a
// report into BigQuery, reads it back by ID, and lists recent reports.
package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/assert"

	"github.com/cinecraft/video-director/internal/cloud"
	"github.com/cinecraft/video-director/internal/core/model"
	"github.com/cinecraft/video-director/internal/core/services"
	test "github.com/cinecraft/video-director/internal/testutil"
)

// TestReportService round-trips one analysis report through BigQuery.
// Streaming inserts are not immediately queryable, so the read-back polls
// briefly before asserting.
func TestReportService(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := test.GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	test.HandleErr(err, t)
	defer cloudClients.Close()

	reportService := &services.ReportService{
		BigqueryClient: cloudClients.BigQueryClient,
		StorageClient:  cloudClients.StorageClient,
		IAMClient:      cloudClients.IAMClient,
		SignerEmail:    config.Application.SignerServiceAccountEmail,
		DatasetName:    config.BigQueryDataSource.DatasetName,
		AnalysisTable:  config.BigQueryDataSource.AnalysisTable,
		ArchiveBucket:  config.Storage.ArchiveBucket,
	}

	analysis := &model.VideoAnalysis{
		ID:        uuid.NewString(),
		FileName:  "report-service-test.mp4",
		CreatedAt: time.Now().UTC(),
		Transcription: &model.Transcription{
			Text:     "Integration test narration.",
			Language: "en",
			Segments: []*model.Segment{{Index: 0, Start: 0, End: 3, Text: "Integration test narration."}},
		},
		Cinematic: &model.CinematicAnalysis{OverallScore: 50},
	}

	err = reportService.Save(ctx, analysis)
	test.HandleErr(err, t)

	// Poll for streaming-buffer visibility.
	var fetched *model.VideoAnalysis
	for attempt := 0; attempt < 10; attempt++ {
		fetched, err = reportService.Get(ctx, analysis.ID)
		if err == nil {
			break
		}
		time.Sleep(3 * time.Second)
	}
	test.HandleErr(err, t)
	assert.NotNil(t, fetched)
	assert.Equal(t, analysis.ID, fetched.ID)
	assert.Equal(t, "report-service-test.mp4", fetched.FileName)
	assert.Equal(t, "Integration test narration.", fetched.Transcription.Text)

	recent, err := reportService.List(ctx, 5)
	test.HandleErr(err, t)
	assert.True(t, len(recent) > 0)
}
