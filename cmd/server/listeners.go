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

// Package main contains the logic for setting up and starting the Pub/Sub
// message listeners. The ingest listener reacts to GCS object
// notifications and runs the full analysis pipeline against each video
// dropped into the ingest bucket.
//
// Functions:
//   - SetupListeners: Attaches the media ingestion workflow to the ingest
//     topic listener and starts it.
package main

import (
	"context"
	"log/slog"

	"github.com/cinecraft/video-director/internal/cloud"
	"github.com/cinecraft/video-director/internal/core/workflow"
)

// IngestTopicKey is the logical name of the Pub/Sub subscription that
// receives GCS notifications for the ingest bucket, as configured under
// [topic_subscriptions.IngestTopic].
const IngestTopicKey = "IngestTopic"

// SetupListeners configures and starts the background Pub/Sub listeners.
// It builds the media ingestion workflow from the already-initialized
// state and attaches it to the ingest topic listener. Deployments without
// a configured ingest subscription simply run the HTTP surface alone.
func SetupListeners(ctx context.Context, config *cloud.Config, cloudClients *cloud.ServiceClients) {
	listener, ok := cloudClients.PubSubListeners[IngestTopicKey]
	if !ok {
		slog.Info("no ingest subscription configured, skipping listener setup")
		return
	}

	ingestion := workflow.NewMediaIngestionWorkflow(
		"media-ingestion",
		cloudClients.StorageClient,
		state.store,
		state.extractor,
		state.transcriber,
		state.analyzer,
		state.reports,
		config.Media.FrameRate)

	listener.SetCommand(ingestion)
	listener.Listen(ctx)
	slog.Info("ingest listener started", "subscription", config.TopicSubscriptions[IngestTopicKey].Name)
}
