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

// Package main contains the setup and initialization logic for the application's
// state. This file is responsible for creating and managing a centralized state
// manager that holds all shared dependencies: configuration, Google Cloud
// service clients, the local media store and extractor, the generative AI
// adapters and the assembled analysis workflow.
//
// Functions:
//   - SetupOS: Configures the environment variables that point the
//     configuration loader at the correct TOML files.
//   - GetConfig: A singleton accessor for the application configuration.
//   - InitState: The core initialization function that creates all service
//     clients, wires the adapters and workflows, and starts the Pub/Sub
//     listeners.
package main

import (
	"context"
	"log"
	"os"

	"github.com/cinecraft/video-director/internal/cloud"
	"github.com/cinecraft/video-director/internal/core/media"
	"github.com/cinecraft/video-director/internal/core/services"
	"github.com/cinecraft/video-director/internal/core/workflow"
)

// Roles under which the configured models are looked up. Each role maps
// to an [agent_models.<role>] or [speech_models.<role>] TOML table.
const (
	RoleTranscriber = "transcriber"
	RoleAnalyst     = "analyst"
	RoleDirector    = "director"
	RoleNarrator    = "narrator"
)

// StateManager holds all the shared dependencies for the application,
// acting as a centralized container for service clients, adapters and
// workflows. This avoids global variables per dependency and keeps the
// wiring in one place.
type StateManager struct {
	config           *cloud.Config
	cloud            *cloud.ServiceClients
	store            *media.Store
	extractor        *media.Extractor
	transcriber      services.Transcriber
	analyzer         services.CinematicAnalyzer
	director         services.Director
	synthesizer      services.SpeechSynthesizer
	downloader       services.VideoDownloader
	reports          *services.ReportService
	analysisWorkflow *workflow.VideoAnalysisWorkflow
}

// state is a package-level variable that holds the single instance of
// StateManager.
var state = &StateManager{}

// SetupOS sets the environment variables the configuration loader uses to
// find the TOML files: the configuration directory prefix and the runtime
// environment whose override file (.env.<runtime>.toml) applies.
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "local")
	return err
}

// GetConfig provides a singleton instance of the application
// configuration, loading the TOML files on first use and caching the
// result for subsequent calls.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup os environment: %v\n", err)
		}
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			log.Fatalf("failed to load configuration: %v\n", err)
		}
		state.config = config
	}
	return state.config
}

// InitState initializes the entire application state. It creates the
// Google Cloud service clients, the local media store and ffmpeg
// extractor, the four generative AI adapters, the report service and the
// upload analysis workflow, then starts the Pub/Sub listeners for the
// ingest bucket.
func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = cloudClients

	store, err := media.NewStore(config.Media.TempDir)
	if err != nil {
		panic(err)
	}
	state.store = store
	state.extractor = media.NewExtractor(store, config.Media.FFmpegPath, config.Media.FFprobePath)

	transcriber, err := services.NewGenAITranscriber(
		cloudClients.AgentModels[RoleTranscriber],
		config.PromptTemplates.TranscriptionPrompt)
	if err != nil {
		panic(err)
	}
	state.transcriber = transcriber

	analyzer, err := services.NewGenAICinematicAnalyzer(
		cloudClients.AgentModels[RoleAnalyst],
		config.PromptTemplates.CinematicPrompt,
		config.Media.MaxAnalysisFrames)
	if err != nil {
		panic(err)
	}
	state.analyzer = analyzer

	director, err := services.NewGenAIDirector(
		cloudClients.AgentModels[RoleDirector],
		config.PromptTemplates.SceneDirector,
		config.PromptTemplates.ScriptRewrite,
		config.PromptTemplates.FullRewrite)
	if err != nil {
		panic(err)
	}
	state.director = director

	synthesizer, err := services.NewGenAISpeechSynthesizer(
		cloudClients.SpeechModels[RoleNarrator],
		config.SpeechModels[RoleNarrator].DefaultVoice)
	if err != nil {
		panic(err)
	}
	state.synthesizer = synthesizer

	state.downloader = services.NewYtDlpDownloader(store, config.Media.YtDlpPath, config.Media.MaxDownloadBytes)

	state.reports = &services.ReportService{
		BigqueryClient: cloudClients.BigQueryClient,
		StorageClient:  cloudClients.StorageClient,
		IAMClient:      cloudClients.IAMClient,
		SignerEmail:    config.Application.SignerServiceAccountEmail,
		DatasetName:    config.BigQueryDataSource.DatasetName,
		AnalysisTable:  config.BigQueryDataSource.AnalysisTable,
		ArchiveBucket:  config.Storage.ArchiveBucket,
	}

	state.analysisWorkflow = workflow.NewVideoAnalysisWorkflow(
		"video-analysis",
		store,
		state.extractor,
		state.transcriber,
		state.analyzer,
		state.reports,
		config.Media.FrameRate)

	SetupListeners(ctx, config, cloudClients)
}
