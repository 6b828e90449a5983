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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files, plus the clients used to reach Google Cloud
// services. This file centralizes all configuration-related structs.
//
// Structs:
//   - BigQueryDataSource: Configuration for the BigQuery dataset and tables.
//   - PromptTemplates: Text templates for the prompts sent to GenAI models.
//   - VertexAiLLMModel: Configuration for a Vertex AI generative model.
//   - VertexAiSpeechModel: Configuration for a Vertex AI speech model.
//   - TopicSubscription: Configuration for a single Pub/Sub subscription.
//   - Storage: Configuration for Cloud Storage buckets.
//   - Media: Local media pipeline settings (tool paths, limits, rates).
//   - Config: The top-level struct aggregating everything above.
//
// Functions:
//   - NewConfig: A constructor that initializes a new Config with empty maps.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings defines the content safety thresholds for GenAI
// models. They are non-restrictive: the inputs are user-owned videos being
// analyzed on the user's behalf, so blocking categories would only cause
// spurious analysis failures.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// BigQueryDataSource represents the configuration for the BigQuery data
// source that stores completed analysis reports.
type BigQueryDataSource struct {
	DatasetName   string `toml:"dataset"`        // The name of the BigQuery dataset.
	AnalysisTable string `toml:"analysis_table"` // The table holding full analysis reports.
}

// PromptTemplates holds the templates for the prompts sent to the
// generative models. Each is a text/template body; the commands fill in
// the per-request values (transcripts, durations, frame timestamps).
type PromptTemplates struct {
	TranscriptionPrompt string `toml:"transcription"`  // Audio transcription instructions.
	CinematicPrompt     string `toml:"cinematic"`      // Multi-frame cinematic analysis instructions.
	SceneDirector       string `toml:"scene_director"` // Director notes mode.
	ScriptRewrite       string `toml:"script_rewrite"` // Line-by-line rewrite mode.
	FullRewrite         string `toml:"full_rewrite"`   // Whole-script rewrite mode.
}

// VertexAiLLMModel represents the configuration for a Vertex AI large
// language model (LLM).
type VertexAiLLMModel struct {
	Model              string  `toml:"model"`               // The name of the Vertex AI LLM.
	SystemInstructions string  `toml:"system_instructions"` // The system instructions for the LLM.
	Temperature        float32 `toml:"temperature"`         // The temperature parameter for the LLM.
	TopP               float32 `toml:"top_p"`               // The top_p parameter for the LLM.
	TopK               float32 `toml:"top_k"`               // The top_k parameter for the LLM.
	MaxTokens          int32   `toml:"max_tokens"`          // The maximum number of output tokens.
	OutputFormat       string  `toml:"output_format"`       // The response MIME type (e.g. "application/json").
	RateLimit          int     `toml:"rate_limit"`          // The rate limit in requests per second.
}

// VertexAiSpeechModel represents the configuration for a Vertex AI model
// used with the AUDIO response modality for speech synthesis.
type VertexAiSpeechModel struct {
	Model        string `toml:"model"`         // The name of the speech-capable model.
	DefaultVoice string `toml:"default_voice"` // Voice used when a request names none.
	RateLimit    int    `toml:"rate_limit"`    // The rate limit in requests per second.
}

// TopicSubscription represents the configuration for a Pub/Sub topic
// subscription.
type TopicSubscription struct {
	Name             string `toml:"name"`               // The name of the Pub/Sub subscription.
	DeadLetterTopic  string `toml:"dead_letter_topic"`  // The dead-letter topic for the subscription.
	TimeoutInSeconds int    `toml:"timeout_in_seconds"` // The processing timeout in seconds.
}

// Storage represents the configuration for Cloud Storage buckets.
type Storage struct {
	IngestBucket  string `toml:"ingest_bucket"`  // Bucket watched for dropped-in videos to analyze.
	ArchiveBucket string `toml:"archive_bucket"` // Bucket where analyzed videos and audio renders are archived.
}

// Media holds the local media pipeline settings: external tool locations,
// the temp artifact root, and the admission limits applied to uploads.
type Media struct {
	FFmpegPath        string  `toml:"ffmpeg_path"`          // Path to the ffmpeg binary ("" resolves from PATH).
	FFprobePath       string  `toml:"ffprobe_path"`         // Path to the ffprobe binary.
	YtDlpPath         string  `toml:"yt_dlp_path"`          // Path to the yt-dlp binary.
	TempDir           string  `toml:"temp_dir"`             // Root directory for transient artifacts.
	MaxUploadBytes    int64   `toml:"max_upload_bytes"`     // Maximum accepted upload size in bytes.
	MaxDownloadBytes  int64   `toml:"max_download_bytes"`   // Maximum remote video size yt-dlp may fetch.
	FrameRate         float64 `toml:"frame_rate"`           // Frame extraction rate in frames per second.
	MaxAnalysisFrames int     `toml:"max_analysis_frames"`  // Frame budget per cinematic analysis call.
	RequestTimeoutSec int     `toml:"request_timeout_secs"` // Ceiling for a single analysis request.
}

// Config represents the overall configuration for the application, loaded
// from TOML files. It acts as the root container for all other
// configuration structs.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name                      string `toml:"name"`                         // The name of the application.
		GoogleProjectId           string `toml:"google_project_id"`            // The Google Cloud project ID.
		GoogleLocation            string `toml:"location"`                     // The Google Cloud location.
		ThreadPoolSize            int    `toml:"thread_pool_size"`             // Worker pool size for background ingestion.
		SignerServiceAccountEmail string `toml:"signer_service_account_email"` // Service account used for signing GCS URLs.
	} `toml:"application"`
	Media              Media                          `toml:"media"`                 // Local media pipeline configuration.
	Storage            Storage                        `toml:"storage"`               // Storage configuration.
	BigQueryDataSource BigQueryDataSource             `toml:"big_query_data_source"` // BigQuery data source configuration.
	PromptTemplates    PromptTemplates                `toml:"prompt_templates"`      // Prompt templates configuration.
	TopicSubscriptions map[string]TopicSubscription   `toml:"topic_subscriptions"`   // Pub/Sub subscriptions keyed by a logical name.
	AgentModels        map[string]VertexAiLLMModel    `toml:"agent_models"`          // LLM configurations keyed by role (e.g. "transcriber").
	SpeechModels       map[string]VertexAiSpeechModel `toml:"speech_models"`         // Speech model configurations keyed by role.
}

// NewConfig creates a new, initialized Config instance. The maps must be
// initialized before the configuration loader populates them.
func NewConfig() *Config {
	return &Config{
		TopicSubscriptions: make(map[string]TopicSubscription),
		AgentModels:        make(map[string]VertexAiLLMModel),
		SpeechModels:       make(map[string]VertexAiSpeechModel),
	}
}
