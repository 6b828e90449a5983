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

package model

import "time"

// VideoMetadata describes the container and streams of an input video as
// reported by the probe tool.
type VideoMetadata struct {
	Duration float64 `json:"duration"`  // Total length in seconds.
	Width    int     `json:"width"`     // Video stream width in pixels.
	Height   int     `json:"height"`    // Video stream height in pixels.
	FPS      float64 `json:"fps"`       // Frames per second, resolved from the stream's frame-rate ratio.
	Codec    string  `json:"codec"`     // Video codec name (e.g. "h264").
	BitRate  int64   `json:"bit_rate"`  // Container bit rate in bits per second.
	HasAudio bool    `json:"has_audio"` // True when at least one audio stream is present.
}

// AudioFile is an extracted audio track on local disk.
type AudioFile struct {
	Path     string  `json:"path"`
	Duration float64 `json:"duration"`
	Format   string  `json:"format"`
}

// Frame is one extracted still image. Timestamp is computed as
// Index / sampling rate, an approximation of the decoder's true
// presentation timestamp.
type Frame struct {
	Path      string  `json:"path"`
	Timestamp float64 `json:"timestamp"`
	Index     int     `json:"index"`
}

// Thumbnail is a preview still captured at a chosen moment.
type Thumbnail struct {
	Path      string  `json:"path"`
	Timestamp float64 `json:"timestamp"`
	Index     int     `json:"index"`
}

// ValidationResult reports whether a video passed the pre-flight checks.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// VideoAnalysis is the assembled output of the full pipeline for one video:
// the transcription plus the optional cinematic report. It is the record
// persisted by the report store.
type VideoAnalysis struct {
	ID            string             `json:"id" bigquery:"id"`
	FileName      string             `json:"file_name" bigquery:"file_name"`
	MediaURL      string             `json:"media_url,omitempty" bigquery:"media_url"`
	CreatedAt     time.Time          `json:"created_at" bigquery:"created_at"`
	Transcription *Transcription     `json:"transcription" bigquery:"transcription"`
	Cinematic     *CinematicAnalysis `json:"cinematic,omitempty" bigquery:"cinematic"`
}
