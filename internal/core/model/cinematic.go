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

// Quality tiers and camera enums used by the cinematic report. The vision
// model is instructed to pick from these exact values; parsing does not
// reject unknown strings, downstream consumers treat them as free text.
const (
	QualityExcellent = "excellent"
	QualityGood      = "good"
	QualityFair      = "fair"
	QualityPoor      = "poor"

	CameraHandheld = "handheld"
	CameraTripod   = "tripod"
	CameraGimbal   = "gimbal"
	CameraDrone    = "drone"
	CameraStatic   = "static"
	CameraUnknown  = "unknown"

	MovementSmooth  = "smooth"
	MovementShaky   = "shaky"
	MovementStatic  = "static"
	MovementDynamic = "dynamic"
)

// CameraAnalysis reports how the video was shot. DroneDetected is set by the
// vision model when it recognizes aerial footage; no independent
// verification is performed.
type CameraAnalysis struct {
	Type            string   `json:"type" bigquery:"type"`
	Movement        string   `json:"movement" bigquery:"movement"`
	Angles          []string `json:"angles" bigquery:"angles"`
	StabilityScore  int      `json:"stability_score" bigquery:"stability_score"`
	DroneDetected   bool     `json:"drone_detected" bigquery:"drone_detected"`
	Recommendations []string `json:"recommendations" bigquery:"recommendations"`
}

// LightingAnalysis reports the light source mix and exposure quality.
type LightingAnalysis struct {
	Type            string   `json:"type" bigquery:"type"`
	Quality         string   `json:"quality" bigquery:"quality"`
	BrightnessScore int      `json:"brightness_score" bigquery:"brightness_score"`
	Issues          []string `json:"issues" bigquery:"issues"`
	Recommendations []string `json:"recommendations" bigquery:"recommendations"`
}

// CompositionAnalysis reports framing, background and subject placement.
type CompositionAnalysis struct {
	Framing            string   `json:"framing" bigquery:"framing"`
	Background         string   `json:"background" bigquery:"background"`
	RuleOfThirds       bool     `json:"rule_of_thirds" bigquery:"rule_of_thirds"`
	SubjectPositioning string   `json:"subject_positioning" bigquery:"subject_positioning"`
	Recommendations    []string `json:"recommendations" bigquery:"recommendations"`
}

// QualityAnalysis reports the technical quality of the footage.
type QualityAnalysis struct {
	ResolutionQuality string   `json:"resolution_quality" bigquery:"resolution_quality"`
	ColorBalance      string   `json:"color_balance" bigquery:"color_balance"`
	Sharpness         string   `json:"sharpness" bigquery:"sharpness"`
	OverallQuality    int      `json:"overall_quality" bigquery:"overall_quality"`
	Issues            []string `json:"issues" bigquery:"issues"`
}

// CinematicAnalysis is the structured critique produced from a bounded
// sample of video frames. It is produced once per video and treated as a
// read-only attachment; it may be absent when the vision stage was skipped
// or failed.
type CinematicAnalysis struct {
	OverallScore        int                  `json:"overall_score" bigquery:"overall_score"`
	CameraAnalysis      *CameraAnalysis      `json:"camera_analysis" bigquery:"camera_analysis"`
	LightingAnalysis    *LightingAnalysis    `json:"lighting_analysis" bigquery:"lighting_analysis"`
	CompositionAnalysis *CompositionAnalysis `json:"composition_analysis" bigquery:"composition_analysis"`
	QualityAnalysis     *QualityAnalysis     `json:"quality_analysis" bigquery:"quality_analysis"`
	Recommendations     []string             `json:"recommendations" bigquery:"recommendations"`
}
