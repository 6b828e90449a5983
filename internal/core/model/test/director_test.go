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

// Package model_test verifies the wire shapes of the director result
// types: the mode gate, the per-mode payload sections, and the field
// names the prompts promise the models.
package model_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cinecraft/video-director/internal/core/model"
)

func TestDirectorModeValid(t *testing.T) {
	for _, mode := range []model.DirectorMode{
		model.ModeSceneDirector,
		model.ModeScriptRewrite,
		model.ModeFullRewrite,
	} {
		assert.True(t, mode.Valid(), "mode %q should be valid", mode)
	}
	assert.False(t, model.DirectorMode("").Valid())
	assert.False(t, model.DirectorMode("remix").Valid())
}

// Scene director answers carry only notes; the rewrite sections must be
// absent from the JSON, not emitted as null.
func TestDirectorAnalysisOmitsUnusedSections(t *testing.T) {
	analysis := &model.DirectorAnalysis{
		Mode: model.ModeSceneDirector,
		DirectorNotes: []*model.DirectorNote{
			{Timestamp: "0:00-0:05", Visual: "hold the wide shot", Reasoning: "establishes the room"},
		},
	}

	out, err := json.Marshal(analysis)
	assert.NoError(t, err)
	body := string(out)
	assert.Contains(t, body, `"director_notes"`)
	assert.NotContains(t, body, `"script_analysis"`)
	assert.NotContains(t, body, `"rewritten_script"`)
}

// The delivery tone serializes as "emotion", the name the rewrite
// prompts instruct the model to produce and the synthesis layer reads.
func TestScriptRewriteToneSerializesAsEmotion(t *testing.T) {
	rewrite := &model.ScriptRewrite{
		Timestamp:   "0:05-0:12",
		Original:    "This house has three bedrooms.",
		Rewritten:   "Imagine waking up in one of these three sunlit bedrooms.",
		Improvement: "benefit-led phrasing",
		Tone:        "warm",
	}

	out, err := json.Marshal(rewrite)
	assert.NoError(t, err)
	assert.Contains(t, string(out), `"emotion":"warm"`)
	assert.False(t, strings.Contains(string(out), `"tone"`))

	var back model.ScriptRewrite
	assert.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "warm", back.Tone)
}

// A full provider-shaped payload must land in the typed report with the
// nested analyses intact.
func TestCinematicAnalysisParsesProviderPayload(t *testing.T) {
	payload := `{
	  "overall_score": 72,
	  "camera_analysis": {"type": "handheld", "movement": "shaky", "angles": ["eye-level"], "stability_score": 55, "drone_detected": false, "recommendations": ["use a gimbal"]},
	  "lighting_analysis": {"type": "natural", "quality": "good", "brightness_score": 70, "issues": [], "recommendations": []},
	  "composition_analysis": {"framing": "medium shot", "background": "office", "rule_of_thirds": false, "subject_positioning": "centered", "recommendations": []},
	  "quality_analysis": {"resolution_quality": "good", "color_balance": "warm", "sharpness": "good", "overall_quality": 68, "issues": []},
	  "recommendations": ["stabilize the camera"]
	}`

	var analysis model.CinematicAnalysis
	assert.NoError(t, json.Unmarshal([]byte(payload), &analysis))
	assert.Equal(t, 72, analysis.OverallScore)
	assert.Equal(t, model.CameraHandheld, analysis.CameraAnalysis.Type)
	assert.Equal(t, model.MovementShaky, analysis.CameraAnalysis.Movement)
	assert.Equal(t, 55, analysis.CameraAnalysis.StabilityScore)
	assert.Equal(t, model.QualityGood, analysis.LightingAnalysis.Quality)
	assert.False(t, analysis.CompositionAnalysis.RuleOfThirds)
	assert.Equal(t, 68, analysis.QualityAnalysis.OverallQuality)
}
