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

// Few-shot example payloads embedded in the prompts. Giving the model a
// complete, well-formed JSON example materially improves the reliability of
// its structured output.
package model

// GetExampleCinematicAnalysis returns a complete cinematic report used as
// the few-shot example in the vision prompt.
func GetExampleCinematicAnalysis() *CinematicAnalysis {
	return &CinematicAnalysis{
		OverallScore: 78,
		CameraAnalysis: &CameraAnalysis{
			Type:           CameraDrone,
			Movement:       MovementSmooth,
			Angles:         []string{"aerial", "wide", "eye-level"},
			StabilityScore: 85,
			DroneDetected:  true,
			Recommendations: []string{
				"The aerial footage works well, add more wide establishing shots",
				"Camera movement is smooth, keep the gimbal work",
			},
		},
		LightingAnalysis: &LightingAnalysis{
			Type:            "natural",
			Quality:         QualityGood,
			BrightnessScore: 80,
			Issues:          []string{"Hard shadows in some scenes"},
			Recommendations: []string{"Shoot around midday", "Add a soft box for interiors"},
		},
		CompositionAnalysis: &CompositionAnalysis{
			Framing:            QualityGood,
			Background:         "clean",
			RuleOfThirds:       true,
			SubjectPositioning: "optimal",
			Recommendations:    []string{"Keep the background minimal"},
		},
		QualityAnalysis: &QualityAnalysis{
			ResolutionQuality: QualityExcellent,
			ColorBalance:      QualityGood,
			Sharpness:         QualityExcellent,
			OverallQuality:    85,
			Issues:            []string{"Slight color correction needed"},
		},
		Recommendations: []string{
			"Increase the share of aerial shots",
			"Shoot in stronger natural light",
			"Keep the background tidy",
		},
	}
}

// GetExampleDirectorNote returns the few-shot example for scene_director
// responses.
func GetExampleDirectorNote() *DirectorNote {
	return &DirectorNote{
		Timestamp: "00:04-00:07",
		Visual:    "Use a wide angle to open up the kitchen, shoot ten degrees from above. Natural light is weak, add a soft box from the left. Clear the counter and fade in a 'FULLY EQUIPPED' overlay top-left.",
		Audio:     "Add an upbeat, modern backing track. A light swoosh effect as the door opens. Raise the voiceover energy.",
		Speech:    "Change 'the kitchen comes equipped' to 'your kitchen is ready from day one'. Smile while saying it and gesture toward the counter.",
		Reasoning: "Emphasizing the built-in equipment removes a cost objection and the wider framing makes the space read larger on a phone screen.",
	}
}

// GetExampleScriptRewrite returns the few-shot example for rewrite
// responses.
func GetExampleScriptRewrite() *ScriptRewrite {
	return &ScriptRewrite{
		Timestamp:   "00:00-00:03",
		Original:    "The kitchen comes equipped.",
		Rewritten:   "Your kitchen is ready from day one, built-in appliances included, nothing extra to buy.",
		Improvement: "Turns a feature listing into a benefit the viewer can picture, and answers the hidden cost question up front.",
		Tone:        "energetic",
	}
}
