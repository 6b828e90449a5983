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

// DirectorMode selects which kind of rewrite the director adapter produces.
type DirectorMode string

const (
	// ModeSceneDirector produces per-scene direction notes covering camera,
	// audio and delivery.
	ModeSceneDirector DirectorMode = "scene_director"
	// ModeScriptRewrite produces a problems/opportunities analysis plus a
	// rewritten line for each segment.
	ModeScriptRewrite DirectorMode = "script_rewrite"
	// ModeFullRewrite produces only the rewritten lines, with a mandatory
	// call to action in the final segment when the source has none.
	ModeFullRewrite DirectorMode = "full_rewrite"
)

// Valid reports whether m is one of the three supported modes.
func (m DirectorMode) Valid() bool {
	switch m {
	case ModeSceneDirector, ModeScriptRewrite, ModeFullRewrite:
		return true
	}
	return false
}

// DirectorNote is one scene's worth of direction: what to change visually,
// in the audio mix, and in the spoken delivery, plus the reasoning behind
// the advice. Timestamp is a "MM:SS-MM:SS" range; the model decides the
// scene grouping.
type DirectorNote struct {
	Timestamp string `json:"timestamp"`
	Visual    string `json:"visual"`
	Audio     string `json:"audio"`
	Speech    string `json:"speech"`
	Reasoning string `json:"reasoning"`
}

// ScriptRewrite is one segment's rewritten narration. Tone is a suggested
// delivery style (e.g. "energetic", "calm") that the speech synthesis
// endpoint can use when voicing the line.
type ScriptRewrite struct {
	Timestamp   string `json:"timestamp"`
	Original    string `json:"original"`
	Rewritten   string `json:"rewritten"`
	Improvement string `json:"improvement"`
	Tone        string `json:"emotion"`
}

// ScriptAnalysis is the problems/opportunities assessment that accompanies a
// script_rewrite response.
type ScriptAnalysis struct {
	Problems      []string `json:"problems"`
	Opportunities []string `json:"opportunities"`
}

// DirectorAnalysis is the mode-tagged result of a rewrite request. Exactly
// the fields belonging to the mode are populated; it is derived on demand
// from a Transcription and never persisted.
type DirectorAnalysis struct {
	Mode            DirectorMode     `json:"mode"`
	DirectorNotes   []*DirectorNote  `json:"director_notes,omitempty"`
	ScriptAnalysis  *ScriptAnalysis  `json:"script_analysis,omitempty"`
	RewrittenScript []*ScriptRewrite `json:"rewritten_script,omitempty"`
}
