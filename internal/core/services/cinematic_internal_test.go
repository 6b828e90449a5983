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

package services

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cinecraft/video-director/internal/core/model"
	"github.com/stretchr/testify/assert"
)

// TestTranscriptExcerpt verifies the vision prompt gets at most the
// opening 200 characters of the transcript, and nothing at all when the
// chain ran without transcription.
func TestTranscriptExcerpt(t *testing.T) {
	assert.Empty(t, transcriptExcerpt(nil))
	assert.Empty(t, transcriptExcerpt(&model.Transcription{Text: "   "}))

	short := &model.Transcription{Text: "Welcome to the tour."}
	assert.Equal(t, "Welcome to the tour.", transcriptExcerpt(short))

	long := &model.Transcription{Text: strings.Repeat("a", 500)}
	excerpt := transcriptExcerpt(long)
	assert.Equal(t, strings.Repeat("a", MaxTranscriptExcerptChars)+"...", excerpt)
}

// TestTranscriptExcerptMultiByte verifies the cap counts runes, not
// bytes, so a multi-byte character at the boundary survives intact.
func TestTranscriptExcerptMultiByte(t *testing.T) {
	long := &model.Transcription{Text: strings.Repeat("é", 300)}
	excerpt := transcriptExcerpt(long)
	assert.Equal(t, strings.Repeat("é", MaxTranscriptExcerptChars)+"...", excerpt)
}

// TestExampleCinematicJSON verifies the few-shot example embedded in the
// vision prompt is well-formed and round-trips into the report shape the
// model is asked to produce.
func TestExampleCinematicJSON(t *testing.T) {
	raw := exampleCinematicJSON()
	assert.NotEmpty(t, raw)

	parsed := &model.CinematicAnalysis{}
	assert.NoError(t, json.Unmarshal([]byte(raw), parsed))
	assert.Equal(t, model.GetExampleCinematicAnalysis(), parsed)
	assert.Contains(t, raw, `"overall_score"`)
}
