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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cinecraft/video-director/internal/core/model"
	"github.com/stretchr/testify/assert"
)

// TestFallbackSegments verifies the repair path for untimed transcripts:
// each sentence gets a uniform five-second window, so "Hello world.
// Goodbye now." becomes two segments covering [0,5) and [5,10).
func TestFallbackSegments(t *testing.T) {
	segments := fallbackSegments("Hello world. Goodbye now.")

	assert.Len(t, segments, 2)
	assert.Equal(t, "Hello world.", segments[0].Text)
	assert.Equal(t, 0, segments[0].Start)
	assert.Equal(t, 5, segments[0].End)
	assert.Equal(t, "Goodbye now.", segments[1].Text)
	assert.Equal(t, 5, segments[1].Start)
	assert.Equal(t, 10, segments[1].End)
}

// TestFallbackSegmentsTrailingText verifies text without a final
// sentence terminator still becomes a segment.
func TestFallbackSegmentsTrailingText(t *testing.T) {
	segments := fallbackSegments("Is this working? It is. Almost done")

	assert.Len(t, segments, 3)
	assert.Equal(t, "Is this working?", segments[0].Text)
	assert.Equal(t, "Almost done", segments[2].Text)
	assert.Equal(t, 2, segments[2].Index)
}

// TestFallbackSegmentsEmpty verifies empty input yields no segments
// rather than a single empty one.
func TestFallbackSegmentsEmpty(t *testing.T) {
	assert.Empty(t, fallbackSegments(""))
	assert.Empty(t, fallbackSegments("   "))
}

// TestTranscribeRejectsOversizedAudio verifies the size cap triggers
// before any provider call, with the actual and allowed sizes in the
// message. The transcriber has no model wired; passing the size check
// would panic, so this test also proves the ordering.
func TestTranscribeRejectsOversizedAudio(t *testing.T) {
	transcriber, err := NewGenAITranscriber(nil, "transcribe {{.Duration}}s of audio")
	assert.NoError(t, err)

	audioPath := filepath.Join(t.TempDir(), "big.wav")
	assert.NoError(t, os.WriteFile(audioPath, make([]byte, MaxAudioBytes+1), 0o644))

	_, err = transcriber.Transcribe(context.Background(), &model.AudioFile{
		Path:     audioPath,
		Duration: 120,
		Format:   "wav",
	})

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Error(), "25.0 MiB")
	assert.Contains(t, vErr.Error(), "limit is 25 MiB")
}

// TestSplitSentences verifies the sentence splitter keeps terminal
// punctuation with its sentence.
func TestSplitSentences(t *testing.T) {
	sentences := splitSentences("One. Two! Three?")
	assert.Equal(t, []string{"One.", "Two!", "Three?"}, sentences)
}
