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

// Package model defines the data records produced and consumed by the
// analysis pipeline. All records are plain values: produced once by an
// adapter, never mutated afterwards.
package model

// Segment is a timestamped span of transcribed speech. Start and End are
// seconds from the beginning of the video, truncated to whole seconds.
// Segments are ordered by Index; they are contiguous and non-overlapping in
// the common case, but that is not enforced.
type Segment struct {
	Index int    `json:"id" bigquery:"id"`
	Start int    `json:"start" bigquery:"start"`
	End   int    `json:"end" bigquery:"end"`
	Text  string `json:"text" bigquery:"text"`
}

// Transcription is the full speech-to-text result for one video: the
// complete text, the detected language code, and the ordered segments.
type Transcription struct {
	Text     string     `json:"text" bigquery:"text"`
	Language string     `json:"language" bigquery:"language"`
	Segments []*Segment `json:"segments" bigquery:"segments"`
}

// Duration returns the end time of the last segment in seconds, or zero for
// an empty transcription.
func (t *Transcription) Duration() int {
	if len(t.Segments) == 0 {
		return 0
	}
	return t.Segments[len(t.Segments)-1].End
}
