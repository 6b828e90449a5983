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

// Package commands provides the chain-of-responsibility steps that make
// up the analysis pipelines. Each command does one thing: save the
// upload, validate it, extract audio or frames, call one provider
// adapter, assemble the report, persist it. This file defines the keys
// under which the commands exchange intermediate values in the chain
// context.
package commands

// Context parameter keys. A command writes its primary result both to
// its named key and to the chain's output slot; downstream commands that
// need something other than their predecessor's output read the named
// keys.
const (
	CtxVideoPath     = "__VIDEO_PATH__"     // string: local path of the video under analysis.
	CtxVideoMeta     = "__VIDEO_META__"     // *model.VideoMetadata: the probed metadata.
	CtxAudioFile     = "__AUDIO_FILE__"     // *model.AudioFile: the extracted audio track.
	CtxTranscription = "__TRANSCRIPTION__"  // *model.Transcription: the timed transcript.
	CtxFrames        = "__FRAMES__"         // []*model.Frame: the extracted frame set.
	CtxCinematic     = "__CINEMATIC__"      // *model.CinematicAnalysis: the cinematic report.
	CtxFileName      = "__FILE_NAME__"      // string: the original upload or object name.
	CtxAnalysis      = "__ANALYSIS__"       // *model.VideoAnalysis: the assembled report.
	CtxMediaURL      = "__MEDIA_URL__"      // string: GCS URI of the archived source video.
	CtxThumbnails    = "__THUMBNAILS__"     // []*model.Thumbnail: preview stills.
)

// Upload is the chain input for the HTTP analysis flow: the raw bytes of
// a validated multipart upload plus its original file name.
type Upload struct {
	Data     []byte
	FileName string
}
