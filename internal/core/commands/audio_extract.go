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

package commands

import (
	"github.com/cinecraft/video-director/internal/core/cor"
	"github.com/cinecraft/video-director/internal/core/media"
	"github.com/cinecraft/video-director/internal/core/model"
)

// AudioExtractCommand pulls the audio track out of the validated video as
// a 16 kHz mono WAV file and registers it for cleanup.
type AudioExtractCommand struct {
	cor.BaseCommand
	extractor *media.Extractor
}

// NewAudioExtractCommand creates the audio extraction step.
func NewAudioExtractCommand(name string, extractor *media.Extractor) *AudioExtractCommand {
	return &AudioExtractCommand{BaseCommand: *cor.NewBaseCommand(name), extractor: extractor}
}

// Execute extracts the audio and publishes its descriptor.
func (c *AudioExtractCommand) Execute(context cor.Context) {
	videoPath, ok := context.Get(c.GetInputParam()).(string)
	if !ok || videoPath == "" {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), cor.ErrMissingInput)
		return
	}
	meta, _ := context.Get(CtxVideoMeta).(*model.VideoMetadata)
	var duration float64
	if meta != nil {
		duration = meta.Duration
	}

	audio, err := c.extractor.ExtractAudio(context.GetContext(), videoPath, duration)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}
	context.AddTempFile(audio.Path)

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(CtxAudioFile, audio)
	context.Add(c.GetOutputParam(), audio)
}
