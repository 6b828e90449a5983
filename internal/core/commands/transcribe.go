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
	"github.com/cinecraft/video-director/internal/core/model"
	"github.com/cinecraft/video-director/internal/core/services"
)

// TranscribeCommand feeds the extracted audio through the transcription
// adapter. The adapter owns its retry policy and size limits; the command
// just maps the chain plumbing onto it.
type TranscribeCommand struct {
	cor.BaseCommand
	transcriber services.Transcriber
}

// NewTranscribeCommand creates the transcription step.
func NewTranscribeCommand(name string, transcriber services.Transcriber) *TranscribeCommand {
	cmd := &TranscribeCommand{BaseCommand: *cor.NewBaseCommand(name), transcriber: transcriber}
	cmd.InputParamName = CtxAudioFile
	return cmd
}

// Execute transcribes the audio and publishes the timed transcript.
func (c *TranscribeCommand) Execute(context cor.Context) {
	audio, ok := context.Get(c.GetInputParam()).(*model.AudioFile)
	if !ok {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), cor.ErrMissingInput)
		return
	}

	transcription, err := c.transcriber.Transcribe(context.GetContext(), audio)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(CtxTranscription, transcription)
	context.Add(c.GetOutputParam(), transcription)
}
