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
)

// FrameExtractCommand samples the validated video into a directory of
// JPEG frames for the cinematic analyzer. The whole directory is
// registered for cleanup, frames included, before the result is checked,
// so a partial extraction can never leak files.
type FrameExtractCommand struct {
	cor.BaseCommand
	extractor *media.Extractor
	rate      float64
}

// NewFrameExtractCommand creates the frame extraction step. rate is the
// sampling rate in frames per second; zero uses the extractor default of
// one frame every two seconds.
func NewFrameExtractCommand(name string, extractor *media.Extractor, rate float64) *FrameExtractCommand {
	cmd := &FrameExtractCommand{BaseCommand: *cor.NewBaseCommand(name), extractor: extractor, rate: rate}
	cmd.InputParamName = CtxVideoPath
	return cmd
}

// Execute extracts the frames and publishes them in playback order.
func (c *FrameExtractCommand) Execute(context cor.Context) {
	videoPath, ok := context.Get(c.GetInputParam()).(string)
	if !ok || videoPath == "" {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), cor.ErrMissingInput)
		return
	}

	frames, dir, err := c.extractor.ExtractFrames(context.GetContext(), videoPath, c.rate)
	if dir != "" {
		context.AddTempFile(dir)
	}
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(CtxFrames, frames)
	context.Add(c.GetOutputParam(), frames)
}
