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
	"github.com/cinecraft/video-director/internal/core/services"
)

// VideoValidateCommand probes the saved video and applies the admission
// rules before any expensive work runs: bounded duration, minimum
// resolution, and a present audio track. The probed metadata is published
// for the extraction steps so the file is only probed once.
type VideoValidateCommand struct {
	cor.BaseCommand
	extractor *media.Extractor
}

// NewVideoValidateCommand creates the validation step.
func NewVideoValidateCommand(name string, extractor *media.Extractor) *VideoValidateCommand {
	return &VideoValidateCommand{BaseCommand: *cor.NewBaseCommand(name), extractor: extractor}
}

// Execute probes the video and rejects it when an admission rule fails.
func (c *VideoValidateCommand) Execute(context cor.Context) {
	videoPath, ok := context.Get(c.GetInputParam()).(string)
	if !ok || videoPath == "" {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), cor.ErrMissingInput)
		return
	}

	result, meta, err := c.extractor.ValidateVideo(context.GetContext(), videoPath)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}
	if !result.Valid {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), &services.ValidationError{Reason: result.Error})
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(CtxVideoMeta, meta)
	context.Add(c.GetOutputParam(), videoPath)
}
