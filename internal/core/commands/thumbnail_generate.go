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
	"log/slog"

	"github.com/cinecraft/video-director/internal/core/cor"
	"github.com/cinecraft/video-director/internal/core/media"
	"github.com/cinecraft/video-director/internal/core/model"
)

// ThumbnailGenerateCommand grabs a few evenly spread stills for report
// previews. Thumbnails are a nicety, not a requirement: a generation
// failure is logged and an empty set published, so the report is still
// assembled and persisted.
type ThumbnailGenerateCommand struct {
	cor.BaseCommand
	extractor *media.Extractor
	count     int
	width     int
}

// NewThumbnailGenerateCommand creates the thumbnail step.
func NewThumbnailGenerateCommand(name string, extractor *media.Extractor, count, width int) *ThumbnailGenerateCommand {
	cmd := &ThumbnailGenerateCommand{BaseCommand: *cor.NewBaseCommand(name), extractor: extractor, count: count, width: width}
	cmd.InputParamName = CtxVideoPath
	return cmd
}

// Execute generates the stills and publishes them.
func (c *ThumbnailGenerateCommand) Execute(context cor.Context) {
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

	thumbs, dir, err := c.extractor.GenerateThumbnails(context.GetContext(), videoPath, duration, c.count, c.width)
	if dir != "" {
		context.AddTempFile(dir)
	}
	if err != nil {
		// The transcription and analysis results are already in the
		// context; losing the preview stills is not worth losing them.
		c.GetErrorCounter().Add(context.GetContext(), 1)
		slog.Warn("thumbnail generation failed, continuing without previews",
			slog.String("command", c.GetName()), slog.String("error", err.Error()))
		thumbs = []*model.Thumbnail{}
	} else {
		c.GetSuccessCounter().Add(context.GetContext(), 1)
	}

	context.Add(CtxThumbnails, thumbs)
	context.Add(c.GetOutputParam(), videoPath)
}
