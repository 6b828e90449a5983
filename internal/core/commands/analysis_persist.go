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
	"github.com/cinecraft/video-director/internal/core/model"
	"github.com/cinecraft/video-director/internal/core/services"
)

// AnalysisPersistCommand archives the source video to Cloud Storage and
// streams the assembled report into BigQuery. Archival happens first so
// the stored report always points at an object that exists; the local
// copy remains a temp artifact and is removed by the chain context.
type AnalysisPersistCommand struct {
	cor.BaseCommand
	reports *services.ReportService
	archive bool
}

// NewAnalysisPersistCommand creates the persistence step. archive
// controls whether the source video is uploaded alongside the report;
// the ingestion workflow disables it because its source already lives in
// a bucket.
func NewAnalysisPersistCommand(name string, reports *services.ReportService, archive bool) *AnalysisPersistCommand {
	cmd := &AnalysisPersistCommand{BaseCommand: *cor.NewBaseCommand(name), reports: reports, archive: archive}
	cmd.InputParamName = CtxAnalysis
	return cmd
}

// Execute persists the report and republishes it with its media URL.
func (c *AnalysisPersistCommand) Execute(context cor.Context) {
	analysis, ok := context.Get(c.GetInputParam()).(*model.VideoAnalysis)
	if !ok {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), cor.ErrMissingInput)
		return
	}

	if c.archive {
		videoPath, _ := context.Get(CtxVideoPath).(string)
		if videoPath != "" {
			uri, err := c.reports.Archive(context.GetContext(), analysis.ID, videoPath)
			if err != nil {
				c.GetErrorCounter().Add(context.GetContext(), 1)
				context.AddError(c.GetName(), err)
				return
			}
			analysis.MediaURL = uri
		}
		// Preview stills ride along when the thumbnail step produced any.
		// A failed thumbnail upload is logged via the error map but does
		// not block the report itself.
		if thumbs, ok := context.Get(CtxThumbnails).([]*model.Thumbnail); ok {
			for _, thumb := range thumbs {
				if _, err := c.reports.ArchiveThumbnail(context.GetContext(), analysis.ID, thumb.Path, thumb.Index); err != nil {
					slog.Warn("thumbnail archive failed", "report", analysis.ID, "index", thumb.Index, "error", err)
				}
			}
		}
	}

	if err := c.reports.Save(context.GetContext(), analysis); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), analysis)
}
