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

package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cinecraft/video-director/internal/core/commands"
	"github.com/cinecraft/video-director/internal/core/cor"
	"github.com/cinecraft/video-director/internal/core/media"
	"github.com/cinecraft/video-director/internal/core/model"
)

// Thumbnails are previews, not analysis results. A generation failure
// after the paid transcription and vision calls must not void the run:
// the command publishes an empty set and passes the video path on so
// assembly and persistence still happen.
func TestThumbnailFailureDoesNotFailChain(t *testing.T) {
	store, err := media.NewStore(t.TempDir())
	assert.NoError(t, err)
	// An ffmpeg binary that does not exist makes every still fail.
	extractor := media.NewExtractor(store, "/nonexistent/ffmpeg", "/nonexistent/ffprobe")

	chainCtx := cor.NewBaseContext()
	defer chainCtx.Close()
	chainCtx.SetContext(context.Background())
	chainCtx.Add(commands.CtxVideoPath, "/nonexistent/clip.mp4")
	chainCtx.Add(commands.CtxVideoMeta, &model.VideoMetadata{Duration: 60})

	cmd := commands.NewThumbnailGenerateCommand("generate-thumbnails", extractor, 3, 320)
	cmd.Execute(chainCtx)

	assert.False(t, chainCtx.HasErrors())
	thumbs, ok := chainCtx.Get(commands.CtxThumbnails).([]*model.Thumbnail)
	assert.True(t, ok)
	assert.Empty(t, thumbs)
	assert.Equal(t, "/nonexistent/clip.mp4", chainCtx.Get(cmd.GetOutputParam()))
}

// A missing video path is still a wiring mistake and fails loudly.
func TestThumbnailRequiresVideoPath(t *testing.T) {
	store, err := media.NewStore(t.TempDir())
	assert.NoError(t, err)
	extractor := media.NewExtractor(store, "", "")

	chainCtx := cor.NewBaseContext()
	defer chainCtx.Close()
	chainCtx.SetContext(context.Background())

	cmd := commands.NewThumbnailGenerateCommand("generate-thumbnails", extractor, 3, 320)
	cmd.Execute(chainCtx)

	assert.True(t, chainCtx.HasErrors())
	assert.ErrorIs(t, chainCtx.GetErrors()["generate-thumbnails"], cor.ErrMissingInput)
}
