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

// VideoSaveCommand is the first step of the upload analysis chain: it
// writes the upload's bytes into the temp store under a unique name and
// registers the file for cleanup. Everything downstream works off the
// local path.
type VideoSaveCommand struct {
	cor.BaseCommand
	store *media.Store
}

// NewVideoSaveCommand creates the save step over the given store.
func NewVideoSaveCommand(name string, store *media.Store) *VideoSaveCommand {
	return &VideoSaveCommand{BaseCommand: *cor.NewBaseCommand(name), store: store}
}

// Execute persists the upload and publishes the local path.
func (c *VideoSaveCommand) Execute(context cor.Context) {
	upload, ok := context.Get(c.GetInputParam()).(*Upload)
	if !ok || len(upload.Data) == 0 {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), cor.ErrMissingInput)
		return
	}

	path, err := c.store.Save(upload.Data, upload.FileName)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), err)
		return
	}
	context.AddTempFile(path)

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(CtxVideoPath, path)
	context.Add(CtxFileName, upload.FileName)
	context.Add(c.GetOutputParam(), path)
}
