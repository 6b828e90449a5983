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
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"

	"github.com/cinecraft/video-director/internal/cloud"
	"github.com/cinecraft/video-director/internal/core/cor"
	"github.com/cinecraft/video-director/internal/core/media"
)

// GCSToTempFile downloads the triggering object into the temp store so
// the rest of the analysis chain can treat ingested videos exactly like
// uploaded ones. The local copy is registered for cleanup as soon as it
// is created, before the copy either succeeds or fails.
type GCSToTempFile struct {
	cor.BaseCommand
	client *storage.Client
	store  *media.Store
}

// NewGCSToTempFile creates the download step.
func NewGCSToTempFile(name string, client *storage.Client, store *media.Store) *GCSToTempFile {
	return &GCSToTempFile{BaseCommand: *cor.NewBaseCommand(name), client: client, store: store}
}

// Execute streams the object to local disk and publishes the path.
func (c *GCSToTempFile) Execute(context cor.Context) {
	msg, ok := context.Get(c.GetInputParam()).(*cloud.GCSObject)
	if !ok {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), cor.ErrMissingInput)
		return
	}

	reader, err := c.client.Bucket(msg.Bucket).Object(msg.Name).NewReader(context.GetContext())
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to create GCS reader for gs://%s/%s: %w", msg.Bucket, msg.Name, err))
		return
	}
	defer func() {
		if err := reader.Close(); err != nil {
			slog.Warn("failed to close GCS reader", "error", err)
		}
	}()

	localPath := c.store.NewFilePath("ingest", filepath.Ext(msg.Name))
	context.AddTempFile(localPath)

	tempFile, err := os.Create(localPath)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("could not create temp file: %w", err))
		return
	}

	written, err := io.Copy(tempFile, reader)
	if closeErr := tempFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to copy gs://%s/%s after %d bytes: %w", msg.Bucket, msg.Name, written, err))
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	slog.Info("downloaded object for ingestion",
		"bucket", msg.Bucket, "object", msg.Name, "path", localPath, "bytes", written)
	context.Add(CtxVideoPath, localPath)
	context.Add(CtxMediaURL, fmt.Sprintf("gs://%s/%s", msg.Bucket, msg.Name))
	context.Add(c.GetOutputParam(), localPath)
}
