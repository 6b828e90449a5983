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

// Package media owns the transient per-request artifacts: the temporary
// store that creates them and the ffmpeg/ffprobe adapter that derives audio
// and frames from them. Nothing in this package talks to an AI provider.
package media

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

// Store creates and deletes transient media files under a single root
// directory. Artifact names carry a UUID, so concurrent requests can never
// collide on a path; each request exclusively owns the paths it created
// until cleanup.
type Store struct {
	root string
}

// NewStore returns a store rooted at dir, creating it if needed. An empty
// dir falls back to a "video-director" directory under the OS temp dir.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "video-director")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create temp root %s: %w", dir, err)
	}
	return &Store{root: dir}, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// Save writes data to a uniquely named file. The original file name only
// contributes its extension; when it has none, the content is sniffed so
// downstream tools that care about extensions (ffmpeg does) get a usable
// one.
func (s *Store) Save(data []byte, originalName string) (string, error) {
	ext := filepath.Ext(originalName)
	if ext == "" {
		if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
			ext = "." + kind.Extension
		}
	}
	name := fmt.Sprintf("upload-%s%s", uuid.NewString(), ext)
	path := filepath.Join(s.root, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("could not write temp file %s: %w", path, err)
	}
	return path, nil
}

// NewFilePath reserves a unique path (without creating the file) for tools
// that write their own output, e.g. "audio-<uuid>.wav".
func (s *Store) NewFilePath(prefix, ext string) string {
	return filepath.Join(s.root, fmt.Sprintf("%s-%s%s", prefix, uuid.NewString(), ext))
}

// NewDir creates a uniquely named subdirectory, e.g. for a frame set.
func (s *Store) NewDir(prefix string) (string, error) {
	dir := filepath.Join(s.root, fmt.Sprintf("%s-%s", prefix, uuid.NewString()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create temp dir %s: %w", dir, err)
	}
	return dir, nil
}

// Cleanup removes the given files or directories. It is idempotent and
// never returns an error: a path that no longer exists is skipped, and a
// deletion failure is logged as a warning and must not fail the request
// that triggered the cleanup.
func (s *Store) Cleanup(paths ...string) {
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			slog.Warn("temp cleanup failed", "path", p, "error", err)
			continue
		}
		slog.Debug("temp artifact removed", "path", p)
	}
}
