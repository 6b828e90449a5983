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

package services

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/cinecraft/video-director/internal/core/media"
)

// DefaultMaxDownloadBytes caps remote fetches at 100 MiB, matching the
// upload limit so downloaded videos flow into the same pipeline.
const DefaultMaxDownloadBytes = 100 << 20

// VideoDownloader fetches a remote video into the local temp store.
type VideoDownloader interface {
	Download(ctx context.Context, videoURL string) (string, error)
}

// YtDlpDownloader implements VideoDownloader by shelling out to yt-dlp,
// which handles the platform-specific resolution of watch-page URLs into
// media streams.
type YtDlpDownloader struct {
	store    *media.Store
	binPath  string
	maxBytes int64
}

// NewYtDlpDownloader builds a downloader over the given store. An empty
// binPath resolves "yt-dlp" from PATH; maxBytes at or below zero uses
// the default cap.
func NewYtDlpDownloader(store *media.Store, binPath string, maxBytes int64) *YtDlpDownloader {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDownloadBytes
	}
	return &YtDlpDownloader{store: store, binPath: binPath, maxBytes: maxBytes}
}

// Download validates the URL, fetches the best MP4 rendition within the
// size cap, and returns the local path of the downloaded file. The format
// selector prefers a single-file MP4 and falls back to the best available
// rendition; the filesize ceiling is enforced by yt-dlp itself so an
// oversized video fails before a byte lands on disk.
func (d *YtDlpDownloader) Download(ctx context.Context, videoURL string) (string, error) {
	parsed, err := url.Parse(videoURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", &ValidationError{Reason: fmt.Sprintf("invalid video URL %q", videoURL)}
	}

	outPath := d.store.NewFilePath("download", ".mp4")
	maxMiB := d.maxBytes >> 20
	cmd := exec.CommandContext(ctx, d.binPath,
		"--no-playlist",
		"--format", fmt.Sprintf("best[ext=mp4][filesize<%dM]/best[filesize<%dM]", maxMiB, maxMiB),
		"--max-filesize", fmt.Sprintf("%dM", maxMiB),
		"--output", outPath,
		videoURL)
	if out, err := cmd.CombinedOutput(); err != nil {
		d.store.Cleanup(outPath)
		return "", &DownloadError{URL: videoURL, Detail: lastLines(string(out)), Err: err}
	}

	// yt-dlp exits zero when --max-filesize skips the download, so the
	// absence of the output file is itself a failure.
	info, err := os.Stat(outPath)
	if err != nil {
		return "", &DownloadError{URL: videoURL, Detail: "no rendition within the size limit", Err: err}
	}
	if info.Size() == 0 {
		d.store.Cleanup(outPath)
		return "", &DownloadError{URL: videoURL, Detail: "downloaded file is empty", Err: nil}
	}
	return outPath, nil
}

func lastLines(out string) string {
	out = strings.TrimSpace(out)
	lines := strings.Split(out, "\n")
	if len(lines) > 3 {
		lines = lines[len(lines)-3:]
	}
	return strings.Join(lines, " | ")
}
