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

package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cinecraft/video-director/internal/core/model"
)

const (
	// MaxVideoDurationSeconds is the longest clip the analysis pipeline
	// accepts. Longer uploads are rejected before any provider call.
	MaxVideoDurationSeconds = 600

	// MinVideoWidth and MinVideoHeight bound the lowest resolution a
	// frame analysis can act on.
	MinVideoWidth  = 640
	MinVideoHeight = 360

	// DefaultFrameRate is the sampling rate used when extracting frames
	// for cinematic analysis: one frame every two seconds.
	DefaultFrameRate = 0.5
)

// Extractor shells out to ffmpeg and ffprobe to derive audio tracks,
// frame sets and thumbnails from a source video. All output paths are
// allocated through the Store, so every artifact an extractor creates is
// uniquely named and trivially cleanable.
type Extractor struct {
	store       *Store
	ffmpegPath  string
	ffprobePath string
}

// NewExtractor builds an extractor over the given store. Empty binary
// paths default to resolving "ffmpeg" and "ffprobe" from PATH.
func NewExtractor(store *Store, ffmpegPath, ffprobePath string) *Extractor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Extractor{store: store, ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// ffprobeOutput mirrors the subset of `ffprobe -print_format json` that
// metadata extraction reads.
type ffprobeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
}

// GetMetadata probes the video and returns its duration, dimensions,
// frame rate, codec and whether an audio stream is present.
func (e *Extractor) GetMetadata(ctx context.Context, videoPath string) (*model.VideoMetadata, error) {
	cmd := exec.CommandContext(ctx, e.ffprobePath,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		videoPath)
	out, err := cmd.Output()
	if err != nil {
		return nil, &ExtractionError{Op: "probe", Err: fmt.Errorf("%w: %s", err, exitDetail(err))}
	}

	var probed ffprobeOutput
	if err := json.Unmarshal(out, &probed); err != nil {
		return nil, &ExtractionError{Op: "probe", Err: fmt.Errorf("unparseable ffprobe output: %w", err)}
	}

	meta := &model.VideoMetadata{}
	meta.Duration, _ = strconv.ParseFloat(probed.Format.Duration, 64)
	meta.BitRate, _ = strconv.ParseInt(probed.Format.BitRate, 10, 64)
	for _, s := range probed.Streams {
		switch s.CodecType {
		case "video":
			meta.Width = s.Width
			meta.Height = s.Height
			meta.Codec = s.CodecName
			meta.FPS = parseFPS(s.RFrameRate)
		case "audio":
			meta.HasAudio = true
		}
	}
	if meta.Width == 0 || meta.Height == 0 {
		return nil, &ExtractionError{Op: "probe", Err: fmt.Errorf("no video stream in %s", filepath.Base(videoPath))}
	}
	return meta, nil
}

// parseFPS converts ffprobe's rational frame rate ("30000/1001") to a
// float. A zero denominator or malformed value yields 0.
func parseFPS(rate string) float64 {
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		f, _ := strconv.ParseFloat(rate, 64)
		return f
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

// ValidateVideo probes the file and applies the pipeline's admission
// rules. Probe failures are returned as errors; rule violations come back
// as a non-valid result with a human-readable reason.
func (e *Extractor) ValidateVideo(ctx context.Context, videoPath string) (*model.ValidationResult, *model.VideoMetadata, error) {
	meta, err := e.GetMetadata(ctx, videoPath)
	if err != nil {
		return nil, nil, err
	}
	return ValidateMetadata(meta), meta, nil
}

// ValidateMetadata applies the admission rules to already-probed
// metadata: bounded duration, minimum resolution, and a present audio
// track (transcription cannot run without one).
func ValidateMetadata(meta *model.VideoMetadata) *model.ValidationResult {
	switch {
	case meta.Duration <= 0:
		return &model.ValidationResult{Valid: false, Error: "video has no detectable duration"}
	case meta.Duration > MaxVideoDurationSeconds:
		return &model.ValidationResult{Valid: false, Error: fmt.Sprintf(
			"video is %.0fs long, the maximum is %ds", meta.Duration, MaxVideoDurationSeconds)}
	case meta.Width < MinVideoWidth || meta.Height < MinVideoHeight:
		return &model.ValidationResult{Valid: false, Error: fmt.Sprintf(
			"video resolution %dx%d is below the %dx%d minimum", meta.Width, meta.Height, MinVideoWidth, MinVideoHeight)}
	case !meta.HasAudio:
		return &model.ValidationResult{Valid: false, Error: "video has no audio track"}
	}
	return &model.ValidationResult{Valid: true}
}

// ExtractAudio writes the video's audio track to a 16 kHz mono PCM WAV
// file, the format the transcription model is tuned for, and returns its
// descriptor.
func (e *Extractor) ExtractAudio(ctx context.Context, videoPath string, duration float64) (*model.AudioFile, error) {
	outPath := e.store.NewFilePath("audio", ".wav")
	cmd := exec.CommandContext(ctx, e.ffmpegPath,
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		outPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, &ExtractionError{Op: "audio", Err: fmt.Errorf("%w: %s", err, tail(string(out)))}
	}
	return &model.AudioFile{Path: outPath, Duration: duration, Format: "wav"}, nil
}

// ExtractFrames samples the video at the given rate (frames per second)
// into a fresh directory and returns the frames in playback order with
// their approximate timestamps. A rate of 0 uses DefaultFrameRate.
func (e *Extractor) ExtractFrames(ctx context.Context, videoPath string, rate float64) ([]*model.Frame, string, error) {
	if rate <= 0 {
		rate = DefaultFrameRate
	}
	dir, err := e.store.NewDir("frames")
	if err != nil {
		return nil, "", &ExtractionError{Op: "frames", Err: err}
	}
	cmd := exec.CommandContext(ctx, e.ffmpegPath,
		"-i", videoPath,
		"-vf", fmt.Sprintf("fps=%g", rate),
		"-q:v", "2",
		"-y",
		filepath.Join(dir, "frame-%04d.jpg"))
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, dir, &ExtractionError{Op: "frames", Err: fmt.Errorf("%w: %s", err, tail(string(out)))}
	}

	frames, err := listFrames(dir, rate)
	if err != nil {
		return nil, dir, err
	}
	if len(frames) == 0 {
		return nil, dir, &ExtractionError{Op: "frames", Err: fmt.Errorf("no frames produced from %s", filepath.Base(videoPath))}
	}
	return frames, dir, nil
}

// listFrames enumerates the jpg files ffmpeg produced, in sequence order.
// The timestamp of frame i at rate r is i/r seconds: with fps=0.5 the
// first frame covers t=0, the second t=2, and so on.
func listFrames(dir string, rate float64) ([]*model.Frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ExtractionError{Op: "frames", Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".jpg") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	frames := make([]*model.Frame, 0, len(names))
	for i, name := range names {
		frames = append(frames, &model.Frame{
			Path:      filepath.Join(dir, name),
			Timestamp: float64(i) / rate,
			Index:     i,
		})
	}
	return frames, nil
}

// GenerateThumbnails grabs count stills spread evenly across the video's
// duration, scaled to the given width, and returns them with the source
// timestamps they were taken at.
func (e *Extractor) GenerateThumbnails(ctx context.Context, videoPath string, duration float64, count, width int) ([]*model.Thumbnail, string, error) {
	if count <= 0 {
		count = 3
	}
	if width <= 0 {
		width = 320
	}
	dir, err := e.store.NewDir("thumbs")
	if err != nil {
		return nil, "", &ExtractionError{Op: "thumbnails", Err: err}
	}

	thumbs := make([]*model.Thumbnail, 0, count)
	for i := 0; i < count; i++ {
		// Midpoint of each of count equal slices, so a 3-thumb set of a
		// 60s video samples t=10, t=30, t=50.
		ts := duration * (float64(i) + 0.5) / float64(count)
		outPath := filepath.Join(dir, fmt.Sprintf("thumb-%02d.jpg", i))
		cmd := exec.CommandContext(ctx, e.ffmpegPath,
			"-ss", strconv.FormatFloat(ts, 'f', 3, 64),
			"-i", videoPath,
			"-frames:v", "1",
			"-vf", fmt.Sprintf("scale=%d:-1", width),
			"-q:v", "3",
			"-y",
			outPath)
		if out, err := cmd.CombinedOutput(); err != nil {
			return nil, dir, &ExtractionError{Op: "thumbnails", Err: fmt.Errorf("%w: %s", err, tail(string(out)))}
		}
		thumbs = append(thumbs, &model.Thumbnail{Path: outPath, Timestamp: ts, Index: i})
	}
	return thumbs, dir, nil
}

// exitDetail surfaces stderr from an ExitError, which is where ffprobe
// writes its diagnostics.
func exitDetail(err error) string {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return tail(string(exitErr.Stderr))
	}
	return err.Error()
}

// tail keeps the last few lines of tool output, which is where ffmpeg
// puts the actual failure reason.
func tail(s string) string {
	s = strings.TrimSpace(s)
	lines := strings.Split(s, "\n")
	if len(lines) > 4 {
		lines = lines[len(lines)-4:]
	}
	return strings.Join(lines, " | ")
}
