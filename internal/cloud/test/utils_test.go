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

// Package cloud_test contains unit tests for the configuration loader
// and the model response helpers.
package cloud_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cinecraft/video-director/internal/cloud"
)

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare json untouched", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"anonymous fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"missing trailing fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"empty input", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, cloud.StripCodeFence(tc.in))
		})
	}
}

// The loader reads the base file first and lets the runtime file
// overwrite individual values while everything else survives.
func TestLoadConfigAppliesRuntimeOverrides(t *testing.T) {
	dir := t.TempDir()

	base := `
[application]
name = "video-director"
google_project_id = "base-project"
location = "us-central1"

[media]
frame_rate = 0.5
max_upload_bytes = 104857600

[storage]
ingest_bucket = "base-ingest"
archive_bucket = "base-archive"
`
	override := `
[application]
google_project_id = "override-project"

[storage]
ingest_bucket = "override-ingest"
`
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(base), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env.staging.toml"), []byte(override), 0o644))

	t.Setenv(cloud.EnvConfigFilePrefix, dir)
	t.Setenv(cloud.EnvConfigRuntime, "staging")

	config := cloud.NewConfig()
	assert.NoError(t, cloud.LoadConfig(config))

	assert.Equal(t, "override-project", config.Application.GoogleProjectId)
	assert.Equal(t, "override-ingest", config.Storage.IngestBucket)
	// Values the override does not mention keep their base settings.
	assert.Equal(t, "video-director", config.Application.Name)
	assert.Equal(t, "us-central1", config.Application.GoogleLocation)
	assert.Equal(t, "base-archive", config.Storage.ArchiveBucket)
	assert.Equal(t, 0.5, config.Media.FrameRate)
	assert.Equal(t, int64(104857600), config.Media.MaxUploadBytes)
}

// An unset runtime falls back to "test", keeping unit tests free of any
// environment setup.
func TestLoadConfigDefaultsToTestRuntime(t *testing.T) {
	dir := t.TempDir()

	base := `
[application]
name = "video-director"
`
	testOverride := `
[application]
name = "video-director-test"
`
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(base), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test.toml"), []byte(testOverride), 0o644))

	t.Setenv(cloud.EnvConfigFilePrefix, dir)
	t.Setenv(cloud.EnvConfigRuntime, "")

	config := cloud.NewConfig()
	assert.NoError(t, cloud.LoadConfig(config))
	assert.Equal(t, "video-director-test", config.Application.Name)
}
