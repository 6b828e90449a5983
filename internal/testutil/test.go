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

// Package test provides utility functions and mock data to support the
// application's test suite: test-specific configuration loading and
// sample trigger payloads for the ingestion workflow.
package test

import (
	"log"
	"os"
	"testing"

	"github.com/cinecraft/video-director/internal/cloud"
)

// StateManager caches the loaded configuration across tests so the TOML
// files are read once per run.
type StateManager struct {
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is non-nil. A convenience to reduce
// boilerplate in tests that are not asserting on the error itself.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// GetTestIngestMessageText returns a JSON payload simulating the GCS
// Pub/Sub notification emitted when a video lands in the ingest bucket.
func GetTestIngestMessageText() string {
	return `{
  "kind": "storage#object",
  "id": "cinecraft-ingest/product-demo-001.mp4/1756351200000000",
  "selfLink": "https://www.googleapis.com/storage/v1/b/cinecraft-ingest/o/product-demo-001.mp4",
  "name": "product-demo-001.mp4",
  "bucket": "cinecraft-ingest",
  "generation": "1756351200000000",
  "metageneration": "1",
  "contentType": "video/mp4",
  "timeCreated": "2025-08-28T03:04:08.672Z",
  "updated": "2025-08-28T03:04:08.672Z",
  "storageClass": "STANDARD",
  "timeStorageClassUpdated": "2025-08-28T03:04:08.672Z",
  "size": "48211233",
  "md5Hash": "67c1rAU+1RYZzK5zp8iBkA==",
  "mediaLink": "https://storage.googleapis.com/download/storage/v1/b/cinecraft-ingest/o/product-demo-001.mp4?generation=1756351200000000&alt=media",
  "metadata": { "touch": "1" },
  "crc32c": "IYeSTw==",
  "etag": "CN658+yrhYkDEAE="
}`
}

// GetTestNonVideoMessageText returns a notification for an object the
// ingestion chain must reject on content type.
func GetTestNonVideoMessageText() string {
	return `{
  "kind": "storage#object",
  "name": "notes.txt",
  "bucket": "cinecraft-ingest",
  "contentType": "text/plain",
  "size": "512"
}`
}

// SetupOS points the configuration loader at the test configuration
// files under configs/.
func SetupOS() (err error) {
	if err = os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
		return err
	}
	return os.Setenv(cloud.EnvConfigRuntime, "test")
}

// GetConfig is a singleton accessor for the test configuration, loading
// the TOML files on first use and caching the result.
func GetConfig() *cloud.Config {
	if state.config == nil {
		if err := SetupOS(); err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		if err := cloud.LoadConfig(config); err != nil {
			log.Fatalf("failed to load test configuration: %v\n", err)
		}
		state.config = config
	}
	return state.config
}
