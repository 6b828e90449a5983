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

// Package services contains the business logic for interacting with data
// sources. This file defines the ReportService, the data access layer
// for completed analysis reports: persistence and retrieval in BigQuery,
// archival of the source video in Cloud Storage, and secure time-limited
// streaming URLs for archived media.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/cinecraft/video-director/internal/core/model"
)

// ReportService encapsulates the clients and configuration needed to
// store and serve analysis reports.
type ReportService struct {
	BigqueryClient *bigquery.Client                  // Client for interacting with Google BigQuery.
	StorageClient  *storage.Client                   // Client for interacting with Google Cloud Storage.
	IAMClient      *credentials.IamCredentialsClient // Client for IAM, used when signing URLs off-GCP.
	SignerEmail    string                            // The service account email used to sign URLs.
	DatasetName    string                            // The BigQuery dataset name.
	AnalysisTable  string                            // The table holding analysis reports.
	ArchiveBucket  string                            // The GCS bucket archiving analyzed videos.
}

// GetFQN returns the fully qualified, queryable name of the analysis
// table, with the project separator rewritten for standard SQL.
func (s *ReportService) GetFQN() string {
	fqn := s.BigqueryClient.Dataset(s.DatasetName).Table(s.AnalysisTable).FullyQualifiedName()
	return strings.Replace(fqn, ":", ".", -1)
}

// Save streams a completed analysis report into BigQuery.
func (s *ReportService) Save(ctx context.Context, analysis *model.VideoAnalysis) error {
	inserter := s.BigqueryClient.Dataset(s.DatasetName).Table(s.AnalysisTable).Inserter()
	return inserter.Put(ctx, analysis)
}

// Get retrieves a single analysis report by its unique ID.
func (s *ReportService) Get(ctx context.Context, id string) (*model.VideoAnalysis, error) {
	queryText := fmt.Sprintf(QryFindAnalysisById, s.GetFQN())
	q := s.BigqueryClient.Query(queryText)
	q.Parameters = []bigquery.QueryParameter{{Name: "id", Value: id}}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}
	analysis := &model.VideoAnalysis{}
	if err := itr.Next(analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

// List returns the most recent reports, newest first.
func (s *ReportService) List(ctx context.Context, limit int) ([]*model.VideoAnalysis, error) {
	if limit <= 0 {
		limit = 20
	}
	queryText := fmt.Sprintf(QryListRecentAnalyses, s.GetFQN(), limit)
	q := s.BigqueryClient.Query(queryText)
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.VideoAnalysis
	for {
		analysis := &model.VideoAnalysis{}
		err := itr.Next(analysis)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, nil
}

// Archive uploads a local video file into the archive bucket under the
// report's ID and returns the object's GCS URI.
func (s *ReportService) Archive(ctx context.Context, reportID, localPath string) (string, error) {
	return s.ArchiveObject(ctx, reportID, localPath, "source.mp4", "video/mp4")
}

// ArchiveThumbnail uploads one preview still next to the report's source
// video.
func (s *ReportService) ArchiveThumbnail(ctx context.Context, reportID, localPath string, index int) (string, error) {
	return s.ArchiveObject(ctx, reportID, localPath, fmt.Sprintf("thumb-%02d.jpg", index), "image/jpeg")
}

// ArchiveObject uploads a local file under the report's prefix in the
// archive bucket and returns the object's GCS URI.
func (s *ReportService) ArchiveObject(ctx context.Context, reportID, localPath, objectSuffix, contentType string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("could not open %s for archival: %w", localPath, err)
	}
	defer func() { _ = f.Close() }()

	objectName := fmt.Sprintf("reports/%s/%s", reportID, objectSuffix)
	w := s.StorageClient.Bucket(s.ArchiveBucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("archive upload of %s failed: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("archive upload of %s failed: %w", objectName, err)
	}
	return fmt.Sprintf("gs://%s/%s", s.ArchiveBucket, objectName), nil
}

// GenerateSignedURL creates a time-limited URL for streaming an archived
// object, so browsers can play the video directly from GCS without their
// own credentials. The URL is signed with the V4 scheme using the
// configured signer service account.
func (s *ReportService) GenerateSignedURL(ctx context.Context, gcsURI string, expires time.Duration) (string, error) {
	bucketName, objectName, err := splitGCSURI(gcsURI)
	if err != nil {
		return "", err
	}

	opts := &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         "GET",
		Expires:        time.Now().Add(expires),
		GoogleAccessID: s.SignerEmail,
	}
	u, err := s.StorageClient.Bucket(bucketName).SignedURL(objectName, opts)
	if err != nil {
		return "", fmt.Errorf("Bucket(%q).SignedURL(%q): %w", bucketName, objectName, err)
	}
	return u, nil
}

// splitGCSURI breaks a "gs://bucket/object" URI into its components.
func splitGCSURI(gcsURI string) (bucket, object string, err error) {
	const prefix = "gs://"
	if !strings.HasPrefix(gcsURI, prefix) {
		return "", "", fmt.Errorf("invalid GCS URI format: %s", gcsURI)
	}
	path := strings.TrimPrefix(gcsURI, prefix)
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI: unable to determine bucket and object from %s", gcsURI)
	}
	return parts[0], parts[1], nil
}
