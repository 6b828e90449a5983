// Copyright 2025 CineCraft, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// *****************************************************************************************************//
// Package main is the entry point for the video director backend server.
//
// This application sets up and runs a web server using the Gin framework. It
// provides a REST API for video analysis, director-style narration rewrites,
// speech synthesis and remote video download. The server is instrumented with
// OpenTelemetry for logging, tracing, and metrics.
//
// The main function initializes the application's configuration, sets up
// logging and telemetry, and initializes the application state, including
// clients for Google Cloud services. It defines API routes for analyzing
// uploaded videos, rewriting narration scripts, rendering narration audio,
// fetching remote videos, and browsing persisted analysis reports.
//
// The server also manages a background Pub/Sub listener that runs the full
// analysis pipeline against videos dropped into the ingest bucket.
//
// Functions:
//   - main: The main entry point of the application. It sets up the server,
//     configures routes, initializes services, and handles graceful shutdown.
//   - AnalysisRouter: Sets up the processing routes: video analysis, director
//     rewrites, speech synthesis and remote download.
//   - ReportRouter: Sets up the read-only routes over persisted analysis
//     reports, including signed streaming URLs for archived sources.
package main

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/cinecraft/video-director/internal/core/commands"
	"github.com/cinecraft/video-director/internal/core/cor"
	"github.com/cinecraft/video-director/internal/core/model"
	"github.com/cinecraft/video-director/internal/core/services"
	"github.com/cinecraft/video-director/internal/telemetry"
)

// DefaultRequestTimeoutSec is the per-request ceiling applied to the
// processing endpoints when the configuration does not set one.
const DefaultRequestTimeoutSec = 300

// main is the primary entry point for the application.
// It orchestrates the setup of logging, telemetry, configuration, cloud
// services, the web server, API routes, and the background ingest
// listener. It also handles graceful shutdown of the server upon
// receiving an interrupt signal.
func main() {
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := GetConfig()

	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

	InitState(ctx)
	slog.Info("Initialized State")

	r := gin.Default()

	// Trace every incoming request.
	r.Use(otelgin.Middleware("video-director-server"))

	// Permissive CORS suitable for development.
	r.Use(cors.Default())

	apiV1 := r.Group("/api/v1")
	{
		AnalysisRouter(apiV1)
		ReportRouter(apiV1)
	}

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
		// The analysis endpoint can legitimately hold a connection for
		// minutes while ffmpeg and the models run, so the server-level
		// timeouts track the request ceiling rather than a typical API
		// round trip.
		ReadTimeout:  time.Duration(requestTimeoutSec()) * time.Second,
		WriteTimeout: time.Duration(requestTimeoutSec()) * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to listen: ", "error", err)
		}
	}()
	slog.Info("Server Ready on port 8080")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed:", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		slog.Error("Telemetry Shutdown Failed:", "error", err)
	}

	log.Println("Server exiting")
}

// requestTimeoutSec returns the configured processing ceiling in seconds,
// falling back to the default when the configuration leaves it unset.
func requestTimeoutSec() int {
	if state.config != nil && state.config.Media.RequestTimeoutSec > 0 {
		return state.config.Media.RequestTimeoutSec
	}
	return DefaultRequestTimeoutSec
}

// statusCoder is implemented by service errors that know their HTTP
// mapping: validation failures map to 400, provider and download
// failures to 502.
type statusCoder interface {
	StatusCode() int
}

// statusFromError resolves the HTTP status for a service error,
// defaulting to 500 for anything that does not declare a mapping.
func statusFromError(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// chainFailure writes the error response for a failed workflow run. The
// chain reports errors per command; the first one that carries an HTTP
// mapping decides the status.
func chainFailure(c *gin.Context, chainCtx cor.Context) {
	status := http.StatusInternalServerError
	message := "analysis failed"
	for name, err := range chainCtx.GetErrors() {
		slog.Error("workflow command failed", "command", name, "error", err)
		if s := statusFromError(err); s != http.StatusInternalServerError {
			status = s
		}
		message = err.Error()
	}
	c.JSON(status, gin.H{"success": false, "error": message})
}

// AnalysisRouter sets up the API routes for the processing endpoints.
//
// This function defines the following endpoints:
//   - POST /analyze: Runs the full analysis pipeline against an uploaded
//     video and returns the transcription and cinematic report.
//   - POST /director: Produces director notes or a rewritten script for a
//     previously obtained analysis.
//   - POST /tts: Renders narration text to audio with a Gemini speech
//     voice.
//   - POST /download: Fetches a remote video with yt-dlp and returns it
//     base64-encoded.
func AnalysisRouter(r *gin.RouterGroup) {
	// Handler for POST /analyze. Accepts multipart/form-data with a
	// single "file" field holding the video.
	r.POST("/analyze", func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "a video file is required under the \"file\" form field"})
			return
		}
		maxBytes := state.config.Media.MaxUploadBytes
		if maxBytes > 0 && fileHeader.Size > maxBytes {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "uploaded file exceeds the size limit"})
			return
		}
		if ct := fileHeader.Header.Get("Content-Type"); !strings.HasPrefix(ct, "video/") {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "uploaded file must be a video"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "could not read uploaded file"})
			return
		}
		defer func() { _ = file.Close() }()
		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "could not read uploaded file"})
			return
		}

		reqCtx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(requestTimeoutSec())*time.Second)
		defer cancel()

		// The chain context owns every temp artifact the pipeline
		// creates; Close removes them whether the run succeeded or not.
		chainCtx := cor.NewBaseContext()
		defer chainCtx.Close()
		chainCtx.SetContext(reqCtx)
		chainCtx.Add(cor.CtxIn, &commands.Upload{Data: data, FileName: fileHeader.Filename})

		state.analysisWorkflow.Execute(chainCtx)
		if chainCtx.HasErrors() {
			chainFailure(c, chainCtx)
			return
		}

		analysis, ok := chainCtx.Get(commands.CtxAnalysis).(*model.VideoAnalysis)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "analysis produced no report"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"id":            analysis.ID,
			"file_name":     analysis.FileName,
			"transcription": analysis.Transcription,
			"cinematic":     analysis.Cinematic,
		}})
	})

	// Handler for POST /director. Accepts the transcription (and
	// optionally the cinematic report) from a prior analysis plus the
	// rewrite mode and desired tone.
	r.POST("/director", func(c *gin.Context) {
		var body struct {
			Mode          string                   `json:"mode"`
			Tone          string                   `json:"tone"`
			Transcription *model.Transcription     `json:"transcription"`
			Cinematic     *model.CinematicAnalysis `json:"cinematic"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
			return
		}
		if body.Transcription == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "a transcription is required"})
			return
		}

		reqCtx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(requestTimeoutSec())*time.Second)
		defer cancel()

		out, err := state.director.Direct(reqCtx, &services.DirectorRequest{
			Mode:          model.DirectorMode(body.Mode),
			Tone:          body.Tone,
			Transcription: body.Transcription,
			Cinematic:     body.Cinematic,
		})
		if err != nil {
			c.JSON(statusFromError(err), gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
	})

	// Handler for POST /tts. Renders narration text with one of the
	// configured speech voices and returns the raw audio bytes.
	r.POST("/tts", func(c *gin.Context) {
		var body struct {
			Text  string  `json:"text"`
			Voice string  `json:"voice"`
			Speed float64 `json:"speed"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
			return
		}

		reqCtx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(requestTimeoutSec())*time.Second)
		defer cancel()

		out, err := state.synthesizer.Synthesize(reqCtx, &services.SynthesisRequest{
			Text:  body.Text,
			Voice: body.Voice,
			Speed: body.Speed,
		})
		if err != nil {
			c.JSON(statusFromError(err), gin.H{"success": false, "error": err.Error()})
			return
		}
		mimeType := out.MIMEType
		if mimeType == "" {
			mimeType = "audio/mpeg"
		}
		c.Data(http.StatusOK, mimeType, out.Audio)
	})

	// Handler for POST /download. Fetches a remote video and returns it
	// base64-encoded along with its generated filename. The local copy
	// is removed once the response is built.
	r.POST("/download", func(c *gin.Context) {
		var body struct {
			URL string `json:"url"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.URL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "a video URL is required"})
			return
		}

		reqCtx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(requestTimeoutSec())*time.Second)
		defer cancel()

		localPath, err := state.downloader.Download(reqCtx, body.URL)
		if err != nil {
			c.JSON(statusFromError(err), gin.H{"success": false, "error": err.Error()})
			return
		}
		defer state.store.Cleanup(localPath)

		content, err := os.ReadFile(localPath)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not read downloaded file"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"file_name":    filepath.Base(localPath),
			"video_base64": base64.StdEncoding.EncodeToString(content),
		}})
	})
}

// ReportRouter sets up the read-only API routes over persisted analysis
// reports.
//
// This function defines the following endpoints:
//   - GET /reports: Lists the most recent analysis reports.
//   - GET /reports/:id: Retrieves a single report by its ID.
//   - GET /reports/:id/stream: Generates a time-limited, signed URL for
//     streaming the archived source video of a report.
func ReportRouter(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	{
		// Handler for GET /reports?count=<n>
		reports.GET("", func(c *gin.Context) {
			count, err := strconv.Atoi(c.DefaultQuery("count", "10"))
			if err != nil || count <= 0 {
				count = 10
			}
			out, err := state.reports.List(c, count)
			if err != nil {
				log.Printf("Error listing reports: %v\n", err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		// Handler for GET /reports/:id
		reports.GET("/:id", func(c *gin.Context) {
			id := c.Param("id")
			out, err := state.reports.Get(c, id)
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		// Handler for GET /reports/:id/stream
		// Provides a secure, time-limited URL for streaming the archived
		// source video.
		reports.GET("/:id/stream", func(c *gin.Context) {
			id := c.Param("id")
			report, err := state.reports.Get(c, id)
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
				return
			}
			if report.MediaURL == "" {
				c.JSON(http.StatusNotFound, gin.H{"error": "Report has no archived media"})
				return
			}

			signedURL, err := state.reports.GenerateSignedURL(c, report.MediaURL, 15*time.Minute)
			if err != nil {
				log.Printf("Error generating signed URL: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate streaming URL"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"url": signedURL})
		})
	}
}
