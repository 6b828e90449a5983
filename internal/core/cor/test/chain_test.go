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

// Package cor_test contains unit tests for the chain-of-responsibility
// building blocks: ordering, error short-circuiting, output piping, and
// the temp file cleanup contract that every pipeline relies on.
package cor_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cinecraft/video-director/internal/core/cor"
	"github.com/stretchr/testify/assert"
)

// stageCommand is a scripted chain step for tests: it records that it
// ran, creates a temp artifact the way real extraction steps do, and
// optionally fails.
type stageCommand struct {
	cor.BaseCommand
	ran      *[]string
	tempPath string
	fail     bool
}

func newStageCommand(name string, ran *[]string, tempPath string, fail bool) *stageCommand {
	return &stageCommand{
		BaseCommand: *cor.NewBaseCommand(name),
		ran:         ran,
		tempPath:    tempPath,
		fail:        fail,
	}
}

func (c *stageCommand) Execute(ctx cor.Context) {
	*c.ran = append(*c.ran, c.GetName())
	if c.tempPath != "" {
		if err := os.WriteFile(c.tempPath, []byte(c.GetName()), 0o644); err != nil {
			ctx.AddError(c.GetName(), err)
			return
		}
		ctx.AddTempFile(c.tempPath)
	}
	if c.fail {
		ctx.AddError(c.GetName(), errors.New("stage failure"))
		return
	}
	ctx.Add(c.GetOutputParam(), c.GetName())
}

// newChainContext builds a context the way callers do before running a
// pipeline.
func newChainContext() cor.Context {
	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.Add(cor.CtxIn, "trigger")
	return ctx
}

// TestChainRunsInOrder verifies commands run strictly in sequence and
// each command's output is piped into the next command's input slot.
func TestChainRunsInOrder(t *testing.T) {
	var ran []string
	chain := cor.NewBaseChain("test-chain")
	chain.AddCommand(newStageCommand("first", &ran, "", false))
	chain.AddCommand(newStageCommand("second", &ran, "", false))
	chain.AddCommand(newStageCommand("third", &ran, "", false))

	ctx := newChainContext()
	defer ctx.Close()
	chain.Execute(ctx)

	assert.False(t, ctx.HasErrors())
	assert.Equal(t, []string{"first", "second", "third"}, ran)
	// The last command's output remains in the input slot after piping.
	assert.Equal(t, "third", ctx.Get(cor.CtxIn))
}

// TestChainStopsOnError verifies the chain short-circuits at the first
// recorded error and later stages never run.
func TestChainStopsOnError(t *testing.T) {
	var ran []string
	chain := cor.NewBaseChain("test-chain")
	chain.AddCommand(newStageCommand("first", &ran, "", false))
	chain.AddCommand(newStageCommand("second", &ran, "", true))
	chain.AddCommand(newStageCommand("third", &ran, "", false))

	ctx := newChainContext()
	defer ctx.Close()
	chain.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	assert.Equal(t, []string{"first", "second"}, ran)
	assert.Contains(t, ctx.GetErrors(), "second")
}

// TestChainContinueOnFailure verifies the opt-in mode where later
// commands still run after a failure. The failing command writes no
// output, so the chain must leave the prior input in place for the
// next command instead of piping a nil into its slot.
func TestChainContinueOnFailure(t *testing.T) {
	var ran []string
	chain := cor.NewBaseChain("test-chain")
	chain.ContinueOnFailure(true)
	chain.AddCommand(newStageCommand("first", &ran, "", true))
	chain.AddCommand(newStageCommand("second", &ran, "", false))

	ctx := newChainContext()
	defer ctx.Close()
	chain.Execute(ctx)

	assert.True(t, ctx.HasErrors())
	assert.Equal(t, []string{"first", "second"}, ran)
	// The second command ran and its output was piped as usual.
	assert.Equal(t, "second", ctx.Get(cor.CtxIn))
}

// TestCloseRemovesTempFilesOnSuccess verifies the cleanup contract on
// the happy path: every artifact registered during the run is gone after
// Close.
func TestCloseRemovesTempFilesOnSuccess(t *testing.T) {
	dir := t.TempDir()
	var ran []string
	paths := []string{
		filepath.Join(dir, "upload.mp4"),
		filepath.Join(dir, "audio.wav"),
		filepath.Join(dir, "frames.jpg"),
	}

	chain := cor.NewBaseChain("test-chain")
	for i, p := range paths {
		chain.AddCommand(newStageCommand(fmt.Sprintf("stage-%d", i), &ran, p, false))
	}

	ctx := newChainContext()
	chain.Execute(ctx)
	assert.False(t, ctx.HasErrors())
	assert.Equal(t, paths, ctx.GetTempFiles())

	ctx.Close()
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "expected %s to be removed", p)
	}
}

// TestCloseRemovesTempFilesOnFailureAtEachStage injects a failure at
// every stage of a three-stage pipeline in turn and verifies that the
// artifacts created up to the failure point are removed by Close. This
// is the invariant the whole service depends on: no input survives in
// the temp directory whatever stage broke.
func TestCloseRemovesTempFilesOnFailureAtEachStage(t *testing.T) {
	for failAt := 0; failAt < 3; failAt++ {
		t.Run(fmt.Sprintf("failure at stage %d", failAt), func(t *testing.T) {
			dir := t.TempDir()
			var ran []string
			var paths []string

			chain := cor.NewBaseChain("test-chain")
			for i := 0; i < 3; i++ {
				p := filepath.Join(dir, fmt.Sprintf("artifact-%d.bin", i))
				paths = append(paths, p)
				chain.AddCommand(newStageCommand(fmt.Sprintf("stage-%d", i), &ran, p, i == failAt))
			}

			ctx := newChainContext()
			chain.Execute(ctx)
			assert.True(t, ctx.HasErrors())
			// Stages after the failing one never ran.
			assert.Len(t, ran, failAt+1)

			ctx.Close()
			for i := 0; i <= failAt; i++ {
				_, err := os.Stat(paths[i])
				assert.True(t, os.IsNotExist(err), "expected %s to be removed", paths[i])
			}
		})
	}
}

// TestCloseIsIdempotent verifies a second Close is a no-op, and that
// directories registered as temp artifacts are removed recursively.
func TestCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	framesDir := filepath.Join(dir, "frames")
	assert.NoError(t, os.MkdirAll(framesDir, 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(framesDir, "frame-0001.jpg"), []byte("jpg"), 0o644))

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	ctx.AddTempFile(framesDir)

	ctx.Close()
	_, err := os.Stat(framesDir)
	assert.True(t, os.IsNotExist(err))

	// Second Close must not fail on the already-removed path.
	ctx.AddTempFile(framesDir)
	ctx.Close()
}

// TestChainSkipsNonExecutableCommand verifies a command whose input is
// missing is skipped rather than run against a nil payload.
func TestChainSkipsNonExecutableCommand(t *testing.T) {
	var ran []string
	chain := cor.NewBaseChain("test-chain")
	chain.AddCommand(newStageCommand("only", &ran, "", false))

	ctx := cor.NewBaseContext()
	ctx.SetContext(context.Background())
	// No CtxIn: the default IsExecutable precondition fails.
	chain.Execute(ctx)

	assert.Empty(t, ran)
}
