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
	"strings"

	"google.golang.org/genai"

	"github.com/cinecraft/video-director/internal/cloud"
)

const (
	// MaxSynthesisChars bounds the narration text accepted for one
	// synthesis call.
	MaxSynthesisChars = 4096

	// MinSpeechSpeed and MaxSpeechSpeed bound the requested speaking
	// rate. 1.0 is the voice's natural pace.
	MinSpeechSpeed = 0.25
	MaxSpeechSpeed = 4.0
)

// SpeechVoices is the fixed set of prebuilt voices a synthesis request
// may name. Requests naming anything else are rejected rather than
// silently mapped.
var SpeechVoices = []string{"Kore", "Puck", "Charon", "Fenrir", "Aoede", "Leda"}

// SynthesisRequest describes one narration render.
type SynthesisRequest struct {
	Text  string
	Voice string  // One of SpeechVoices; empty selects the configured default.
	Speed float64 // Speaking rate multiplier; 0 means natural pace.
}

// SynthesisResult carries the rendered audio and its MIME type as
// reported by the provider.
type SynthesisResult struct {
	Audio    []byte
	MIMEType string
}

// SpeechSynthesizer renders narration text to audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, req *SynthesisRequest) (*SynthesisResult, error)
}

// GenAISpeechSynthesizer implements SpeechSynthesizer on an AUDIO-modality
// quota-aware model. The voice is selected per request through the speech
// config; the speaking rate is expressed as a style instruction, which is
// how the provider's TTS models take pacing direction.
type GenAISpeechSynthesizer struct {
	model        *cloud.QuotaAwareGenerativeAIModel
	defaultVoice string
}

// NewGenAISpeechSynthesizer builds a synthesizer around the given speech
// model. defaultVoice is used by requests that name no voice and must be
// a member of SpeechVoices.
func NewGenAISpeechSynthesizer(aiModel *cloud.QuotaAwareGenerativeAIModel, defaultVoice string) (*GenAISpeechSynthesizer, error) {
	if !validVoice(defaultVoice) {
		return nil, fmt.Errorf("default voice %q is not in the supported set %v", defaultVoice, SpeechVoices)
	}
	return &GenAISpeechSynthesizer{model: aiModel, defaultVoice: defaultVoice}, nil
}

// Synthesize validates the request, renders the narration, and returns
// the audio bytes from the first candidate. Synthesis is not retried.
func (s *GenAISpeechSynthesizer) Synthesize(ctx context.Context, req *SynthesisRequest) (*SynthesisResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, &ValidationError{Reason: "narration text is required"}
	}
	if len(text) > MaxSynthesisChars {
		return nil, &ValidationError{Reason: fmt.Sprintf(
			"narration text is %d characters, the limit is %d", len(text), MaxSynthesisChars)}
	}

	voice := req.Voice
	if voice == "" {
		voice = s.defaultVoice
	}
	if !validVoice(voice) {
		return nil, &ValidationError{Reason: fmt.Sprintf(
			"voice %q is not supported, choose one of %s", req.Voice, strings.Join(SpeechVoices, ", "))}
	}

	speed := req.Speed
	if speed == 0 {
		speed = 1.0
	}
	if speed < MinSpeechSpeed || speed > MaxSpeechSpeed {
		return nil, &ValidationError{Reason: fmt.Sprintf(
			"speed %.2f is out of range [%.2f, %.2f]", req.Speed, MinSpeechSpeed, MaxSpeechSpeed)}
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}

	prompt := text
	if speed != 1.0 {
		prompt = fmt.Sprintf("Read the following narration at %.2gx the natural speaking pace:\n\n%s", speed, text)
	}

	resp, err := s.model.GenerateContentWithConfig(ctx, cloud.NewTextPart(prompt), cfg)
	if err != nil {
		return nil, NewSynthesisError("provider call failed", err)
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &SynthesisResult{
					Audio:    part.InlineData.Data,
					MIMEType: part.InlineData.MIMEType,
				}, nil
			}
		}
	}
	return nil, NewSynthesisError("provider returned no audio data", nil)
}

func validVoice(voice string) bool {
	for _, v := range SpeechVoices {
		if v == voice {
			return true
		}
	}
	return false
}
